package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportLang   string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the edited page or its overrides",
}

var exportHTMLCmd = &cobra.Command{
	Use:   "html",
	Short: "Write the edited page as standalone HTML",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		return writeOutput(cmd.OutOrStdout(), []byte(app.Editor.ExportHTML(exportLang)))
	},
}

var exportJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Write the override map as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		data, err := app.Editor.ExportJSON()
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), data)
	},
}

func writeOutput(stdout io.Writer, data []byte) error {
	if exportOutput == "" || exportOutput == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", exportOutput, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", exportOutput, len(data))
	return nil
}

func init() {
	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	exportHTMLCmd.Flags().StringVar(&exportLang, "lang", "en", "page language (en or es)")
	exportCmd.AddCommand(exportHTMLCmd, exportJSONCmd)
	rootCmd.AddCommand(exportCmd)
}
