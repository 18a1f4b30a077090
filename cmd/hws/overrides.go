package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetYes bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the overrides with a previously exported JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		n, err := app.Editor.ImportJSON(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d values.\n", n)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard every edit and restore the original page",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes && !confirm(cmd, "Discard every edit?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		if err := app.Editor.ResetAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All edits removed.")
		return nil
	},
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(importCmd, resetCmd)
}
