package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eringen/hws"
)

const redacted = "<redacted>"

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print the password_hash value for a password",
	Long:  "Prints the digest to put in password_hash. Without an argument the password is read from stdin.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := ""
		if len(args) == 1 {
			password = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		if password == "" {
			return fmt.Errorf("password must not be empty")
		}
		fmt.Fprintln(cmd.OutOrStdout(), hws.HashPassword(password))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.PasswordHash != "" {
			cfg.PasswordHash = redacted
		}
		if cfg.SessionSecret != "" {
			cfg.SessionSecret = redacted
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the hws version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hws %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd, configCmd, versionCmd)
}
