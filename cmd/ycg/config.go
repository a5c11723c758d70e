package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ycg/internal/config"
)

var (
	configRoot  string
	configForce bool
	configType  string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ycg configuration",
	Long:  "View and manage the ycg.config file in the project root",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	Long: `Write ycg.config.json (or .toml) with default values.

Examples:
  ycg config init
  ycg config init --type toml --force`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.PersistentFlags().StringVar(&configRoot, "root", ".", "Project root")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
	configInitCmd.Flags().StringVar(&configType, "type", "json", "File type: json or toml")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if configType != "json" && configType != "toml" {
		return fmt.Errorf("unsupported config type %q, valid options are: json, toml", configType)
	}
	path := filepath.Join(configRoot, config.FileName+"."+configType)
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configRoot)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
