package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/davebream/mcpreflect/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default mcpreflect config",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := config.ConfigFilePath()
		if err != nil {
			return err
		}
		if err := writeDefaultConfig(cfgPath, initForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", cfgPath)
		return nil
	},
}

func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.EnsureDir(filepath.Dir(path), 0700); err != nil {
		return err
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}
