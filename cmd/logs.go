package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/davebream/mcpreflect/internal/config"
	"github.com/spf13/cobra"
)

var logsFollow bool

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show server logs",
	Long:  "Shows the rotated server log. Only written when serving with --log-file or log_file in the config.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logFile, err := config.LogFilePath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(logFile); os.IsNotExist(err) {
			fmt.Println("No log file found at", logFile)
			return nil
		}

		tailArgs := []string{"-n", "50", logFile}
		if logsFollow {
			tailArgs = []string{"-f", logFile}
		}
		tailCmd := exec.Command("tail", tailArgs...)
		tailCmd.Stdout = os.Stdout
		tailCmd.Stderr = os.Stderr
		return tailCmd.Run()
	},
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output")
	rootCmd.AddCommand(logsCmd)
}
