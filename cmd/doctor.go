package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/davebream/mcpreflect/internal/config"
	"github.com/davebream/mcpreflect/internal/reflection"
	"github.com/davebream/mcpreflect/internal/tools"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check mcpreflect installation and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !runDoctor(cmd.OutOrStdout()) {
			return fmt.Errorf("some checks failed")
		}
		return nil
	},
}

func runDoctor(out io.Writer) bool {
	allOK := true

	// 1. Config file
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		fmt.Fprintf(out, "Config:  FAIL (cannot determine path: %v)\n", err)
		allOK = false
	} else if _, statErr := os.Stat(cfgPath); os.IsNotExist(statErr) {
		fmt.Fprintf(out, "Config:  OK (defaults, no file at %s)\n", cfgPath)
	} else {
		cfg, err := config.Load(cfgPath)
		if err == nil {
			err = cfg.ApplyEnv()
		}
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			fmt.Fprintf(out, "Config:  FAIL (%v)\n", err)
			allOK = false
		} else {
			fmt.Fprintf(out, "Config:  OK (level %s, %s)\n", cfg.LogLevel, cfgPath)
		}
	}

	// 2. Log directory
	logDir, err := config.LogDir()
	if err != nil {
		fmt.Fprintf(out, "Logs:    FAIL (cannot determine path: %v)\n", err)
		allOK = false
	} else if info, err := os.Stat(logDir); err != nil {
		fmt.Fprintf(out, "Logs:    WARN (not present at %s)\n", logDir)
	} else if perm := info.Mode().Perm(); perm&0077 != 0 {
		fmt.Fprintf(out, "Logs:    WARN (permissions %04o at %s)\n", perm, logDir)
	} else {
		fmt.Fprintf(out, "Logs:    OK (%s)\n", logDir)
	}

	// 3. Tool registry
	registry, err := tools.DefaultRegistry(reflection.New())
	if err != nil {
		fmt.Fprintf(out, "Tools:   FAIL (%v)\n", err)
		allOK = false
	} else {
		for _, t := range registry.List() {
			fmt.Fprintf(out, "Tool %s: OK (required %v)\n", t.Name, t.InputSchema.Required)
		}
	}

	// 4. Client registration
	for _, c := range config.DetectClients() {
		if config.IsRegistered(c.Servers[config.ServerName]) {
			fmt.Fprintf(out, "Client %s: OK\n", c.Name)
		} else {
			fmt.Fprintf(out, "Client %s: WARN (not registered, run 'mcpreflect install')\n", c.Name)
		}
	}

	return allOK
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
