package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/davebream/mcpreflect/internal/config"
	"github.com/spf13/cobra"
)

var (
	installDiff    bool
	installRestore bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register mcpreflect in detected MCP client configs",
	Long: `Scans Claude Code, Claude Desktop, and Cursor configs and adds a
"reflection" entry to mcpServers that runs 'mcpreflect serve'.
Each modified file is backed up first.

Use --diff to preview changes without modifying anything.
Use --restore to revert client configs from backups.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if installRestore {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			restoreClients(out, home)
			return nil
		}

		clients := config.DetectClients()
		if len(clients) == 0 {
			fmt.Fprintln(out, "No MCP client configs found.")
			return nil
		}

		bin, err := exec.LookPath("mcpreflect")
		if err != nil {
			if bin, err = os.Executable(); err != nil {
				return fmt.Errorf("locate mcpreflect binary: %w", err)
			}
		}
		installClients(out, clients, bin, installDiff)
		return nil
	},
}

// installClients registers bin in every client that does not already run
// mcpreflect. With dryRun only the plan is printed.
func installClients(out io.Writer, clients []config.ClientInfo, bin string, dryRun bool) int {
	changed := 0
	for _, c := range clients {
		if config.IsRegistered(c.Servers[config.ServerName]) {
			fmt.Fprintf(out, "%s: already registered (%s)\n", c.Name, c.Path)
			continue
		}
		if dryRun {
			fmt.Fprintf(out, "%s: would add %q to %s\n", c.Name, config.ServerName, c.Path)
			continue
		}
		if err := config.BackupClientConfig(c.Path); err != nil {
			fmt.Fprintf(out, "Warning: could not backup %s: %v\n", c.Path, err)
			continue
		}
		if err := config.RegisterServer(c.Path, config.ServerName, config.ServeEntry(bin)); err != nil {
			fmt.Fprintf(out, "Warning: could not update %s: %v\n", c.Path, err)
			continue
		}
		fmt.Fprintf(out, "Modified %s (backup at %s)\n", c.Path, config.BackupPath(c.Path))
		changed++
	}
	if dryRun {
		fmt.Fprintln(out, "\n(Dry run. No changes made.)")
	}
	return changed
}

// restoreClients restores every known client config that has a backup.
func restoreClients(out io.Writer, home string) int {
	restored := 0
	for _, name := range []string{"Claude Code", "Claude Desktop", "Cursor"} {
		path := config.ClientConfigPaths(home)[name]
		if err := config.RestoreClientConfig(path); err != nil {
			continue
		}
		fmt.Fprintf(out, "Restored %s\n", path)
		restored++
	}
	if restored == 0 {
		fmt.Fprintln(out, "No backups found to restore.")
	}
	return restored
}

func init() {
	installCmd.Flags().BoolVar(&installDiff, "diff", false, "Preview changes without modifying anything")
	installCmd.Flags().BoolVar(&installRestore, "restore", false, "Restore client configs from backups")
	rootCmd.AddCommand(installCmd)
}
