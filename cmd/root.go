package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mcpreflect",
	Short: "Reflection MCP tool server",
	Long: `mcpreflect is an MCP server speaking line-delimited JSON-RPC over
stdin/stdout. It exposes one tool, "reflect", which comments on a
prompt/output pair and suggests improvements.

Run without a subcommand to serve.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	addServeFlags(rootCmd)
}
