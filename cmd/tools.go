package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/davebream/mcpreflect/internal/reflection"
	"github.com/davebream/mcpreflect/internal/tools"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool descriptors advertised by tools/list",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTools(cmd.OutOrStdout())
	},
}

func printTools(w io.Writer) error {
	registry, err := tools.DefaultRegistry(reflection.New())
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(registry.List(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tools: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
