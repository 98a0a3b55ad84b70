package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/davebream/mcpreflect/internal/config"
	"github.com/davebream/mcpreflect/internal/reflection"
	"github.com/spf13/cobra"
)

const hangReflection = "Hang detected—like frozen in carbonite. Debug stdin loop."

var reflectCmd = &cobra.Command{
	Use:   "reflect",
	Short: "Reflect on bare JSON argument lines from stdin",
	Long: `Reads one JSON object per line ({"prompt":...,"output":...,"success":...})
and writes one reflection per line, without the JSON-RPC envelope.
Lines that fail to parse produce an error object and processing continues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reflectLines(os.Stdin, os.Stdout, reflection.New())
	},
}

type lineError struct {
	Error      string `json:"error"`
	Reflection string `json:"reflection"`
}

// reflectLines answers each non-blank line of r on w until end of input.
func reflectLines(r io.Reader, w io.Writer, g *reflection.Generator) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), config.DefaultMaxLineBytes)
	out := bufio.NewWriter(w)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var reply any
		var a reflection.Args
		if err := json.Unmarshal(line, &a); err != nil {
			reply = lineError{Error: err.Error(), Reflection: hangReflection}
		} else {
			reply = g.Reflect(a)
		}
		if err := enc.Encode(reply); err != nil {
			return fmt.Errorf("write reflection: %w", err)
		}
		if err := out.Flush(); err != nil {
			return fmt.Errorf("write reflection: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(reflectCmd)
}
