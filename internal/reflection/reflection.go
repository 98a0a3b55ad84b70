// Package reflection generates the canned reflection returned by the
// "reflect" tool.
package reflection

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

const (
	promptPreviewRunes = 50

	reflectionPrefix = "Reflecting (Star Wars style: Like Luke sensing the Force): Prompt '"
	successText      = "Victory! But optimize like upgrading the Millennium Falcon."
	failureText      = "Failure—it's a trap! Likely prompt ambiguity or context black hole."
	errorSuggestion  = "Add error MCP—engage warp speed fixes!"
)

var baseSuggestions = []string{
	"Refine prompt: Add details, Transformers-style assembly.",
	"New tool: 'jedi_debug' for error Force-pushing.",
	"Patch: Shield against similar fails with learned deflector.",
}

// Args are the arguments of the reflect tool. SessionID and History are
// accepted in any JSON shape and otherwise ignored.
type Args struct {
	Prompt    string          `json:"prompt" jsonschema:"description=The original prompt"`
	Output    string          `json:"output" jsonschema:"description=The generated output"`
	Success   Truthy          `json:"success,omitempty" jsonschema:"type=boolean,description=Whether the output was successful"`
	SessionID json.RawMessage `json:"sessionID,omitempty" jsonschema:"type=string,description=Session identifier"`
	History   json.RawMessage `json:"history,omitempty" jsonschema:"type=array,description=Conversation history"`
}

// Truthy is a boolean that decodes from any JSON value: false, null, 0,
// "", [] and {} are false, everything else is true.
type Truthy bool

func (t *Truthy) UnmarshalJSON(data []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = false
	case bool:
		*t = Truthy(x)
	case json.Number:
		f, err := x.Float64()
		*t = Truthy(err != nil || f != 0)
	case string:
		*t = x != ""
	case []any:
		*t = len(x) > 0
	case map[string]any:
		*t = len(x) > 0
	}
	return nil
}

// Result is the reflect tool's output.
type Result struct {
	Timestamp   string   `json:"timestamp"`
	Reflection  string   `json:"reflection"`
	Suggestions []string `json:"suggestions"`
}

// Generator builds reflections. The zero value is not usable; use New.
type Generator struct {
	now func() time.Time
}

// Option customizes a Generator.
type Option func(*Generator)

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

func New(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Reflect produces a reflection for args. It never fails.
func (g *Generator) Reflect(args Args) Result {
	var b strings.Builder
	b.WriteString(reflectionPrefix)
	b.WriteString(preview(args.Prompt, promptPreviewRunes))
	b.WriteString("...'. ")
	if args.Success {
		b.WriteString(successText)
	} else {
		b.WriteString(failureText)
	}

	suggestions := make([]string, len(baseSuggestions), len(baseSuggestions)+1)
	copy(suggestions, baseSuggestions)
	if strings.Contains(strings.ToLower(args.Output), "error") {
		suggestions = append(suggestions, errorSuggestion)
	}

	return Result{
		Timestamp:   g.now().Format(time.RFC3339Nano),
		Reflection:  b.String(),
		Suggestions: suggestions,
	}
}

// preview returns the first n runes of s.
func preview(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
