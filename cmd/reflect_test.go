package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/davebream/mcpreflect/internal/reflection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReflectLines(t *testing.T) {
	g := reflection.New(reflection.WithClock(func() time.Time {
		return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	}))
	in := strings.Join([]string{
		`{"prompt":"Why did it fail?","output":"Error: timeout","success":false}`,
		``,
		`not json`,
		`   `,
		`{"prompt":"ok","output":"fine","success":true}`,
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, reflectLines(strings.NewReader(in), &out, g))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	var first reflection.Result
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "2025-01-02T03:04:05Z", first.Timestamp)
	assert.Len(t, first.Suggestions, 4)

	var bad map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &bad))
	assert.NotEmpty(t, bad["error"])
	assert.Equal(t, hangReflection, bad["reflection"])

	var last reflection.Result
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.Len(t, last.Suggestions, 3)
	assert.Contains(t, last.Reflection, "Victory!")
}

func TestReflectLinesEmptyInput(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, reflectLines(strings.NewReader("\n\n"), &out, reflection.New()))
	assert.Empty(t, out.String())
}
