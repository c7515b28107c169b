package tui_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/aretw0/wayfinder/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner_PlainWriter(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3")

	out := buf.String()
	assert.Contains(t, out, "1.2.3")
	assert.NotContains(t, out, "\x1b[", "a buffer gets no colour codes")
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer(60)
	require.NoError(t, err)

	out, err := render("## reach\n\n| Node | State |\n|---|---|\n| A | 1 |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "reach")
	assert.Contains(t, out, "Node")
}

func TestForOutput_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, tui.IsTerminal(f))
	assert.Nil(t, tui.ForOutput(f))
	assert.Equal(t, tui.DefaultWidth, tui.Width(f))
}
