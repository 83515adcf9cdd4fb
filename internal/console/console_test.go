package console_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/db47h/trisim"
	"github.com/db47h/trisim/hwlib"
	"github.com/db47h/trisim/internal/console"
	"github.com/db47h/trisim/project"
	"github.com/db47h/trisim/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*console.Console, *bytes.Buffer, context.Context, string) {
	t.Helper()
	lib := trisim.NewLibrary()
	require.NoError(t, hwlib.Install(lib, hwlib.Nand))
	s := sim.New(lib, sim.WithClockPeriod(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	var out bytes.Buffer
	dir := filepath.Join(t.TempDir(), "project")
	return console.New(s, &out, dir), &out, ctx, dir
}

func TestConsole(t *testing.T) {
	c, out, ctx, dir := setup(t)
	exec := func(line, expect string) {
		t.Helper()
		out.Reset()
		require.NoError(t, c.Exec(ctx, line), line)
		assert.Equal(t, expect, out.String(), line)
	}

	exec("mk main", "")
	exec("cd main", "")
	exec("ls", "nand, *main\n")
	exec("add input 0", "#0\n")
	exec("add input 1", "#1\n")
	exec("add nand", "#2\n")
	exec("add output", "#3\n")
	exec("buf", "b0\n")
	exec("link b0 2", "")
	exec("wire 2 0 0", "")
	exec("wire 2 1 1.0", "")
	exec("wire 3 0 b0", "")
	exec("eval", "1\n")
	exec("toggle 0", "")
	exec("toggle 1", "")
	exec("eval", "0\n")
	exec("move b0 5 5", "")
	exec("wire 3 0 -", "")
	// unconnected outputs keep their last value
	exec("eval", "0\n")

	out.Reset()
	require.NoError(t, c.Exec(ctx, "show"))
	assert.Contains(t, out.String(), "main: 2 inputs, 1 outputs\n")
	assert.Contains(t, out.String(), "#2 nand (100, 100) [0.0 1.0] -> 0\n")
	assert.Contains(t, out.String(), "b0 (105, 105) [2.0]\n")

	exec("save", "")
	assert.FileExists(t, filepath.Join(dir, "main"+project.Ext))

	exec("rm b0", "")
	exec("rm 2", "")
	exec("", "")
}

func TestConsole_errors(t *testing.T) {
	c, _, ctx, _ := setup(t)
	for _, line := range []string{
		"add input",
		"bogus",
		"cd nowhere",
		"mk nand",
		"mk b_and",
	} {
		assert.Error(t, c.Exec(ctx, line), line)
	}
	require.NoError(t, c.Exec(ctx, "mk main"))
	require.NoError(t, c.Exec(ctx, "cd main"))
	require.NoError(t, c.Exec(ctx, "add b_and"))
	require.NoError(t, c.Exec(ctx, "add input"))
	for _, line := range []string{
		"add nand 1 2 3 4",
		"add nope",
		"wire 0 2 1",
		"wire 0 0 1.1",
		"wire 0 0 b7",
		"wire 9 0 1",
		"toggle 0",
		"clock 1 start",
		"link b0 1",
		"rm 9",
		"add main",
	} {
		assert.Error(t, c.Exec(ctx, line), line)
	}
}

func TestConsole_Run(t *testing.T) {
	c, out, ctx, _ := setup(t)
	in := strings.NewReader("mk top\ncd top\nadd clock\nclock 0 start\nshow\nnope\nquit\nls\n")
	require.NoError(t, c.Run(ctx, in))
	s := out.String()
	assert.Contains(t, s, console.Prompt+"#0\n")
	assert.Contains(t, s, "#0 clock (100, 100) [] -> 1 running\n")
	assert.Contains(t, s, "error: unknown command")
	assert.NotContains(t, s, "*top")
}
