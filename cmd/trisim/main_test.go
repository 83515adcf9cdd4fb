package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/trisim"
	"github.com/db47h/trisim/hwlib"
	"github.com/db47h/trisim/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TRISIM_PROJECT", "")
	t.Setenv("TRISIM_MAIN", "")
	var out bytes.Buffer
	root := newRootCmd(strings.NewReader(input), &out, log.New(io.Discard, "", 0))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTable(t *testing.T) {
	out, err := execute(t, "", "table", hwlib.Nand)
	require.NoError(t, err)
	assert.Equal(t, "00 1\n01 1\n10 1\n11 0\n", out)
}

func TestEval(t *testing.T) {
	out, err := execute(t, "", "eval", hwlib.HalfAdder, "11")
	require.NoError(t, err)
	assert.Equal(t, "01\n", out)

	_, err = execute(t, "", "eval", hwlib.HalfAdder, "1")
	assert.Error(t, err)
	_, err = execute(t, "", "eval", "nope", "1")
	assert.True(t, trisim.IsNotFound(err))
}

func TestLs(t *testing.T) {
	out, err := execute(t, "", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, hwlib.Nand+"\t2 inputs, 1 outputs\n")
	assert.Contains(t, out, hwlib.FullAdder+"\t3 inputs, 2 outputs\n")
}

func TestRun_project(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")
	lib := trisim.NewLibrary()
	require.NoError(t, hwlib.Install(lib, hwlib.Nand))
	_, err := lib.New("main")
	require.NoError(t, err)
	require.NoError(t, project.Save(dir, lib))

	cfg := filepath.Join(t.TempDir(), "trisim.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("project: "+dir+"\nclock_period: 1h\n"), 0644))
	out, err := execute(t, "ls\nadd input\nquit\n", "--config", cfg, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "*main, nand\n")
	assert.Contains(t, out, "#0\n")
}
