package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gridcalc/internal/app"
	"gridcalc/internal/cli"
)

func TestRun_ShouldExit(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(out, []string{"-h"})
	require.NoError(t, err, "run() should return a nil error when help is requested")
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	err := run(&bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_Eval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.csv")
	require.NoError(t, os.WriteFile(path, []byte("3,=A1 mod 2,=dec(B1)\n"), 0o600))
	logFile := filepath.Join(dir, "run.log")

	out := &bytes.Buffer{}
	err := run(out, []string{"-eval", "-db", filepath.Join(dir, "s.db"), "-log-file", logFile, path})
	require.NoError(t, err)
	require.Equal(t, "3\t1\t0\n", out.String())
	require.FileExists(t, logFile)
}

func TestRun_EvalFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.csv")
	require.NoError(t, os.WriteFile(path, []byte("word,=A1+1\n"), 0o600))

	out := &bytes.Buffer{}
	err := run(out, []string{"-eval", "-log-file", filepath.Join(dir, "run.log"), path})
	require.ErrorIs(t, err, app.ErrFormulasFailed)
	require.Contains(t, err.Error(), "Cell A1 does not contain a number")
	require.Equal(t, "word\tERROR\n", out.String())
}
