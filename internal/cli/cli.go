package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gridcalc/internal/app"
	"gridcalc/internal/grid"
)

// ExitError carries the exit code main should use.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns the config, whether the
// program should exit cleanly (help was requested), or an *ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("gridcalc", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
gridcalc - a terminal spreadsheet with arithmetic formulas.

Usage:
  gridcalc [options] [FILE]

Arguments:
  FILE
    Document to open (.json, .csv or .xlsx). A missing file is created on
    the first :w.

Options:
`)
		flagSet.PrintDefaults()
	}

	rowsFlag := flagSet.Int("rows", grid.DefaultRows, "Initial number of rows.")
	colsFlag := flagSet.Int("cols", grid.DefaultColumns, "Initial number of columns.")
	dbFlag := flagSet.String("db", "gridcalc.db", "Store file for :save, :load and :ls.")
	evalFlag := flagSet.Bool("eval", false, "Evaluate FILE, print it as tab-separated values and exit.")
	noSplashFlag := flagSet.Bool("no-splash", false, "Skip the start screen.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFileFlag := flagSet.String("log-file", "", "Append logs to this file. The UI discards logs without it.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "too many arguments: expected at most one FILE"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		File:      flagSet.Arg(0),
		DBPath:    *dbFlag,
		Rows:      *rowsFlag,
		Cols:      *colsFlag,
		Eval:      *evalFlag,
		NoSplash:  *noSplashFlag,
		LogLevel:  logLevel,
		LogFormat: logFormat,
		LogFile:   *logFileFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
