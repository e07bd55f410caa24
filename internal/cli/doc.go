// Package cli parses command-line arguments into an app.Config and maps
// usage problems to exit codes.
package cli
