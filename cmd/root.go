// Package cmd provides CLI commands for eskg.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "eskg",
	Short: "Publish PO.DAAC dataset metadata as ontology individuals",
	Long: `eskg turns GCMD DIF dataset descriptions into individuals of the SWEET
data product vocabulary, for loading into the Earth Science Knowledge Graph.

Each DIF document becomes one individual of a PO.DAAC dataset class, with one
property assertion per populated metadata field. The resulting ontology is
written to a local file or uploaded to an ontology repository.

Examples:
  eskg project 'metadata/**/*.xml' -o podaac.owl
  eskg project --fetch --storage remote --endpoint http://localhost:8080/repo
  eskg validate metadata/*.xml
  eskg fetch -o metadata/
  eskg profiles fields podaac`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger()
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(profilesCmd)
}
