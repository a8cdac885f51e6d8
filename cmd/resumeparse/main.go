// Package main implements the resumeparse CLI for running the resume
// extraction pipeline against local files.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"alfredoptarigan/resume-parser/internal/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "resumeparse",
	Short: "Extract structured profile data from PDF and DOCX resumes",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Init(logger.Config{Level: logLevel, Format: "pretty"})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
