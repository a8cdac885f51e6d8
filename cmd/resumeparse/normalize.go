package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-parser/internal/services"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize a saved raw model response into a profile",
	Long:  "Reads a raw model response (JSON, JSON wrapped in prose, or garbage) and prints the normalized profile. Never fails on bad input.",
	RunE:  runNormalize,
}

var (
	normalizeInFile    string
	normalizeOutFile   string
	normalizeMaxSkills int
)

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeInFile, "in", "i", "", "Path to raw model response file (required)")
	normalizeCmd.Flags().StringVarP(&normalizeOutFile, "out", "o", "", "Path to output profile JSON file (default: stdout)")
	normalizeCmd.Flags().IntVar(&normalizeMaxSkills, "max-skills", services.DefaultMaxSkills, "Maximum number of skills kept")

	if err := normalizeCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(normalizeInFile)
	if err != nil {
		return fmt.Errorf("failed to read model response file: %w", err)
	}

	profile, report := services.NewNormalizer(normalizeMaxSkills).NormalizeWithReport(string(raw))
	fmt.Fprintf(cmd.ErrOrStderr(), "outcome: %s, dropped experience: %d, dropped education: %d, dropped skills: %d\n",
		report.Outcome, report.DroppedExperience, report.DroppedEducation, report.DroppedSkills)
	for _, issue := range report.SchemaIssues {
		fmt.Fprintf(cmd.ErrOrStderr(), "  schema: %s\n", issue)
	}

	return writeProfile(cmd, profile, normalizeOutFile)
}

func marshalProfile(profile any) ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return jsonBytes, nil
}
