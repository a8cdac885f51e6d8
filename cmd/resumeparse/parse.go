package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-parser/internal/config"
	"alfredoptarigan/resume-parser/internal/services"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract a structured profile from a resume using Gemini",
	Long:  "Extracts the resume text, sends it to Gemini in JSON mode and writes the normalized profile JSON.",
	RunE:  runParse,
}

var (
	parseFile    string
	parseOutFile string
	parseAPIKey  string
	parseTimeout time.Duration
)

func init() {
	parseCmd.Flags().StringVarP(&parseFile, "file", "f", "", "Path to a PDF or DOCX resume (required)")
	parseCmd.Flags().StringVarP(&parseOutFile, "out", "o", "", "Path to output profile JSON file (default: stdout)")
	parseCmd.Flags().StringVar(&parseAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	parseCmd.Flags().DurationVar(&parseTimeout, "timeout", 2*time.Minute, "Overall timeout for the parse")

	if err := parseCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if parseAPIKey != "" {
		cfg.Gemini.APIKey = parseAPIKey
	}
	if cfg.Gemini.APIKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	upload, err := readUpload(parseFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
	defer cancel()

	extractor, err := services.NewTextExtractor(ctx, cfg.Extraction.MaxPDFPages)
	if err != nil {
		return err
	}
	invoker, err := services.NewGeminiService(ctx, cfg.Gemini, services.NewPromptBuilder(cfg.Extraction.MaxInputChars, cfg.Extraction.MaxSkills))
	if err != nil {
		return err
	}

	parser := services.NewResumeParser(extractor, invoker, services.NewNormalizer(cfg.Extraction.MaxSkills), nil)
	result, err := parser.Parse(ctx, upload)
	if err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}

	if result.Report.Outcome != services.OutcomeParsed {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: model output was %s\n", result.Report.Outcome)
	}

	return writeProfile(cmd, result.Profile, parseOutFile)
}

func writeProfile(cmd *cobra.Command, profile any, outFile string) error {
	jsonBytes, err := marshalProfile(profile)
	if err != nil {
		return err
	}

	if outFile == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
		return err
	}

	if err := os.WriteFile(outFile, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
