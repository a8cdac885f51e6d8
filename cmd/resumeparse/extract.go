package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-parser/internal/services"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the plain text extracted from a resume",
	Long:  "Runs only the text extraction step (PDF text layer with page-by-page fallback, or DOCX raw text) and prints the result.",
	RunE:  runExtract,
}

var (
	extractFile     string
	extractMaxPages int
)

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to a PDF or DOCX resume (required)")
	extractCmd.Flags().IntVar(&extractMaxPages, "max-pages", 50, "Maximum PDF pages read by the page-by-page fallback")

	if err := extractCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	upload, err := readUpload(extractFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	extractor, err := services.NewTextExtractor(ctx, extractMaxPages)
	if err != nil {
		return err
	}

	result, err := extractor.Extract(ctx, upload.Data, upload.ContentType, upload.Filename)
	if err != nil {
		return err
	}
	if result.Text == "" {
		return services.ErrNoTextFound
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Text)
	return err
}

func readUpload(path string) (services.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return services.Upload{}, fmt.Errorf("failed to read resume file: %w", err)
	}

	return services.Upload{
		Data:        data,
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Filename:    filepath.Base(path),
	}, nil
}
