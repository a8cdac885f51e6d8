package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/resume-parser/internal/models"
	"alfredoptarigan/resume-parser/internal/services"
)

const (
	msgNoFile          = "No file uploaded"
	msgUnsupportedType = "Unsupported file type. Upload PDF or DOCX."
	msgExtraction      = "Could not read document. The file may be corrupt or password protected."
	msgNoTextFound     = "Could not extract text from document (PDF may be scanned without selectable text). Try exporting as DOCX or another PDF."
	msgModel           = "Failed to process resume"
	maxReportedIssues  = 5
)

type ParseHandler struct {
	parser         services.ResumeParser
	validate       *validator.Validate
	maxFileSize    int64
	requestTimeout time.Duration
}

func NewParseHandler(
	parser services.ResumeParser,
	maxFileSize int64,
	requestTimeout time.Duration,
) *ParseHandler {
	return &ParseHandler{
		parser:         parser,
		validate:       validator.New(),
		maxFileSize:    maxFileSize,
		requestTimeout: requestTimeout,
	}
}

// HandleParseResume handles POST /parse-resume
func (h *ParseHandler) HandleParseResume(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: msgNoFile})
	}

	req := models.UploadRequest{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Size:        fileHeader.Size,
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: msgNoFile})
	}

	if req.Size > h.maxFileSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(models.ErrorResponse{
			Error: fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	// Reject early so unsupported files are never read.
	if _, err := services.DetectFormat(req.ContentType, req.Filename); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: msgUnsupportedType})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "failed to read uploaded file"})
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxFileSize+1))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "failed to read uploaded file"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.requestTimeout)
	defer cancel()

	result, err := h.parser.Parse(ctx, services.Upload{
		Data:        data,
		ContentType: req.ContentType,
		Filename:    req.Filename,
	})
	if err != nil {
		status, msg := errorResponse(err)
		return c.Status(status).JSON(models.ErrorResponse{Error: msg})
	}

	return c.JSON(models.ParseResponse{
		OK:   true,
		Data: result.Profile,
		Meta: buildMeta(result),
	})
}

// errorResponse converts a pipeline error into an HTTP status and a
// user-facing message.
func errorResponse(err error) (int, string) {
	var extractionErr *services.ExtractionError
	var modelErr *services.ModelError

	switch {
	case errors.Is(err, services.ErrUnsupportedType):
		return fiber.StatusBadRequest, msgUnsupportedType
	case errors.Is(err, services.ErrNoTextFound):
		return fiber.StatusUnprocessableEntity, msgNoTextFound
	case errors.As(err, &extractionErr):
		return fiber.StatusUnprocessableEntity, msgExtraction
	case errors.As(err, &modelErr):
		return fiber.StatusBadGateway, msgModel
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "Resume processing timed out"
	default:
		log.Error().Err(err).Msg("Unexpected parse-resume error")
		return fiber.StatusInternalServerError, msgModel
	}
}

func buildMeta(result *services.ParseResult) models.ParseMeta {
	meta := models.ParseMeta{
		RunID:            result.RunID.String(),
		NormalizeOutcome: string(result.Report.Outcome),
	}
	if result.Extraction != nil {
		meta.Format = string(result.Extraction.Format)
		meta.Strategy = result.Extraction.Strategy
		meta.TextLength = len(result.Extraction.Text)
	}

	switch result.Report.Outcome {
	case services.OutcomeSalvaged:
		meta.Warnings = append(meta.Warnings, "model response contained text around the JSON payload")
	case services.OutcomeUnparseable:
		meta.Warnings = append(meta.Warnings, "model response could not be parsed; returned an empty profile")
	}

	issues := result.Report.SchemaIssues
	if len(issues) > maxReportedIssues {
		issues = issues[:maxReportedIssues]
	}
	meta.Warnings = append(meta.Warnings, issues...)

	return meta
}
