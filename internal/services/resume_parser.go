package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/models"
	"alfredoptarigan/resume-parser/internal/repositories"
)

// Upload is a resume file as received from the caller.
type Upload struct {
	Data        []byte
	ContentType string
	Filename    string
}

type ParseResult struct {
	RunID      uuid.UUID
	Profile    *models.ExtractedProfile
	Extraction *ExtractionResult
	Report     NormalizeReport
}

// ResumeParser runs extraction, the model call and normalization for one upload.
type ResumeParser interface {
	Parse(ctx context.Context, upload Upload) (*ParseResult, error)
}

type resumeParser struct {
	extractor  TextExtractor
	invoker    ModelInvoker
	normalizer *Normalizer
	runRepo    repositories.ParseRunRepository
}

func NewResumeParser(
	extractor TextExtractor,
	invoker ModelInvoker,
	normalizer *Normalizer,
	runRepo repositories.ParseRunRepository,
) ResumeParser {
	if runRepo == nil {
		runRepo = repositories.NewParseRunRepository(nil)
	}
	return &resumeParser{
		extractor:  extractor,
		invoker:    invoker,
		normalizer: normalizer,
		runRepo:    runRepo,
	}
}

// Parse implements ResumeParser.
func (p *resumeParser) Parse(ctx context.Context, upload Upload) (result *ParseResult, err error) {
	runID := uuid.New()
	ctx = logger.WithRequestID(ctx, runID.String())
	start := time.Now()

	run := &models.ParseRun{
		ID:               runID,
		OriginalFilename: upload.Filename,
		ContentType:      upload.ContentType,
		SizeBytes:        int64(len(upload.Data)),
	}
	defer func() {
		p.recordRun(ctx, run, result, err, time.Since(start))
	}()

	extraction, err := p.extractor.Extract(ctx, upload.Data, upload.ContentType, upload.Filename)
	if err != nil {
		return nil, err
	}
	run.Format = string(extraction.Format)
	run.Strategy = extraction.Strategy
	run.TextLength = len(extraction.Text)

	if strings.TrimSpace(extraction.Text) == "" {
		return nil, ErrNoTextFound
	}

	log.Ctx(ctx).Info().Int("chars", len(extraction.Text)).Msg("Processing resume text")

	raw, err := p.invoker.Invoke(ctx, extraction.Text)
	if err != nil {
		return nil, err
	}

	profile, report := p.normalizer.NormalizeWithReport(raw)
	if report.Outcome != OutcomeParsed {
		log.Ctx(ctx).Warn().Str("outcome", string(report.Outcome)).Int("raw_chars", len(raw)).Msg("Model output was not clean JSON")
	}
	if len(report.SchemaIssues) > 0 {
		log.Ctx(ctx).Debug().Strs("issues", report.SchemaIssues).Msg("Model output deviates from profile schema")
	}

	log.Ctx(ctx).Info().
		Bool("has_name", profile.FullName != "").
		Bool("has_title", profile.Title != "").
		Int("experience", len(profile.Experience)).
		Int("education", len(profile.Education)).
		Int("skills", len(profile.Skills)).
		Msg("Successfully parsed resume data")

	return &ParseResult{
		RunID:      runID,
		Profile:    profile,
		Extraction: extraction,
		Report:     report,
	}, nil
}

func (p *resumeParser) recordRun(ctx context.Context, run *models.ParseRun, result *ParseResult, err error, elapsed time.Duration) {
	now := time.Now()
	run.DurationMs = elapsed.Milliseconds()
	run.CreatedAt = now
	run.UpdatedAt = now

	if run.Format == "" {
		if format, detectErr := DetectFormat(run.ContentType, run.OriginalFilename); detectErr == nil {
			run.Format = string(format)
		}
	}

	if err != nil {
		msg := err.Error()
		run.Status = models.RunStatusFailed
		run.ErrorKind = ErrorKind(err)
		run.ErrorMessage = &msg
		log.Ctx(ctx).Error().Err(err).Str("kind", run.ErrorKind).Msg("Resume parse failed")
	} else {
		run.Status = models.RunStatusCompleted
		run.ExperienceCount = len(result.Profile.Experience)
		run.EducationCount = len(result.Profile.Education)
		run.SkillsCount = len(result.Profile.Skills)
		run.NormalizeOutcome = string(result.Report.Outcome)
	}

	if err := p.runRepo.Create(run); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Failed to record parse run")
	}
}
