package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-parser/internal/models"
	"alfredoptarigan/resume-parser/internal/repositories"
)

const (
	defaultRunListLimit = 20
	maxRunListLimit     = 100
)

type RunHandler struct {
	runRepo repositories.ParseRunRepository
}

func NewRunHandler(runRepo repositories.ParseRunRepository) *RunHandler {
	return &RunHandler{
		runRepo: runRepo,
	}
}

// HandleGetRun handles GET /runs/:id
func (h *RunHandler) HandleGetRun(c *fiber.Ctx) error {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid run ID format",
		})
	}

	run, err := h.runRepo.FindByID(runID)
	if err != nil {
		if errors.Is(err, repositories.ErrRunNotFound) || errors.Is(err, repositories.ErrRunTrackingDisabled) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
				Error: "Parse run not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "Failed to load parse run",
		})
	}

	return c.JSON(toRunResponse(run))
}

// HandleListRuns handles GET /runs?limit=N
func (h *RunHandler) HandleListRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultRunListLimit)
	if limit <= 0 {
		limit = defaultRunListLimit
	}
	if limit > maxRunListLimit {
		limit = maxRunListLimit
	}

	runs, err := h.runRepo.FindRecent(limit)
	if err != nil {
		if errors.Is(err, repositories.ErrRunTrackingDisabled) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
				Error: "Parse run tracking is disabled",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "Failed to load parse runs",
		})
	}

	resp := models.RunListResponse{Runs: make([]models.RunResponse, 0, len(runs))}
	for i := range runs {
		resp.Runs = append(resp.Runs, toRunResponse(&runs[i]))
	}
	return c.JSON(resp)
}

func toRunResponse(run *models.ParseRun) models.RunResponse {
	return models.RunResponse{
		ID:               run.ID.String(),
		Status:           string(run.Status),
		Format:           run.Format,
		Strategy:         run.Strategy,
		TextLength:       run.TextLength,
		ExperienceCount:  run.ExperienceCount,
		EducationCount:   run.EducationCount,
		SkillsCount:      run.SkillsCount,
		NormalizeOutcome: run.NormalizeOutcome,
		DurationMs:       run.DurationMs,
		ErrorKind:        run.ErrorKind,
		ErrorMessage:     run.ErrorMessage,
	}
}
