package services

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"

	"alfredoptarigan/resume-parser/internal/models"
)

const DefaultMaxSkills = 20

type NormalizeOutcome string

const (
	OutcomeParsed      NormalizeOutcome = "parsed"
	OutcomeSalvaged    NormalizeOutcome = "salvaged"
	OutcomeUnparseable NormalizeOutcome = "unparseable"
)

// NormalizeReport describes how a raw model answer became a profile.
type NormalizeReport struct {
	Outcome           NormalizeOutcome
	SchemaIssues      []string
	DroppedExperience int
	DroppedEducation  int
	DroppedSkills     int
}

// Normalizer coerces untrusted model output into an ExtractedProfile.
// It never fails: the worst case is the all-default profile.
type Normalizer struct {
	maxSkills int
	schema    *gojsonschema.Schema
}

func NewNormalizer(maxSkills int) *Normalizer {
	if maxSkills <= 0 {
		maxSkills = DefaultMaxSkills
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(profileSchema))
	if err != nil {
		log.Warn().Err(err).Msg("Profile schema failed to load, schema diagnostics disabled")
		schema = nil
	}

	return &Normalizer{maxSkills: maxSkills, schema: schema}
}

var defaultNormalizer = NewNormalizer(DefaultMaxSkills)

// Normalize runs the default normalizer (skills capped at DefaultMaxSkills).
func Normalize(raw string) *models.ExtractedProfile {
	return defaultNormalizer.Normalize(raw)
}

func (n *Normalizer) Normalize(raw string) *models.ExtractedProfile {
	profile, _ := n.NormalizeWithReport(raw)
	return profile
}

func (n *Normalizer) NormalizeWithReport(raw string) (*models.ExtractedProfile, NormalizeReport) {
	obj, outcome := parseModelObject(raw)
	report := NormalizeReport{Outcome: outcome}
	if obj == nil {
		return models.EmptyProfile(), report
	}

	report.SchemaIssues = n.schemaIssues(obj)

	profile := models.EmptyProfile()
	profile.FullName = coerceString(obj["fullName"])
	profile.Title = coerceString(obj["title"])
	profile.Email = coerceString(obj["email"])
	profile.Phone = coerceString(obj["phone"])
	profile.Summary = coerceString(obj["summary"])
	profile.Experience, report.DroppedExperience = coerceExperience(obj["experience"])
	profile.Education, report.DroppedEducation = coerceEducation(obj["education"])
	profile.Skills, report.DroppedSkills = coerceSkills(obj["skills"], n.maxSkills)

	return profile, report
}

func (n *Normalizer) schemaIssues(obj map[string]any) []string {
	if n.schema == nil {
		return nil
	}

	result, err := n.schema.Validate(gojsonschema.NewGoLoader(obj))
	if err != nil {
		return []string{fmt.Sprintf("(root): %v", err)}
	}
	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		issues = append(issues, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return issues
}

// parseModelObject parses raw as a JSON object, falling back to the text
// between the first '{' and the last '}' when the model wrapped its answer
// in prose or a code fence.
func parseModelObject(raw string) (map[string]any, NormalizeOutcome) {
	if obj, ok := decodeObject(raw); ok {
		return obj, OutcomeParsed
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if obj, ok := decodeObject(raw[start : end+1]); ok {
			return obj, OutcomeSalvaged
		}
	}

	return nil, OutcomeUnparseable
}

func decodeObject(s string) (map[string]any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// trailing content makes the whole string invalid JSON
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}

	obj, ok := v.(map[string]any)
	return obj, ok
}

func coerceExperience(v any) ([]models.ExperienceEntry, int) {
	items := coerceArray(v)
	out := make([]models.ExperienceEntry, 0, len(items))
	dropped := 0

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			dropped++
			continue
		}

		entry := models.ExperienceEntry{
			ID:          coerceString(obj["id"]),
			Company:     coerceString(obj["company"]),
			Position:    coerceString(obj["position"]),
			StartDate:   coerceString(obj["startDate"]),
			EndDate:     coerceString(obj["endDate"]),
			Current:     coerceBool(obj["current"]),
			Description: coerceString(obj["description"]),
		}
		if isBlank(entry.Company) && isBlank(entry.Position) {
			dropped++
			continue
		}
		if isBlank(entry.ID) {
			entry.ID = fmt.Sprintf("exp-%d", len(out)+1)
		}
		out = append(out, entry)
	}

	return out, dropped
}

func coerceEducation(v any) ([]models.EducationEntry, int) {
	items := coerceArray(v)
	out := make([]models.EducationEntry, 0, len(items))
	dropped := 0

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			dropped++
			continue
		}

		entry := models.EducationEntry{
			ID:             coerceString(obj["id"]),
			Institution:    coerceString(obj["institution"]),
			Degree:         coerceString(obj["degree"]),
			Field:          coerceString(obj["field"]),
			GraduationYear: coerceString(obj["graduationYear"]),
		}
		if isBlank(entry.Institution) && isBlank(entry.Degree) {
			dropped++
			continue
		}
		if isBlank(entry.ID) {
			entry.ID = fmt.Sprintf("edu-%d", len(out)+1)
		}
		out = append(out, entry)
	}

	return out, dropped
}

// coerceSkills keeps the first occurrence of each exact skill string, drops
// blanks and stops at limit.
func coerceSkills(v any, limit int) ([]string, int) {
	items := coerceArray(v)
	out := make([]string, 0, min(len(items), limit))
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		skill := coerceString(item)
		if isBlank(skill) {
			continue
		}
		if _, dup := seen[skill]; dup {
			continue
		}
		if len(out) == limit {
			break
		}
		seen[skill] = struct{}{}
		out = append(out, skill)
	}

	return out, len(items) - len(out)
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return formatNumber(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// formatNumber renders a JSON number in plain decimal: no exponent, no
// trailing zeros. Integers keep full precision.
func formatNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil {
		if f == 0 {
			f = 0 // drop the sign of -0
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return n.String()
}

func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "present", "current", "1":
			return true
		}
		return false
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	default:
		return false
	}
}

func coerceArray(v any) []any {
	if items, ok := v.([]any); ok {
		return items
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
