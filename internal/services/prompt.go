package services

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type PromptBuilder struct {
	maxInputChars int
	maxSkills     int
}

func NewPromptBuilder(maxInputChars, maxSkills int) *PromptBuilder {
	if maxInputChars <= 0 {
		maxInputChars = 30000
	}
	if maxSkills <= 0 {
		maxSkills = DefaultMaxSkills
	}
	return &PromptBuilder{
		maxInputChars: maxInputChars,
		maxSkills:     maxSkills,
	}
}

// BuildSystemInstruction describes the exact JSON shape the model must return.
func (pb *PromptBuilder) BuildSystemInstruction() string {
	return fmt.Sprintf(`You are a resume information extractor.
Return ONLY valid JSON with this exact shape:
{
  "fullName": string,
  "title": string,
  "email": string,
  "phone": string,
  "summary": string,
  "experience": [
    {
      "id": string,          // short stable id in document order: "exp-1", "exp-2", ...
      "company": string,
      "position": string,
      "startDate": string,   // "YYYY-MM" or "YYYY" if available, else ""
      "endDate": string,     // "YYYY-MM" or "YYYY" if available, else ""
      "current": boolean,    // true if the role is present/ongoing
      "description": string
    }
  ],
  "education": [
    {
      "id": string,          // "edu-1", "edu-2", ...
      "institution": string,
      "degree": string,
      "field": string,
      "graduationYear": string // "YYYY" if available, else ""
    }
  ],
  "skills": [string]         // concise, unique, at most %d entries
}
Rules:
- Keep experience and education in the order they appear in the resume.
- Normalize dates to YYYY-MM or YYYY.
- If something is unknown, use an empty string, false or an empty array. Never use null.
- Do not invent information that is not in the resume.
- Ensure the JSON is minified and syntactically valid, with no surrounding text.`, pb.maxSkills)
}

// BuildUserPrompt wraps the resume text as the task input.
func (pb *PromptBuilder) BuildUserPrompt(resumeText string) string {
	return "Extract structured data from this resume text:\n\n" + pb.PrepareText(resumeText)
}

// PrepareText collapses whitespace runs to single spaces and truncates the
// result to the configured number of characters.
func (pb *PromptBuilder) PrepareText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return truncateRunes(text, pb.maxInputChars)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
