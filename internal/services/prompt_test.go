package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPrepareText_CollapsesWhitespace(t *testing.T) {
	pb := NewPromptBuilder(0, 0)

	got := pb.PrepareText("  Jane\tDoe\n\n  Senior   Engineer \r\n ")

	assert.Equal(t, "Jane Doe Senior Engineer", got)
}

func TestPrepareText_Truncates(t *testing.T) {
	pb := NewPromptBuilder(10, 0)

	assert.Equal(t, "abcdefghij", pb.PrepareText("abcdefghijklmnop"))
	assert.Equal(t, "short", pb.PrepareText("short"))
}

func TestPrepareText_TruncatesOnRuneBoundary(t *testing.T) {
	pb := NewPromptBuilder(4, 0)

	got := pb.PrepareText("Zoë Ångström")

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "Zoë ", got)
}

func TestPrepareText_DefaultLimit(t *testing.T) {
	pb := NewPromptBuilder(0, 0)

	got := pb.PrepareText(strings.Repeat("a ", 40000))

	assert.Equal(t, 30000, utf8.RuneCountInString(got))
}

func TestBuildUserPrompt(t *testing.T) {
	pb := NewPromptBuilder(0, 0)

	got := pb.BuildUserPrompt("Jane\n\nDoe")

	assert.Equal(t, "Extract structured data from this resume text:\n\nJane Doe", got)
}

func TestBuildSystemInstruction(t *testing.T) {
	instruction := NewPromptBuilder(0, 12).BuildSystemInstruction()

	for _, field := range []string{
		`"fullName"`, `"title"`, `"email"`, `"phone"`, `"summary"`,
		`"experience"`, `"company"`, `"position"`, `"startDate"`, `"endDate"`, `"current": boolean`, `"description"`,
		`"education"`, `"institution"`, `"degree"`, `"field"`, `"graduationYear"`,
		`"skills"`,
	} {
		assert.Contains(t, instruction, field)
	}
	assert.Contains(t, instruction, "at most 12 entries")
	assert.Contains(t, instruction, "YYYY-MM")
	assert.Contains(t, instruction, `"exp-1"`)
}
