package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-parser/internal/models"
	"alfredoptarigan/resume-parser/internal/services"
)

type fakeParser struct {
	result *services.ParseResult
	err    error

	calls       int
	upload      services.Upload
	hasDeadline bool
}

func (f *fakeParser) Parse(ctx context.Context, upload services.Upload) (*services.ParseResult, error) {
	f.calls++
	f.upload = upload
	_, f.hasDeadline = ctx.Deadline()
	return f.result, f.err
}

func newParseApp(parser services.ResumeParser, maxFileSize int64) *fiber.App {
	app := fiber.New()
	app.Post("/parse-resume", NewParseHandler(parser, maxFileSize, 5*time.Second).HandleParseResume)
	return app
}

func multipartRequest(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/parse-resume", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}

func TestHandleParseResume_Success(t *testing.T) {
	profile := models.EmptyProfile()
	profile.FullName = "Jane Doe"
	profile.Skills = []string{"Go"}

	parser := &fakeParser{result: &services.ParseResult{
		RunID:      uuid.New(),
		Profile:    profile,
		Extraction: &services.ExtractionResult{Text: "Jane Doe", Format: services.FormatPDF, Strategy: "text-layer"},
		Report:     services.NormalizeReport{Outcome: services.OutcomeParsed},
	}}
	app := newParseApp(parser, 1024)

	resp, err := app.Test(multipartRequest(t, "file", "jane.pdf", "application/pdf", []byte("%PDF-1.4 body")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		OK   bool                    `json:"ok"`
		Data models.ExtractedProfile `json:"data"`
		Meta models.ParseMeta        `json:"meta"`
	}
	decodeBody(t, resp, &body)

	assert.True(t, body.OK)
	assert.Equal(t, "Jane Doe", body.Data.FullName)
	assert.Equal(t, []string{"Go"}, body.Data.Skills)
	assert.NotNil(t, body.Data.Experience)
	assert.Equal(t, "pdf", body.Meta.Format)
	assert.Equal(t, "text-layer", body.Meta.Strategy)
	assert.Equal(t, "parsed", body.Meta.NormalizeOutcome)
	assert.Empty(t, body.Meta.Warnings)

	assert.Equal(t, 1, parser.calls)
	assert.Equal(t, "jane.pdf", parser.upload.Filename)
	assert.Equal(t, "application/pdf", parser.upload.ContentType)
	assert.Equal(t, []byte("%PDF-1.4 body"), parser.upload.Data)
	assert.True(t, parser.hasDeadline)
}

func TestHandleParseResume_EmptyListsSerializeAsArrays(t *testing.T) {
	parser := &fakeParser{result: &services.ParseResult{
		Profile: models.EmptyProfile(),
		Report:  services.NormalizeReport{Outcome: services.OutcomeUnparseable},
	}}
	app := newParseApp(parser, 1024)

	resp, err := app.Test(multipartRequest(t, "file", "cv.docx", "", []byte("PK")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]json.RawMessage
	decodeBody(t, resp, &body)

	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body["data"], &data))
	assert.JSONEq(t, `[]`, string(data["experience"]))
	assert.JSONEq(t, `[]`, string(data["education"]))
	assert.JSONEq(t, `[]`, string(data["skills"]))

	var meta models.ParseMeta
	require.NoError(t, json.Unmarshal(body["meta"], &meta))
	assert.Equal(t, "unparseable", meta.NormalizeOutcome)
	assert.NotEmpty(t, meta.Warnings)
}

func TestHandleParseResume_RequestErrors(t *testing.T) {
	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		wantStatus int
		wantError  string
	}{
		{
			name: "no file field",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "document", "cv.pdf", "application/pdf", []byte("%PDF"))
			},
			wantStatus: fiber.StatusBadRequest,
			wantError:  msgNoFile,
		},
		{
			name: "empty file",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "cv.pdf", "application/pdf", nil)
			},
			wantStatus: fiber.StatusBadRequest,
			wantError:  msgNoFile,
		},
		{
			name: "unsupported type",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "notes.txt", "text/plain", []byte("hello"))
			},
			wantStatus: fiber.StatusBadRequest,
			wantError:  msgUnsupportedType,
		},
		{
			name: "too large",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "big.pdf", "application/pdf", bytes.Repeat([]byte("x"), 2048))
			},
			wantStatus: fiber.StatusRequestEntityTooLarge,
			wantError:  "File too large. Max size: 1024 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &fakeParser{}
			app := newParseApp(parser, 1024)

			resp, err := app.Test(tt.req(t))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body models.ErrorResponse
			decodeBody(t, resp, &body)
			assert.Equal(t, tt.wantError, body.Error)
			assert.Zero(t, parser.calls)
		})
	}
}

func TestHandleParseResume_PipelineErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"no text", services.ErrNoTextFound, fiber.StatusUnprocessableEntity, msgNoTextFound},
		{"extraction", &services.ExtractionError{Format: services.FormatPDF, Cause: errors.New("bad xref")}, fiber.StatusUnprocessableEntity, msgExtraction},
		{"model", &services.ModelError{Message: "configuration", Cause: services.ErrMissingAPIKey}, fiber.StatusBadGateway, msgModel},
		{"unsupported", fmt.Errorf("%w: sniffed", services.ErrUnsupportedType), fiber.StatusBadRequest, msgUnsupportedType},
		{"timeout", context.DeadlineExceeded, fiber.StatusGatewayTimeout, "Resume processing timed out"},
		{"unexpected", errors.New("boom"), fiber.StatusInternalServerError, msgModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newParseApp(&fakeParser{err: tt.err}, 1024)

			resp, err := app.Test(multipartRequest(t, "file", "cv.pdf", "application/pdf", []byte("%PDF")))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body models.ErrorResponse
			decodeBody(t, resp, &body)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func TestBuildMeta_CapsSchemaIssues(t *testing.T) {
	issues := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		issues = append(issues, fmt.Sprintf("issue %d", i))
	}

	meta := buildMeta(&services.ParseResult{
		Profile: models.EmptyProfile(),
		Report:  services.NormalizeReport{Outcome: services.OutcomeSalvaged, SchemaIssues: issues},
	})

	assert.Equal(t, "salvaged", meta.NormalizeOutcome)
	require.Len(t, meta.Warnings, 1+maxReportedIssues)
	assert.Equal(t, "issue 0", meta.Warnings[1])
}
