package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	docxBodyPart = "word/document.xml"
	// upper bound on the decompressed body so a zip bomb cannot exhaust memory
	maxDocxBodyBytes = 32 << 20
)

// extractDocxText returns the raw text of a DOCX body, one paragraph per line.
func extractDocxText(_ context.Context, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != docxBodyPart {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", docxBodyPart, err)
		}
		defer rc.Close()

		return docxBodyText(io.LimitReader(rc, maxDocxBodyBytes))
	}

	return "", errors.New("no word/document.xml found in docx")
}

func docxBodyText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var sb strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", docxBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
