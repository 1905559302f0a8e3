package ingest

import (
	"bytes"
	"fmt"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// extractPDF renders a PDF as text, one line per page, joining each page's
// text items with single spaces. The pdf package panics on some malformed
// inputs, so the whole walk runs under a recover.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for j, item := range page.Content().Text {
			if j > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(item.S)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// extractDocx pulls the raw paragraph and table text out of a DOCX archive.
func extractDocx(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed docx: %v", r)
		}
	}()

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *docx.Paragraph, *docx.Table:
			fmt.Fprintf(&sb, "%v\n", item)
		}
	}
	return sb.String(), nil
}
