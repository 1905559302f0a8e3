// Package ingest turns user-uploaded files into prompt-ready attachments.
// Binary formats are decoded to plain text; everything else is taken as-is.
package ingest

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fbarret/chatter/internal/i18n"
	"github.com/fbarret/chatter/internal/models"
)

// File is one raw uploaded file before text extraction.
type File struct {
	Name string
	Type string // declared MIME type; often empty for drag-and-dropped PDFs
	Data []byte
}

type Adapter struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Adapter {
	return &Adapter{logger: logger}
}

type kind int

const (
	kindUnsupported kind = iota
	kindPDF
	kindText
	kindDocx
)

var textExtensions = []string{".txt", ".md", ".csv", ".json", ".html", ".xml"}

// classify decides how a file is decoded, by MIME type first and by
// extension sniffing when the declared type is empty.
func classify(f File) kind {
	name := strings.ToLower(f.Name)
	switch {
	case f.Type == "application/pdf",
		f.Type == "" && strings.HasSuffix(name, ".pdf"):
		return kindPDF
	case f.Type == "text/plain":
		return kindText
	case f.Type == "" && hasAnySuffix(name, textExtensions):
		return kindText
	case strings.HasSuffix(name, ".docx"):
		return kindDocx
	}
	return kindUnsupported
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

type result struct {
	file    models.AttachedFile
	errMsg  string // localized, empty on success
	skipped bool   // unsupported files stay out of the batch
}

// Ingest decodes a batch of uploaded files into attachments, preserving
// input order. Decoding runs concurrently per file. Unsupported files are
// skipped; extraction failures keep the file in the batch with empty
// content. The second return value is the most recent (in input order)
// per-file error message, or "" for a clean batch.
func (a *Adapter) Ingest(files []File, lang string) ([]models.AttachedFile, string) {
	t := i18n.T(lang)
	results := make([]result, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		k := classify(f)
		if k == kindUnsupported {
			results[i] = result{skipped: true, errMsg: t.ErrorUnsupported + ": " + f.Name}
			a.logger.Warn("unsupported attachment skipped",
				zap.String("file", f.Name),
				zap.String("type", f.Type))
			continue
		}
		wg.Add(1)
		go func(i int, f File, k kind) {
			defer wg.Done()
			results[i] = a.extract(f, k, t)
		}(i, f, k)
	}
	wg.Wait()

	attached := make([]models.AttachedFile, 0, len(files))
	lastErr := ""
	for _, r := range results {
		if r.errMsg != "" {
			lastErr = r.errMsg
		}
		if r.skipped {
			continue
		}
		attached = append(attached, r.file)
	}
	return attached, lastErr
}

func (a *Adapter) extract(f File, k kind, t i18n.Strings) result {
	att := models.AttachedFile{Name: f.Name, Type: f.Type}

	switch k {
	case kindPDF:
		if att.Type == "" {
			att.Type = "application/pdf"
		}
		content, err := extractPDF(f.Data)
		if err != nil {
			a.logger.Warn("pdf extraction failed", zap.String("file", f.Name), zap.Error(err))
			return result{file: att, errMsg: t.ErrorPDF + ": " + err.Error()}
		}
		att.Content = content

	case kindDocx:
		content, err := extractDocx(f.Data)
		if err != nil {
			a.logger.Warn("docx extraction failed", zap.String("file", f.Name), zap.Error(err))
			return result{file: att, errMsg: t.ErrorDocx + ": " + err.Error()}
		}
		att.Content = content

	default:
		att.Content = string(f.Data)
	}

	return result{file: att}
}
