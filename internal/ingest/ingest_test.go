package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAdapter() *Adapter {
	return New(zap.NewNop())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		file File
		want kind
	}{
		{"pdf by type", File{Name: "report", Type: "application/pdf"}, kindPDF},
		{"pdf by extension", File{Name: "report.PDF", Type: ""}, kindPDF},
		{"plain text by type", File{Name: "whatever.bin", Type: "text/plain"}, kindText},
		{"markdown by extension", File{Name: "notes.md", Type: ""}, kindText},
		{"json by extension", File{Name: "data.json", Type: ""}, kindText},
		{"docx", File{Name: "letter.docx", Type: ""}, kindDocx},
		{"docx with declared type", File{Name: "letter.docx", Type: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}, kindDocx},
		{"image unsupported", File{Name: "photo.png", Type: "image/png"}, kindUnsupported},
		{"binary unsupported", File{Name: "tool.exe", Type: ""}, kindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.file))
		})
	}
}

func TestIngestTextFiles(t *testing.T) {
	a := newTestAdapter()

	files, errMsg := a.Ingest([]File{
		{Name: "a.txt", Type: "text/plain", Data: []byte("alpha")},
		{Name: "b.md", Type: "", Data: []byte("# beta")},
	}, "en")

	assert.Empty(t, errMsg)
	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].Name)
	assert.Equal(t, "alpha", files[0].Content)
	assert.Equal(t, "text/plain", files[0].Type)
	assert.Equal(t, "# beta", files[1].Content)
}

func TestIngestSkipsUnsupportedFileButKeepsBatch(t *testing.T) {
	a := newTestAdapter()

	files, errMsg := a.Ingest([]File{
		{Name: "first.txt", Type: "text/plain", Data: []byte("one")},
		{Name: "evil.exe", Type: "application/octet-stream", Data: []byte{0x4d, 0x5a}},
		{Name: "third.csv", Type: "", Data: []byte("x,y")},
	}, "en")

	require.Len(t, files, 2)
	assert.Equal(t, "first.txt", files[0].Name)
	assert.Equal(t, "third.csv", files[1].Name)
	assert.Contains(t, errMsg, "evil.exe")
	assert.Contains(t, errMsg, "Unsupported file")
}

func TestIngestMalformedPDFKeptWithEmptyContent(t *testing.T) {
	a := newTestAdapter()

	files, errMsg := a.Ingest([]File{
		{Name: "broken.pdf", Type: "", Data: []byte("definitely not a pdf")},
		{Name: "fine.txt", Type: "text/plain", Data: []byte("still here")},
	}, "en")

	require.Len(t, files, 2)
	assert.Equal(t, "broken.pdf", files[0].Name)
	assert.Equal(t, "", files[0].Content)
	// Extension sniffing fills in the type even though decoding failed.
	assert.Equal(t, "application/pdf", files[0].Type)
	assert.Equal(t, "still here", files[1].Content)
	assert.Contains(t, errMsg, "Could not read PDF")
}

func TestIngestMalformedDocxKeptWithEmptyContent(t *testing.T) {
	a := newTestAdapter()

	files, errMsg := a.Ingest([]File{
		{Name: "broken.docx", Type: "", Data: []byte("not a zip archive")},
	}, "en")

	require.Len(t, files, 1)
	assert.Equal(t, "", files[0].Content)
	assert.Contains(t, errMsg, "Could not read DOCX")
}

func TestIngestPreservesInputOrder(t *testing.T) {
	a := newTestAdapter()

	// Enough files that concurrent decode completion order would scramble
	// an order-insensitive implementation.
	var in []File
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		in = append(in, File{Name: name + ".txt", Type: "text/plain", Data: []byte(strings.Repeat(name, 100))})
	}

	files, errMsg := a.Ingest(in, "en")
	assert.Empty(t, errMsg)
	require.Len(t, files, len(in))
	for i, f := range files {
		assert.Equal(t, in[i].Name, f.Name)
	}
}

func TestIngestErrorIsLocalized(t *testing.T) {
	a := newTestAdapter()

	_, errMsg := a.Ingest([]File{
		{Name: "photo.png", Type: "image/png"},
	}, "fr")

	assert.Contains(t, errMsg, "Fichier non pris en charge")
	assert.Contains(t, errMsg, "photo.png")
}

func TestIngestEmptyBatch(t *testing.T) {
	a := newTestAdapter()

	files, errMsg := a.Ingest(nil, "en")
	assert.Empty(t, files)
	assert.Empty(t, errMsg)
}
