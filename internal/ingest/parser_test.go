package ingest

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, raw []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestParseDOCX(t *testing.T) {
	raw := buildDOCX(t, `<w:document><w:body>`+
		`<w:p><w:r><w:t>My town</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>It is small.</w:t><w:tab/><w:t>It is quiet.</w:t></w:r></w:p>`+
		`</w:body></w:document>`)
	got, err := parseDOCX(raw)
	require.NoError(t, err)
	assert.Equal(t, "My town\n\nIt is small. It is quiet.", got)

	parsed, err := ParseFile(writeFile(t, "essay.docx", raw))
	require.NoError(t, err)
	assert.Equal(t, "essay", parsed.Title)
	assert.Equal(t, "docx", parsed.Format)
	assert.Equal(t, 8, parsed.WordCount)
}

func TestParseDOCXWithoutDocument(t *testing.T) {
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	_, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = parseDOCX(b.Bytes())
	assert.ErrorContains(t, err, "document.xml not found")
}

func TestParsePlainTextKeepsParagraphs(t *testing.T) {
	raw := "\xef\xbb\xbfMy town is small\r\nand quiet.\r\n\r\n\r\nIn summer   it is busy.\n"
	parsed, err := ParseFile(writeFile(t, "town.txt", []byte(raw)))
	require.NoError(t, err)

	assert.Equal(t, "My town is small and quiet.\n\nIn summer it is busy.", parsed.Text)
	assert.Equal(t, 11, parsed.WordCount)
	assert.Equal(t, "txt", parsed.Format)
}

func TestParseMarkdown(t *testing.T) {
	raw := strings.Join([]string{
		"# My town",
		"",
		"It is **small** and _quiet_, see [the map](http://example.com).",
		"",
		"```",
		"code is ignored",
		"```",
		"",
		"- It has a park.",
		"---",
	}, "\n")
	parsed, err := ParseFile(writeFile(t, "town.md", []byte(raw)))
	require.NoError(t, err)

	assert.Equal(t, "My town\n\nIt is small and quiet, see the map.\n\nIt has a park.", parsed.Text)
}

func TestParseReader(t *testing.T) {
	parsed, err := ParseReader(strings.NewReader("  I go.\n\nI eat.  "), "stdin")
	require.NoError(t, err)
	assert.Equal(t, "I go.\n\nI eat.", parsed.Text)
	assert.Equal(t, "stdin", parsed.Source)
	assert.Equal(t, 4, parsed.WordCount)
}

func TestParseFileErrors(t *testing.T) {
	_, err := ParseFile(writeFile(t, "sample.odt", []byte("hello")))
	assert.ErrorContains(t, err, "unsupported file type")

	_, err = ParseFile(writeFile(t, "broken.pdf", []byte("not a pdf")))
	assert.ErrorContains(t, err, "open pdf")

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "read file")
}

func buildDOCX(t *testing.T, bodyXML string) []byte {
	t.Helper()
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	xml := `<?xml version="1.0" encoding="UTF-8"?>` + bodyXML
	_, err = f.Write([]byte(xml))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return b.Bytes()
}
