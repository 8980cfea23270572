package offline

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"writing_assessor/internal/assess"
	"writing_assessor/internal/chunk"
	"writing_assessor/internal/db"
	"writing_assessor/internal/ingest"
)

type failTransport struct{}

func (f failTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("network disabled for offline test")
}

func TestOfflineMode(t *testing.T) {
	original := http.DefaultTransport
	http.DefaultTransport = failTransport{}
	t.Cleanup(func() { http.DefaultTransport = original })

	text := strings.Repeat("This is a sentence. ", 500)
	windows := chunk.SlidingWindow(1000, 100, 50)
	require.NotEmpty(t, windows, "expected chunking to work offline")

	path := filepath.Join(t.TempDir(), "essay.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	extracted, err := ingest.ParseFile(path)
	require.NoError(t, err, "expected extraction to work offline")

	result, err := assess.New(assess.DefaultConfig(), nil, nil).Assess(extracted.Text, assess.TaskContext{})
	require.NoError(t, err, "expected assessment to work offline")
	assert.NotEmpty(t, result.CEFRLevel)

	store, err := db.Open(filepath.Join(t.TempDir(), "assessments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	_, err = store.Save(path, extracted.WordCount, result)
	require.NoError(t, err, "expected persistence to work offline")
}
