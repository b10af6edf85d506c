package source

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSource struct {
	files   map[string]string
	errs    map[string]error
	fetched []string
}

func (m *mapSource) Fetch(_ context.Context, path string) (string, error) {
	m.fetched = append(m.fetched, path)
	if err, ok := m.errs[path]; ok {
		return "", err
	}
	if text, ok := m.files[path]; ok {
		return text, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrTemplateNotFound)
}

func TestFindTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("first hit wins", func(t *testing.T) {
		src := &mapSource{files: map[string]string{
			"pull_request_template.md":      "root",
			"docs/pull_request_template.md": "docs",
		}}
		text, path, err := FindTemplate(ctx, src, CandidatePaths)
		require.NoError(t, err)
		assert.Equal(t, "docs", text)
		assert.Equal(t, "docs/pull_request_template.md", path)
		assert.Equal(t, CandidatePaths[:2], src.fetched)
	})

	t.Run("none found", func(t *testing.T) {
		src := &mapSource{}
		_, _, err := FindTemplate(ctx, src, CandidatePaths)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
		assert.Len(t, src.fetched, len(CandidatePaths))
	})

	t.Run("unexpected error stops the search", func(t *testing.T) {
		boom := errors.New("connection reset")
		src := &mapSource{errs: map[string]error{"docs/pull_request_template.md": boom}}
		_, _, err := FindTemplate(ctx, src, CandidatePaths)
		assert.ErrorIs(t, err, boom)
		assert.False(t, errors.Is(err, ErrTemplateNotFound))
		assert.Len(t, src.fetched, 2)
	})
}

func TestDir_Fetch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".github"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".github", "pull_request_template.md"), []byte("## Summary\n"), 0o644))

	d := Dir{Root: root}
	text, err := d.Fetch(context.Background(), ".github/pull_request_template.md")
	require.NoError(t, err)
	assert.Equal(t, "## Summary\n", text)

	_, err = d.Fetch(context.Background(), "docs/pull_request_template.md")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func newTestGitHub(t *testing.T, handler http.Handler) *GitHub {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	return &GitHub{Client: client, Owner: "acme", Repo: "widgets", Ref: "main"}
}

func TestGitHub_Fetch(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("## Summary\n- [ ] Done\n"))

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/contents/.github/pull_request_template.md", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"type":"file","encoding":"base64","path":".github/pull_request_template.md","content":%q}`, encoded)
	})
	mux.HandleFunc("/repos/acme/widgets/contents/docs/pull_request_template.md", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})
	mux.HandleFunc("/repos/acme/widgets/contents/pull_request_template.md", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Server Error"}`, http.StatusInternalServerError)
	})

	gh := newTestGitHub(t, mux)
	ctx := context.Background()

	text, err := gh.Fetch(ctx, ".github/pull_request_template.md")
	require.NoError(t, err)
	assert.Equal(t, "## Summary\n- [ ] Done\n", text)

	_, err = gh.Fetch(ctx, "docs/pull_request_template.md")
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = gh.Fetch(ctx, "pull_request_template.md")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTemplateNotFound))
}
