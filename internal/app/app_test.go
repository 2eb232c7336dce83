package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/ed-fx/go-endes/internal/fetch"
	"github.com/ed-fx/go-endes/internal/misc"
)

func newTestApp(opt *Option) *App {
	return NewApp(opt, fetch.New(opt.Folder, opt.Headers, opt.Timeout, misc.Nop()), misc.Nop())
}

func TestParseOptionRejectsZeroTimeout(t *testing.T) {
	_, err := ParseOption(ArgsList{
		Timeout: 0,
		URLs:    []string{"https://example.org/a.zip"},
	})
	assert.Error(t, err)
}

func TestParseOptionRejectsMalformedHeader(t *testing.T) {
	_, err := ParseOption(ArgsList{
		Timeout: 30,
		URLs:    []string{"https://example.org/a.zip"},
		Headers: []string{"BadHeader"},
	})
	assert.Error(t, err)
}

func TestParseOptionMergesDirectAndFileURLs(t *testing.T) {
	urlFile := filepath.Join(t.TempDir(), "urls.txt")
	content := `# duplicates direct input
https://example.org/a.zip
https://example.org/c.zip
`
	require.NoError(t, os.WriteFile(urlFile, []byte(content), 0644))

	opt, err := ParseOption(ArgsList{
		Timeout: 30,
		URLs:    []string{"https://example.org/a.zip", "https://example.org/b.zip"},
		URLFile: urlFile,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.org/a.zip",
		"https://example.org/b.zip",
		"https://example.org/c.zip",
	}, opt.URLs)
}

func TestExecuteContinuesAfterFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/one.csv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("first"))
	})
	mux.HandleFunc("/three.csv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("third"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	missing := server.URL + "/missing.csv"
	opt, err := ParseOption(ArgsList{
		Timeout:   5,
		OutputDir: dir,
		URLs: []string{
			server.URL + "/one.csv",
			missing,
			server.URL + "/three.csv",
		},
	})
	require.NoError(t, err)

	failures := newTestApp(opt).Execute()
	assert.Equal(t, []string{missing}, failures)

	assert.FileExists(t, filepath.Join(dir, "one.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "missing.csv"))
	assert.FileExists(t, filepath.Join(dir, "three.csv"))
}

func TestExecuteDecompressesArchives(t *testing.T) {
	var archive bytes.Buffer
	writer, err := xz.NewWriter(&archive)
	require.NoError(t, err)
	_, err = writer.Write([]byte("anio,modulo\n2023,1637\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive.Bytes())
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	opt, err := ParseOption(ArgsList{
		Timeout:    5,
		OutputDir:  dir,
		Decompress: true,
		URLs:       []string{server.URL + "/lima.csv.xz"},
	})
	require.NoError(t, err)

	failures := newTestApp(opt).Execute()
	assert.Empty(t, failures)

	content, err := os.ReadFile(filepath.Join(dir, "lima.csv"))
	require.NoError(t, err)
	assert.Equal(t, "anio,modulo\n2023,1637\n", string(content))
	assert.NoFileExists(t, filepath.Join(dir, "lima.csv.xz"))
}
