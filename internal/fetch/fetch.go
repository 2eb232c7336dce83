package fetch

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/ed-fx/go-endes/internal/misc"
)

// DownloadError marks a failure of one URL. It carries the URL so the
// driver can report and accumulate failures per URL.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download [%s] failed: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Fetcher downloads single files into a fixed output directory. One
// instance is shared across a batch run, carrying the header set and
// timeout of the run.
type Fetcher struct {
	client    *resty.Client
	outputDir string
	log       misc.Logger
}

// New creates a Fetcher saving into outputDir. The headers are sent
// with every request. Retries are not configured, a failed request
// fails the URL.
func New(outputDir string, headers map[string]string, timeout time.Duration, log misc.Logger) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeaders(headers).
		SetDoNotParseResponse(true)

	return &Fetcher{
		client:    client,
		outputDir: outputDir,
		log:       log,
	}
}

// Fetch downloads URL into the output directory and returns the final
// path and byte count. The body is streamed into a temp file inside
// the output directory so the final rename stays on one filesystem
// and is atomic. Every failure is returned as *DownloadError.
func (f Fetcher) Fetch(url string) (path string, filesize int64, err error) {
	resp, err := f.client.R().Get(url)
	if err != nil {
		return "", 0, &DownloadError{URL: url, Err: err}
	}

	body := resp.RawBody()
	defer func() {
		_ = body.Close()
	}()

	if resp.StatusCode() != http.StatusOK {
		err = fmt.Errorf("http error %d:%s", resp.StatusCode(), resp.Status())
		return "", 0, &DownloadError{URL: url, Err: err}
	}

	filename := inferFilename(url, resp.Header())
	f.log.Trace("Resolved [%s] into filename [%s].", url, filename)

	path, filesize, err = f.saveBodyToDisk(body, filename)
	if err != nil {
		return "", 0, &DownloadError{URL: url, Err: err}
	}
	return path, filesize, nil
}

func (f Fetcher) saveBodyToDisk(body io.Reader, filename string) (path string, filesize int64, err error) {
	err = os.MkdirAll(f.outputDir, 0755)
	if err != nil {
		err = errors.Wrap(err, "Create folder ["+f.outputDir+"] failed")
		return
	}

	temp, err := os.CreateTemp(f.outputDir, ".fetch-*")
	if err != nil {
		err = errors.Wrap(err, "Create temp file in ["+f.outputDir+"] failed")
		return
	}
	tempPath := temp.Name()

	filesize, err = io.Copy(temp, body)
	if closeErr := temp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tempPath)
		err = errors.Wrap(err, "Saving ["+filename+"] failed")
		return
	}

	if filesize == 0 {
		_ = os.Remove(tempPath)
		err = errors.New("downloaded file is empty")
		return
	}

	// Overwrites an existing file of the same name.
	path = filepath.Join(f.outputDir, filename)
	if err = os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		err = errors.Wrap(err, "Rename to ["+path+"] failed")
		path, filesize = "", 0
		return
	}

	return path, filesize, nil
}
