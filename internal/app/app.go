package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ed-fx/go-endes/internal/fetch"
	"github.com/ed-fx/go-endes/internal/misc"
	"github.com/ed-fx/go-endes/internal/unpack"
)

// DefaultUserAgent is sent when no --user-agent is supplied.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ENDESDownloader/1.0)"

// Exit codes of the batch run.
const (
	ExitOK     = 0 // every URL downloaded
	ExitFailed = 1 // at least one URL failed
	ExitNoURLs = 2 // nothing to download
)

// ArgsList holds raw command line input.
type ArgsList struct {
	Verbose    bool
	Decompress bool
	URLs       []string
	URLFile    string
	OutputDir  string
	UserAgent  string
	Referer    string
	Headers    []string
	Timeout    uint
}

// Option holds validated download options.
type Option struct {
	URLs       []string
	Folder     string
	Headers    map[string]string
	Timeout    time.Duration
	Decompress bool
}

// ParseOption validates the command line input. Header and URL-file
// problems surface here, before any network activity. An empty URL
// list short-circuits the remaining validation: nothing will run, the
// caller reports ExitNoURLs even when other flags are malformed.
func ParseOption(args ArgsList) (*Option, error) {
	opt := Option{Decompress: args.Decompress}

	fileURLs, err := readURLFile(args.URLFile)
	if err != nil {
		return nil, err
	}
	opt.URLs = collectURLs(args.URLs, fileURLs)
	if len(opt.URLs) == 0 {
		return &opt, nil
	}

	if args.Timeout == 0 {
		return nil, fmt.Errorf("invalid timeout value [%d]", args.Timeout)
	}
	opt.Timeout = time.Duration(args.Timeout) * time.Second

	headers, err := buildHeaders(args.UserAgent, args.Referer, args.Headers)
	if err != nil {
		return nil, err
	}
	opt.Headers = headers

	if opt.Folder, err = filepath.Abs(args.OutputDir); err != nil {
		return nil, fmt.Errorf("invalid destination folder [%s]", args.OutputDir)
	}

	return &opt, nil
}

// Run executes one batch invocation: validate input, download every
// URL, report. It returns the process exit code. A configuration
// error is returned to the caller and maps to ExitFailed.
func Run(args ArgsList, log, fetchLog misc.Logger) (int, error) {
	opt, err := ParseOption(args)
	if err != nil {
		return ExitFailed, err
	}

	if len(opt.URLs) == 0 {
		log.Error("No URLs provided. Use --url or --url-file.")
		return ExitNoURLs, nil
	}

	fetcher := fetch.New(opt.Folder, opt.Headers, opt.Timeout, fetchLog)
	if failures := NewApp(opt, fetcher, log).Execute(); len(failures) > 0 {
		return ExitFailed, nil
	}
	return ExitOK, nil
}

// App downloads a batch of URLs sequentially.
type App struct {
	option  Option
	fetcher *fetch.Fetcher
	log     misc.Logger
}

// NewApp create an application instance by validated options
func NewApp(opt *Option, fetcher *fetch.Fetcher, log misc.Logger) *App {
	return &App{
		option:  *opt,
		fetcher: fetcher,
		log:     log,
	}
}

// Execute downloads every URL in order and returns the URLs that
// failed. A failure never stops the batch.
func (app *App) Execute() (failures []string) {
	startTime := time.Now()

	for _, url := range app.option.URLs {
		app.log.Info("Downloading %s", url)

		path, filesize, err := app.fetcher.Fetch(url)
		if err != nil {
			app.log.Error("Failed to download %s: %v.", url, err)
			failures = append(failures, url)
			continue
		}
		app.log.Info("Saved %s (%d bytes).", path, filesize)

		if app.option.Decompress && unpack.IsCompressed(path) {
			target, err := unpack.Decompress(path)
			if err != nil {
				app.log.Error("Failed to decompress %s: %v.", path, err)
				failures = append(failures, url)
				continue
			}
			app.log.Info("Decompressed %s.", target)
		}
	}

	if len(failures) > 0 {
		app.log.Error("Failed downloads: %s.", strings.Join(failures, ", "))
	} else {
		app.log.Info("All downloads completed successfully. Time cost: %v.", time.Since(startTime))
	}
	return failures
}
