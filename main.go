package main

import (
	"os"

	"github.com/spf13/cobra"
	"unknwon.dev/clog/v2"

	"github.com/ed-fx/go-endes/internal/app"
	"github.com/ed-fx/go-endes/internal/misc"
)

func main() {
	args := app.ArgsList{}
	exitCode := app.ExitOK

	rootCmd := &cobra.Command{
		Use:   "go-endes",
		Short: "Download ENDES survey files from INEI URLs",
		Long: `go-endes fetches a batch of files over HTTP(S) and saves them to a
local directory. Filenames come from the Content-Disposition header
when present, from the last URL path segment otherwise. Each file is
written through a temp file in the output directory and moved into
place atomically. A failing URL is reported and the batch continues.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if args.Verbose {
				_ = clog.NewConsole(0, clog.ConsoleConfig{
					Level: clog.LevelTrace,
				})
			} else {
				_ = clog.NewConsole(0, clog.ConsoleConfig{
					Level: clog.LevelInfo,
				})
			}
			defer clog.Stop()

			code, err := app.Run(args,
				misc.NewLogger("App", 2),
				misc.NewLogger("Fetch", 2))
			exitCode = code
			return err
		},
	}

	flags := rootCmd.Flags()
	flags.StringArrayVar(&args.URLs,
		"url", nil,
		"direct URL to a downloadable file (can be repeated)")
	flags.StringVar(&args.URLFile,
		"url-file", "",
		"text file with one URL per line (comments with # are ignored)")
	flags.StringVar(&args.OutputDir,
		"output-dir", "data/raw",
		"directory to save downloads")
	flags.StringVar(&args.UserAgent,
		"user-agent", app.DefaultUserAgent,
		"User-Agent header to send with requests")
	flags.StringVar(&args.Referer,
		"referer", "",
		"optional Referer header to send with requests")
	flags.StringArrayVar(&args.Headers,
		"header", nil,
		"additional header in 'Name: Value' format (can be repeated)")
	flags.UintVar(&args.Timeout,
		"timeout", 30,
		"request timeout in seconds")
	flags.BoolVar(&args.Decompress,
		"decompress", false,
		"expand downloaded .xz/.lzma archives in place")
	flags.BoolVar(&args.Verbose,
		"verbose", false,
		"verbose output trace log")

	if err := rootCmd.Execute(); err != nil {
		exitCode = app.ExitFailed
	}
	os.Exit(exitCode)
}
