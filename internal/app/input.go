package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// buildHeaders assembles the request header map: user agent always,
// referer when given, then each extra "Name: Value" entry split on the
// first colon. An entry without a colon is a hard error.
func buildHeaders(userAgent, referer string, extra []string) (map[string]string, error) {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	headers := map[string]string{"User-Agent": userAgent}
	if referer != "" {
		headers["Referer"] = referer
	}

	for _, raw := range extra {
		name, value, found := strings.Cut(raw, ":")
		if !found {
			return nil, fmt.Errorf("invalid header format [%s]", raw)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	return headers, nil
}

// readURLFile reads one URL per line, skipping blank lines and
// #-comments. An empty path yields no URLs.
func readURLFile(path string) (urls []string, err error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "Open URL file ["+path+"] failed")
	}
	defer func() {
		_ = f.Close()
	}()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "Read URL file ["+path+"] failed")
	}

	return urls, nil
}

// collectURLs merges direct URLs with URL-file entries, direct first,
// dropping duplicates so the first occurrence wins.
func collectURLs(direct, fromFile []string) (urls []string) {
	seen := make(map[string]bool)
	for _, url := range append(append([]string{}, direct...), fromFile...) {
		if seen[url] {
			continue
		}
		seen[url] = true
		urls = append(urls, url)
	}
	return urls
}
