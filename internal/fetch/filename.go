package fetch

import (
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// fallbackName is used when neither the response headers nor the URL
// path yield a usable filename.
const fallbackName = "downloaded_file"

// nameResolver returns a filename for the response, or "" to pass to
// the next resolver in the chain.
type nameResolver func(rawURL string, header http.Header) string

var nameResolvers = []nameResolver{
	contentDispositionName,
	urlPathName,
}

// inferFilename resolves the destination filename for a response:
// Content-Disposition first, then the last URL path segment, then the
// fixed fallback.
func inferFilename(rawURL string, header http.Header) string {
	for _, resolve := range nameResolvers {
		if name := resolve(rawURL, header); name != "" {
			return name
		}
	}
	return fallbackName
}

func contentDispositionName(_ string, header http.Header) string {
	cd := header.Get("Content-Disposition")
	if cd == "" {
		return ""
	}

	if _, params, err := mime.ParseMediaType(cd); err == nil {
		if name := strings.Trim(params["filename"], `"`); name != "" {
			return name
		}
	}

	// Servers emit Content-Disposition values ParseMediaType rejects,
	// scan for the filename token directly.
	idx := strings.Index(strings.ToLower(cd), "filename=")
	if idx < 0 {
		return ""
	}
	name := cd[idx+len("filename="):]
	if semi := strings.IndexByte(name, ';'); semi >= 0 {
		name = name[:semi]
	}
	return strings.Trim(strings.TrimSpace(name), `"`)
}

func urlPathName(rawURL string, _ http.Header) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
