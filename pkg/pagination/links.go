package pagination

import (
	"net/http"
	"strings"
)

// Links holds the navigation URLs extracted from a Link response header.
// An empty string means the relation was not present.
type Links struct {
	Prev  string
	Next  string
	Start string
}

// ParseLinks extracts prev/next/start relations from the Link header(s) of a
// list response. Header format:
//
//	Link: <https://api.example.com/v2/accounts?cursor=abc&per_page=20>; rel="next"
func ParseLinks(h http.Header) Links {
	var links Links

	for _, header := range h.Values("Link") {
		for _, part := range strings.Split(header, ",") {
			url, rel := parseLinkPart(part)
			if url == "" {
				continue
			}
			switch rel {
			case "prev":
				links.Prev = url
			case "next":
				links.Next = url
			case "start":
				links.Start = url
			}
		}
	}

	return links
}

// parseLinkPart parses a single `<url>; rel="name"` segment.
func parseLinkPart(part string) (url, rel string) {
	segments := strings.Split(part, ";")
	if len(segments) < 2 {
		return "", ""
	}

	url = strings.TrimSpace(segments[0])
	if !strings.HasPrefix(url, "<") || !strings.HasSuffix(url, ">") {
		return "", ""
	}
	url = strings.Trim(url, "<>")

	for _, param := range segments[1:] {
		param = strings.TrimSpace(param)
		if value, ok := strings.CutPrefix(param, "rel="); ok {
			return url, strings.Trim(value, `"`)
		}
	}

	return "", ""
}
