package pagination

import (
	"context"
	"errors"
	"net/http"
	"strconv"
)

// ErrNoPage is returned by Next/Prev when the page has no link in that
// direction.
var ErrNoPage = errors.New("no page in that direction")

// Doer issues a single authenticated GET against the billing API and returns
// the raw response body plus the response headers. Implemented by
// client.Client.
type Doer interface {
	PageXML(ctx context.Context, url string) ([]byte, http.Header, error)
}

// Page is one page of a paginated list result. Items holds the decoded
// records, Records the total record count across all pages as reported by
// the X-Records header (0 when the header is absent).
//
// Adjacent pages are fetched lazily through Next and Prev following the
// prev/next links the server returned with this page.
type Page[T any] struct {
	Items   []T
	Records int

	doer   Doer
	decode func([]byte) ([]T, error)
	links  Links
}

// Fetch retrieves url through doer and builds a page from the response,
// decoding the body with decode and reading pagination state from the
// response headers.
func Fetch[T any](ctx context.Context, doer Doer, url string, decode func([]byte) ([]T, error)) (*Page[T], error) {
	body, header, err := doer.PageXML(ctx, url)
	if err != nil {
		return nil, err
	}

	items, err := decode(body)
	if err != nil {
		return nil, err
	}

	records := 0
	if v := header.Get("X-Records"); v != "" {
		// Malformed header leaves Records at 0 rather than failing the page.
		records, _ = strconv.Atoi(v)
	}

	return &Page[T]{
		Items:   items,
		Records: records,
		doer:    doer,
		decode:  decode,
		links:   ParseLinks(header),
	}, nil
}

// HasNext reports whether the server returned a next link with this page.
func (p *Page[T]) HasNext() bool {
	return p.links.Next != ""
}

// HasPrev reports whether the server returned a prev link with this page.
// The first page of a listing has no prev link.
func (p *Page[T]) HasPrev() bool {
	return p.links.Prev != ""
}

// Next fetches the following page. Returns ErrNoPage when this is the last
// page.
func (p *Page[T]) Next(ctx context.Context) (*Page[T], error) {
	if !p.HasNext() {
		return nil, ErrNoPage
	}
	return Fetch(ctx, p.doer, p.links.Next, p.decode)
}

// Prev fetches the preceding page. Returns ErrNoPage when this is the first
// page.
func (p *Page[T]) Prev(ctx context.Context) (*Page[T], error) {
	if !p.HasPrev() {
		return nil, ErrNoPage
	}
	return Fetch(ctx, p.doer, p.links.Prev, p.decode)
}
