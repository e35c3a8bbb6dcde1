package pagination

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

// fakeDoer serves canned pages keyed by URL and records the URLs it was
// asked for.
type fakeDoer struct {
	pages    map[string]fakePage
	requests []string
	err      error
}

type fakePage struct {
	body   string
	header http.Header
}

func (d *fakeDoer) PageXML(_ context.Context, url string) ([]byte, http.Header, error) {
	d.requests = append(d.requests, url)
	if d.err != nil {
		return nil, nil, d.err
	}
	page, ok := d.pages[url]
	if !ok {
		return nil, nil, fmt.Errorf("unexpected url %q", url)
	}
	return []byte(page.body), page.header, nil
}

func decodeCSV(data []byte) ([]string, error) {
	s := strings.TrimSpace(string(data))
	if s == "" {
		return nil, nil
	}
	if s == "bad" {
		return nil, errors.New("decode failed")
	}
	return strings.Split(s, ","), nil
}

func pageHeader(records string, links ...string) http.Header {
	h := http.Header{}
	if records != "" {
		h.Set("X-Records", records)
	}
	for _, l := range links {
		h.Add("Link", l)
	}
	return h
}

func TestFetchSinglePage(t *testing.T) {
	doer := &fakeDoer{pages: map[string]fakePage{
		"http://x/items": {body: "a,b,c", header: pageHeader("3")},
	}}

	page, err := Fetch(context.Background(), doer, "http://x/items", decodeCSV)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(page.Items) != 3 {
		t.Errorf("len(Items) = %d, want 3", len(page.Items))
	}
	if page.Records != 3 {
		t.Errorf("Records = %d, want 3", page.Records)
	}
	if page.HasNext() {
		t.Error("HasNext() = true for single page")
	}
	if page.HasPrev() {
		t.Error("HasPrev() = true for first page")
	}

	if _, err := page.Next(context.Background()); !errors.Is(err, ErrNoPage) {
		t.Errorf("Next() error = %v, want ErrNoPage", err)
	}
	if _, err := page.Prev(context.Background()); !errors.Is(err, ErrNoPage) {
		t.Errorf("Prev() error = %v, want ErrNoPage", err)
	}
}

func TestFetchWalkForwardAndBack(t *testing.T) {
	doer := &fakeDoer{pages: map[string]fakePage{
		"http://x/items": {
			body:   "a",
			header: pageHeader("3", `<http://x/items?cursor=1>; rel="next"`),
		},
		"http://x/items?cursor=1": {
			body: "b",
			header: pageHeader("3",
				`<http://x/items>; rel="prev"`,
				`<http://x/items?cursor=2>; rel="next"`),
		},
		"http://x/items?cursor=2": {
			body:   "c",
			header: pageHeader("3", `<http://x/items?cursor=1>; rel="prev"`),
		},
	}}

	ctx := context.Background()
	page, err := Fetch(ctx, doer, "http://x/items", decodeCSV)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	var forward []string
	forward = append(forward, page.Items...)
	for page.HasNext() {
		page, err = page.Next(ctx)
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		forward = append(forward, page.Items...)
	}
	if got := strings.Join(forward, ","); got != "a,b,c" {
		t.Errorf("forward walk = %q, want a,b,c", got)
	}

	var backward []string
	for page.HasPrev() {
		page, err = page.Prev(ctx)
		if err != nil {
			t.Fatalf("Prev failed: %v", err)
		}
		backward = append(backward, page.Items...)
	}
	if got := strings.Join(backward, ","); got != "b,a" {
		t.Errorf("backward walk = %q, want b,a", got)
	}

	want := []string{
		"http://x/items",
		"http://x/items?cursor=1",
		"http://x/items?cursor=2",
		"http://x/items?cursor=1",
		"http://x/items",
	}
	if len(doer.requests) != len(want) {
		t.Fatalf("requests = %v, want %v", doer.requests, want)
	}
	for i := range want {
		if doer.requests[i] != want[i] {
			t.Errorf("requests[%d] = %q, want %q", i, doer.requests[i], want[i])
		}
	}
}

func TestFetchDoerError(t *testing.T) {
	wantErr := errors.New("boom")
	doer := &fakeDoer{err: wantErr}

	if _, err := Fetch(context.Background(), doer, "http://x/items", decodeCSV); !errors.Is(err, wantErr) {
		t.Errorf("Fetch error = %v, want %v", err, wantErr)
	}
}

func TestFetchDecodeError(t *testing.T) {
	doer := &fakeDoer{pages: map[string]fakePage{
		"http://x/items": {body: "bad", header: pageHeader("")},
	}}

	if _, err := Fetch(context.Background(), doer, "http://x/items", decodeCSV); err == nil {
		t.Fatal("Fetch succeeded with failing decoder")
	}
}

func TestFetchMalformedRecordsHeader(t *testing.T) {
	doer := &fakeDoer{pages: map[string]fakePage{
		"http://x/items": {body: "a", header: pageHeader("not-a-number")},
	}}

	page, err := Fetch(context.Background(), doer, "http://x/items", decodeCSV)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if page.Records != 0 {
		t.Errorf("Records = %d, want 0 for malformed header", page.Records)
	}
}
