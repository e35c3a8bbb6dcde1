package pagination

import (
	"net/http"
	"testing"
)

func TestParseLinks(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    Links
	}{
		{
			name:    "no header",
			headers: nil,
			want:    Links{},
		},
		{
			name:    "next only",
			headers: []string{`<https://api.example.com/v2/accounts?cursor=abc&per_page=20>; rel="next"`},
			want:    Links{Next: "https://api.example.com/v2/accounts?cursor=abc&per_page=20"},
		},
		{
			name: "prev and next in one header",
			headers: []string{
				`<https://api.example.com/v2/accounts?cursor=a>; rel="prev", <https://api.example.com/v2/accounts?cursor=b>; rel="next"`,
			},
			want: Links{
				Prev: "https://api.example.com/v2/accounts?cursor=a",
				Next: "https://api.example.com/v2/accounts?cursor=b",
			},
		},
		{
			name: "start relation",
			headers: []string{
				`<https://api.example.com/v2/accounts>; rel="start", <https://api.example.com/v2/accounts?cursor=b>; rel="next"`,
			},
			want: Links{
				Start: "https://api.example.com/v2/accounts",
				Next:  "https://api.example.com/v2/accounts?cursor=b",
			},
		},
		{
			name: "multiple header lines",
			headers: []string{
				`<https://api.example.com/v2/accounts?cursor=a>; rel="prev"`,
				`<https://api.example.com/v2/accounts?cursor=b>; rel="next"`,
			},
			want: Links{
				Prev: "https://api.example.com/v2/accounts?cursor=a",
				Next: "https://api.example.com/v2/accounts?cursor=b",
			},
		},
		{
			name:    "unknown relation ignored",
			headers: []string{`<https://api.example.com/v2/accounts?cursor=z>; rel="last"`},
			want:    Links{},
		},
		{
			name:    "missing angle brackets ignored",
			headers: []string{`https://api.example.com/v2/accounts; rel="next"`},
			want:    Links{},
		},
		{
			name:    "missing rel parameter ignored",
			headers: []string{`<https://api.example.com/v2/accounts>; title="accounts"`},
			want:    Links{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for _, v := range tt.headers {
				h.Add("Link", v)
			}

			got := ParseLinks(h)
			if got != tt.want {
				t.Errorf("ParseLinks() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
