// Package paging implements page/limit pagination for list endpoints.
package paging

import (
	"net/url"
	"strconv"

	"foodgram/internal/apperr"
)

// Page is a resolved window over an ordered result set.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Parse reads "page" and "limit" from q. A missing limit falls back to
// defaultLimit; limits above maxLimit are clamped.
func Parse(q url.Values, defaultLimit, maxLimit int) (Page, error) {
	p := Page{Number: 1, Limit: defaultLimit}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Page{}, apperr.NotFound("Invalid page.")
		}
		p.Number = n
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Page{}, apperr.Invalid("limit", "A positive integer is required.")
		}
		p.Limit = n
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p, nil
}

// Envelope is the paginated response body.
type Envelope[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewEnvelope builds the response for one page of results. base is the
// request URL; its query is preserved when building next/previous links.
func NewEnvelope[T any](base *url.URL, p Page, total int, results []T) Envelope[T] {
	if results == nil {
		results = []T{}
	}
	env := Envelope[T]{Count: total, Results: results}

	if p.Offset()+len(results) < total {
		next := link(base, p.Number+1)
		env.Next = &next
	}
	if p.Number > 1 {
		prev := link(base, p.Number-1)
		env.Previous = &prev
	}
	return env
}

func link(base *url.URL, page int) string {
	u := *base
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
