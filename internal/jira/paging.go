package jira

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of issues requested per search page.
const DefaultPageSize = 50

// SearchOptions is a JQL search request.
type SearchOptions struct {
	JQL        string
	StartAt    int
	MaxResults int
	Fields     []string
	Expand     []string
}

// Search runs one page of a JQL search.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	q := url.Values{}
	q.Set("jql", opts.JQL)
	q.Set("startAt", strconv.Itoa(opts.StartAt))
	if opts.MaxResults > 0 {
		q.Set("maxResults", strconv.Itoa(opts.MaxResults))
	}
	if len(opts.Fields) > 0 {
		q.Set("fields", strings.Join(opts.Fields, ","))
	}
	if len(opts.Expand) > 0 {
		q.Set("expand", strings.Join(opts.Expand, ","))
	}

	var res SearchResult
	if err := c.get(ctx, "/search", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// PageFetcher fetches limit issues starting at offset and reports the total
// number of matches.
type PageFetcher func(ctx context.Context, offset, limit int) (issues []Issue, total int, err error)

// SearchPager is a forward-only stream over the results of a search. Pages
// are fetched lazily, one at a time, as the caller consumes them.
type SearchPager struct {
	fetch PageFetcher
	limit int

	offset int
	buf    []Issue
	done   bool
}

// NewSearchPager creates a pager over fetch. A limit of zero or less means
// DefaultPageSize.
func NewSearchPager(fetch PageFetcher, limit int) *SearchPager {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &SearchPager{fetch: fetch, limit: limit}
}

// Pager returns a pager over a JQL search. opts.StartAt is ignored.
func (c *Client) Pager(opts SearchOptions) *SearchPager {
	fetch := func(ctx context.Context, offset, limit int) ([]Issue, int, error) {
		o := opts
		o.StartAt = offset
		o.MaxResults = limit
		res, err := c.Search(ctx, o)
		if err != nil {
			return nil, 0, err
		}
		return res.Issues, res.Total, nil
	}
	return NewSearchPager(fetch, opts.MaxResults)
}

// NextPage returns the next batch of issues, or io.EOF once the stream is
// exhausted.
func (p *SearchPager) NextPage(ctx context.Context) ([]Issue, error) {
	if len(p.buf) > 0 {
		page := p.buf
		p.buf = nil
		return page, nil
	}
	if p.done {
		return nil, io.EOF
	}

	issues, total, err := p.fetch(ctx, p.offset, p.limit)
	if err != nil {
		return nil, err
	}
	p.offset += len(issues)
	if len(issues) == 0 || p.offset >= total {
		p.done = true
	}
	if len(issues) == 0 {
		return nil, io.EOF
	}
	return issues, nil
}

// Next returns the next issue, or io.EOF once the stream is exhausted.
func (p *SearchPager) Next(ctx context.Context) (*Issue, error) {
	if len(p.buf) == 0 {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		p.buf = page
	}
	issue := p.buf[0]
	p.buf = p.buf[1:]
	return &issue, nil
}

// All drains the stream.
func (p *SearchPager) All(ctx context.Context) ([]Issue, error) {
	var all []Issue
	for {
		page, err := p.NextPage(ctx)
		if err == io.EOF {
			return all, nil
		}
		if err != nil {
			return all, err
		}
		all = append(all, page...)
	}
}

// Reset rewinds the stream to the first result.
func (p *SearchPager) Reset() {
	p.offset = 0
	p.buf = nil
	p.done = false
}
