package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// GetIssueOptions narrows what GetIssue returns.
type GetIssueOptions struct {
	Fields     []string
	Expand     []string
	Properties []string
}

func (o GetIssueOptions) query() url.Values {
	q := url.Values{}
	if len(o.Fields) > 0 {
		q.Set("fields", strings.Join(o.Fields, ","))
	}
	if len(o.Expand) > 0 {
		q.Set("expand", strings.Join(o.Expand, ","))
	}
	if len(o.Properties) > 0 {
		q.Set("properties", strings.Join(o.Properties, ","))
	}
	return q
}

// GetIssue fetches an issue by id or key.
func (c *Client) GetIssue(ctx context.Context, idOrKey string, opts GetIssueOptions) (*Issue, error) {
	var issue Issue
	if err := c.get(ctx, "/issue/"+url.PathEscape(idOrKey), opts.query(), &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// CreateIssue creates an issue from a "fields" object, as in
// `{"fields": {"project": {"key": "FOO"}, "summary": ...}}`. The returned
// issue only has its id, key and self set.
func (c *Client) CreateIssue(ctx context.Context, fields map[string]interface{}) (*Issue, error) {
	var issue Issue
	body := map[string]interface{}{"fields": fields}
	if err := c.call(ctx, http.MethodPost, "/issue", nil, body, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// EditIssue applies an "update" object to an issue, e.g.
// `{"labels": [{"add": "foo"}]}`.
func (c *Client) EditIssue(ctx context.Context, idOrKey string, update json.RawMessage) error {
	body := map[string]json.RawMessage{"update": update}
	return c.call(ctx, http.MethodPut, "/issue/"+url.PathEscape(idOrKey), nil, body, nil)
}

// AddComment adds a comment to an issue.
func (c *Client) AddComment(ctx context.Context, idOrKey, text string) (*Comment, error) {
	var comment Comment
	body := map[string]string{"body": text}
	if err := c.call(ctx, http.MethodPost, "/issue/"+url.PathEscape(idOrKey)+"/comment", nil, body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
