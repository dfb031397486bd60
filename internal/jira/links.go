package jira

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// GetIssueLinkTypes lists the link types configured on the server.
func (c *Client) GetIssueLinkTypes(ctx context.Context) ([]IssueLinkType, error) {
	var resp struct {
		IssueLinkTypes []IssueLinkType `json:"issueLinkTypes"`
	}
	if err := c.get(ctx, "/issueLinkType", nil, &resp); err != nil {
		return nil, err
	}
	return resp.IssueLinkTypes, nil
}

// LinkIssues creates a link of the named type from inwardKey to outwardKey.
func (c *Client) LinkIssues(ctx context.Context, typeName, inwardKey, outwardKey string) error {
	body := map[string]interface{}{
		"type":         map[string]string{"name": typeName},
		"inwardIssue":  map[string]string{"key": inwardKey},
		"outwardIssue": map[string]string{"key": outwardKey},
	}
	return c.call(ctx, http.MethodPost, "/issueLink", nil, body, nil)
}

// MatchLinkType returns the first link type whose outward description
// contains relation, ignoring case.
func MatchLinkType(relation string, types []IssueLinkType) (*IssueLinkType, error) {
	rel := strings.ToLower(relation)
	for i := range types {
		if strings.Contains(strings.ToLower(types[i].Outward), rel) {
			return &types[i], nil
		}
	}
	return nil, fmt.Errorf(`%q does not match any link type "outward" relations (see "jirash issue linktypes")`, relation)
}
