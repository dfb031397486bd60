package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

var numericID = regexp.MustCompile(`^\d+$`)

// IsNumericID reports whether s looks like a JIRA numeric id.
func IsNumericID(s string) bool {
	return numericID.MatchString(s)
}

// GetVersion fetches a version by id.
func (c *Client) GetVersion(ctx context.Context, id string) (*Version, error) {
	if !IsNumericID(id) {
		return nil, fmt.Errorf("version id must be numeric: %q", id)
	}
	var ver Version
	if err := c.get(ctx, "/version/"+id, nil, &ver); err != nil {
		return nil, err
	}
	return &ver, nil
}

// GetProjectVersions lists the versions of a project (id or key).
func (c *Client) GetProjectVersions(ctx context.Context, project string) ([]Version, error) {
	var vers []Version
	if err := c.get(ctx, "/project/"+url.PathEscape(project)+"/versions", nil, &vers); err != nil {
		return nil, err
	}
	return vers, nil
}

// GetProjectVersion finds the version of project with exactly this name.
func (c *Client) GetProjectVersion(ctx context.Context, project, name string) (*Version, error) {
	vers, err := c.GetProjectVersions(ctx, project)
	if err != nil {
		return nil, err
	}
	for i := range vers {
		if vers[i].Name == name {
			return &vers[i], nil
		}
	}
	return nil, fmt.Errorf("no %q version on project %q", name, project)
}

// VersionCreate holds the fields of a new version.
type VersionCreate struct {
	Project     string `json:"project"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Released    bool   `json:"released,omitempty"`
	Archived    bool   `json:"archived,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
}

// CreateVersion creates a project version.
func (c *Client) CreateVersion(ctx context.Context, v VersionCreate) (*Version, error) {
	var ver Version
	if err := c.call(ctx, http.MethodPost, "/version", nil, v, &ver); err != nil {
		return nil, err
	}
	return &ver, nil
}

// UpdateVersion applies a partial update to a version.
func (c *Client) UpdateVersion(ctx context.Context, id string, data map[string]interface{}) (*Version, error) {
	if !IsNumericID(id) {
		return nil, fmt.Errorf("version id must be numeric: %q", id)
	}
	var ver Version
	if err := c.call(ctx, http.MethodPut, "/version/"+id, nil, data, &ver); err != nil {
		return nil, err
	}
	return &ver, nil
}

// DeleteVersion deletes a version.
func (c *Client) DeleteVersion(ctx context.Context, id string) error {
	if !IsNumericID(id) {
		return fmt.Errorf("version id must be numeric: %q", id)
	}
	return c.call(ctx, http.MethodDelete, "/version/"+id, nil, nil, nil)
}

// ReleaseDatePattern is the accepted format of a version release date.
var ReleaseDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// UpdatableVersionField describes a version field that can be set with
// `version update`.
type UpdatableVersionField struct {
	Name string
	Type string
	// Pattern, if set, must match the value.
	Pattern *regexp.Regexp
}

// UpdatableVersionFields lists the fields `version update` accepts.
var UpdatableVersionFields = []UpdatableVersionField{
	{Name: "released", Type: "bool"},
	{Name: "archived", Type: "bool"},
	{Name: "releaseDate", Type: "string", Pattern: ReleaseDatePattern},
}

// ParseVersionUpdates turns FIELD=VALUE arguments into an update object.
func ParseVersionUpdates(args []string) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	for _, kv := range args {
		idx := strings.Index(kv, "=")
		if idx == -1 {
			return nil, fmt.Errorf("invalid key=value: %q", kv)
		}
		k, v := kv[:idx], kv[idx+1:]

		var field *UpdatableVersionField
		for i := range UpdatableVersionFields {
			if UpdatableVersionFields[i].Name == k {
				field = &UpdatableVersionFields[i]
				break
			}
		}
		if field == nil {
			names := make([]string, len(UpdatableVersionFields))
			for i, f := range UpdatableVersionFields {
				names[i] = f.Name
			}
			return nil, fmt.Errorf("invalid field: %q (must match one of: %s)", k, strings.Join(names, ", "))
		}

		switch field.Type {
		case "bool":
			switch v {
			case "true":
				updates[k] = true
			case "false":
				updates[k] = false
			default:
				return nil, fmt.Errorf(`invalid value for %q, must be "true" or "false"`, k)
			}
		default:
			if field.Pattern != nil && !field.Pattern.MatchString(v) {
				return nil, fmt.Errorf("invalid value for %q, does not match /%s/: %s", k, field.Pattern, v)
			}
			updates[k] = v
		}
	}
	return updates, nil
}
