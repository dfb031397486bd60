package jira

import (
	"encoding/json"
)

// User is a JIRA user reference.
type User struct {
	Name         string `json:"name,omitempty"`
	Key          string `json:"key,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// Named is any JIRA object referenced by id and name (issue type, priority,
// status, component, ...).
type Named struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// IssueFields is the subset of issue fields jirash displays.
type IssueFields struct {
	Summary        string   `json:"summary"`
	Description    string   `json:"description,omitempty"`
	Reporter       *User    `json:"reporter,omitempty"`
	Assignee       *User    `json:"assignee,omitempty"`
	IssueType      *Named   `json:"issuetype,omitempty"`
	Priority       *Named   `json:"priority,omitempty"`
	Status         *Named   `json:"status,omitempty"`
	Components     []Named  `json:"components,omitempty"`
	Labels         []string `json:"labels,omitempty"`
	Created        string   `json:"created,omitempty"`
	Updated        string   `json:"updated,omitempty"`
	ResolutionDate string   `json:"resolutiondate,omitempty"`
}

// Issue is a JIRA issue. Raw holds the response as received.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self,omitempty"`
	Fields IssueFields `json:"fields"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the issue and keeps a copy of the raw bytes.
func (i *Issue) UnmarshalJSON(data []byte) error {
	type plain Issue
	if err := json.Unmarshal(data, (*plain)(i)); err != nil {
		return err
	}
	i.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the raw response when there is one, so that JSON
// output shows every field the server sent.
func (i Issue) MarshalJSON() ([]byte, error) {
	if len(i.Raw) > 0 {
		return i.Raw, nil
	}
	type plain Issue
	return json.Marshal(plain(i))
}

// SharePermission describes who a filter is shared with.
type SharePermission struct {
	ID      int    `json:"id,omitempty"`
	Type    string `json:"type"`
	Group   *Named `json:"group,omitempty"`
	Project *struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"project,omitempty"`
}

// Filter is a saved JIRA search.
type Filter struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	JQL              string            `json:"jql"`
	Owner            *User             `json:"owner,omitempty"`
	ViewURL          string            `json:"viewUrl,omitempty"`
	SearchURL        string            `json:"searchUrl,omitempty"`
	Favourite        bool              `json:"favourite,omitempty"`
	SharePermissions []SharePermission `json:"sharePermissions,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the filter and keeps a copy of the raw bytes.
func (f *Filter) UnmarshalJSON(data []byte) error {
	type plain Filter
	if err := json.Unmarshal(data, (*plain)(f)); err != nil {
		return err
	}
	f.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON prefers the raw response.
func (f Filter) MarshalJSON() ([]byte, error) {
	if len(f.Raw) > 0 {
		return f.Raw, nil
	}
	type plain Filter
	return json.Marshal(plain(f))
}

// Version is a project version (a.k.a. release).
type Version struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Project     string `json:"project,omitempty"`
	ProjectID   int    `json:"projectId,omitempty"`
	Released    bool   `json:"released"`
	Archived    bool   `json:"archived"`
	ReleaseDate string `json:"releaseDate,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the version and keeps a copy of the raw bytes.
func (v *Version) UnmarshalJSON(data []byte) error {
	type plain Version
	if err := json.Unmarshal(data, (*plain)(v)); err != nil {
		return err
	}
	v.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON prefers the raw response.
func (v Version) MarshalJSON() ([]byte, error) {
	if len(v.Raw) > 0 {
		return v.Raw, nil
	}
	type plain Version
	return json.Marshal(plain(v))
}

// IssueLinkType is a kind of relation between two issues.
type IssueLinkType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Inward  string `json:"inward"`
	Outward string `json:"outward"`
	Self    string `json:"self,omitempty"`
}

// Comment is an issue comment.
type Comment struct {
	ID      string `json:"id"`
	Body    string `json:"body"`
	Author  *User  `json:"author,omitempty"`
	Created string `json:"created,omitempty"`
	Self    string `json:"self,omitempty"`
}

// SearchResult is one page of a JQL search.
type SearchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}
