package jira

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// GetFilter fetches a filter by id.
func (c *Client) GetFilter(ctx context.Context, id string) (*Filter, error) {
	if !IsNumericID(id) {
		return nil, fmt.Errorf("filter id must be numeric: %q", id)
	}
	var f Filter
	if err := c.get(ctx, "/filter/"+id, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// GetFavouriteFilters lists the current user's favourite filters.
func (c *Client) GetFavouriteFilters(ctx context.Context) ([]Filter, error) {
	var filters []Filter
	if err := c.get(ctx, "/filter/favourite", nil, &filters); err != nil {
		return nil, err
	}
	return filters, nil
}

// FindFilter returns the filter with the given id (if term is numeric) or
// the favourite filter whose name best matches term.
func (c *Client) FindFilter(ctx context.Context, term string) (*Filter, error) {
	if IsNumericID(term) {
		return c.GetFilter(ctx, term)
	}
	filters, err := c.GetFavouriteFilters(ctx)
	if err != nil {
		return nil, err
	}
	return ResolveFilter(term, filters)
}

// filterStage is one step of the name matching cascade.
type filterStage struct {
	// desc is how the pattern is shown in an ambiguity message.
	desc  string
	match func(name string) bool
}

// ResolveFilter picks exactly one filter by name. It tries, in order: an
// exact match, a case-insensitive exact match, a whole-word match, a
// case-insensitive whole-word match and a case-insensitive substring match.
// The first stage with a single match wins. Stages matching several filters
// are reported if nothing later is unique.
func ResolveFilter(term string, filters []Filter) (*Filter, error) {
	for i := range filters {
		if filters[i].Name == term {
			return &filters[i], nil
		}
	}
	lower := strings.ToLower(term)
	for i := range filters {
		if strings.ToLower(filters[i].Name) == lower {
			return &filters[i], nil
		}
	}

	quoted := regexp.QuoteMeta(term)
	word := regexp.MustCompile(`\b` + quoted + `\b`)
	wordFold := regexp.MustCompile(`(?i)\b` + quoted + `\b`)
	substrFold := regexp.MustCompile(`(?i)` + quoted)

	stages := []filterStage{
		{desc: `/\b` + term + `\b/`, match: word.MatchString},
		{desc: `/\b` + term + `\b/i`, match: wordFold.MatchString},
		{desc: `/` + term + `/i`, match: substrFold.MatchString},
	}

	var errmsgs []string
	for _, stage := range stages {
		var matches []*Filter
		for i := range filters {
			if stage.match(filters[i].Name) {
				matches = append(matches, &filters[i])
			}
		}
		switch {
		case len(matches) == 1:
			return matches[0], nil
		case len(matches) > 1:
			names := make([]string, len(matches))
			for i, m := range matches {
				names[i] = m.Name
			}
			errmsgs = append(errmsgs, fmt.Sprintf(`filter term %s is ambiguous, it matches %d filters: "%s"`,
				stage.desc, len(matches), strings.Join(names, `", "`)))
		}
	}

	if len(errmsgs) > 0 {
		return nil, errors.New(strings.Join(errmsgs, "; "))
	}
	return nil, fmt.Errorf("no favourite filter names match %q", term)
}
