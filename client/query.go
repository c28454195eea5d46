package client

import (
	"net/url"
	"strconv"
	"strings"
)

// queryBuilder builds a query string preserving the insertion order of
// its parameters. url.Values cannot be used here, its Encode sorts keys
// alphabetically.
type queryBuilder struct {
	pairs []string
}

func newQuery() *queryBuilder {
	return &queryBuilder{}
}

// Str appends a string parameter; empty values are omitted entirely
// instead of being sent as empty parameters.
func (q *queryBuilder) Str(key, value string) *queryBuilder {
	if value == "" {
		return q
	}
	q.pairs = append(q.pairs, url.QueryEscape(key)+"="+url.QueryEscape(value))
	return q
}

// Int appends a numeric parameter in decimal form; zero values are
// omitted.
func (q *queryBuilder) Int(key string, value int) *queryBuilder {
	if value == 0 {
		return q
	}
	return q.Str(key, strconv.Itoa(value))
}

// String renders the query including the leading "?", or "" when no
// parameters were added.
func (q *queryBuilder) String() string {
	if len(q.pairs) == 0 {
		return ""
	}
	return "?" + strings.Join(q.pairs, "&")
}
