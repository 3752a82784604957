package runpod

import (
	"net/url"
	"strconv"
	"strings"
)

// Query accumulates query-string filters, skipping values that were not supplied.
type Query struct {
	values url.Values
}

func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// String adds value when it is not empty.
func (q *Query) String(key, value string) *Query {
	if value != "" {
		q.values.Add(key, value)
	}
	return q
}

// Strings adds one parameter per value, in order. Empty slices add nothing.
func (q *Query) Strings(key string, values []string) *Query {
	for _, v := range values {
		q.values.Add(key, v)
	}
	return q
}

// Bool adds "true" or "false" when value is set.
func (q *Query) Bool(key string, value *bool) *Query {
	if value != nil {
		q.values.Add(key, strconv.FormatBool(*value))
	}
	return q
}

func (q *Query) Values() url.Values {
	return q.values
}

// Path joins escaped segments into an absolute request path,
// Path("pods", id, "start") yields "/pods/<id>/start".
func Path(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return "/" + strings.Join(escaped, "/")
}
