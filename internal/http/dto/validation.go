package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ratemymusic/rmm-api/internal/constants"
)

// ValidationError reports a malformed query parameter.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Query parameter `%s` %s.", e.Field, e.Message)
}

func (e *ValidationError) ToMap() map[string]string {
	return map[string]string{e.Field: e.Message}
}

// Query reads typed values from a query string. The first parse failure is
// kept and reported by Err; later reads still return zero values.
type Query struct {
	values url.Values
	err    *ValidationError
}

func NewQuery(values url.Values) *Query {
	return &Query{values: values}
}

func (q *Query) fail(field, message string) {
	if q.err == nil {
		q.err = &ValidationError{Field: field, Message: message}
	}
}

// Err returns the first parse failure, or nil.
func (q *Query) Err() error {
	if q.err == nil {
		return nil
	}
	return q.err
}

func (q *Query) String(key string) string {
	return q.values.Get(key)
}

// Int returns nil when key is absent or empty.
func (q *Query) Int(key string) *int {
	raw := strings.TrimSpace(q.values.Get(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(key, "must be an integer")
		return nil
	}
	return &n
}

// ID returns nil when key is absent or empty.
func (q *Query) ID(key string) *int64 {
	raw := strings.TrimSpace(q.values.Get(key))
	if raw == "" {
		return nil
	}
	id, err := parseID(raw)
	if err != nil {
		q.fail(key, "must be a positive integer")
		return nil
	}
	return &id
}

// IDList parses a comma-separated list of ids, skipping empty items.
func (q *Query) IDList(key string) []int64 {
	raw := strings.TrimSpace(q.values.Get(key))
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, err := parseID(item)
		if err != nil {
			q.fail(key, "must be a comma-separated list of positive integers")
			return nil
		}
		ids = append(ids, id)
	}
	return ids
}

// Desc reports whether direction=desc was requested. The default is ascending.
func (q *Query) Desc() bool {
	switch strings.ToLower(strings.TrimSpace(q.values.Get("direction"))) {
	case "", "asc":
		return false
	case "desc":
		return true
	default:
		q.fail("direction", "must be asc or desc")
		return false
	}
}

// Paging returns the requested page and size. Page is zero when pagination
// was not requested.
func (q *Query) Paging() (page, pageSize int) {
	p := q.Int("page")
	size := q.Int("pageSize")
	if p == nil {
		return 0, 0
	}
	if *p < 1 {
		q.fail("page", "must be at least 1")
		return 0, 0
	}
	pageSize = constants.DefaultPageSize
	if size != nil {
		if *size < 1 || *size > constants.MaxPageSize {
			q.fail("pageSize", fmt.Sprintf("must be between 1 and %d", constants.MaxPageSize))
			return 0, 0
		}
		pageSize = *size
	}
	return *p, pageSize
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id < 1 {
		return 0, fmt.Errorf("id %d is not positive", id)
	}
	return id, nil
}

// ParseID parses a path id. Non-numeric ids are reported as missing.
func ParseID(raw string) (int64, bool) {
	id, err := parseID(raw)
	return id, err == nil
}
