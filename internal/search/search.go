// Package search implements case-insensitive substring search over entity
// fields, optionally narrowed by an exact-match facet.
//
// An empty or whitespace-only query is always rejected with ErrEmptyQuery;
// callers never receive "everything" or "nothing" for a blank query.
package search

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrEmptyQuery is returned by NewCriteria for a blank query.
var ErrEmptyQuery = errors.New("search query is required")

// Facet is an exact-match filter applied alongside the text query.
type Facet struct {
	Column string
	Value  string
}

// Criteria describes one search request.
type Criteria struct {
	Query  string
	Fields []string
	Facet  *Facet
}

// NewCriteria trims query and validates it against the empty-query policy.
func NewCriteria(query string, fields ...string) (Criteria, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Criteria{}, ErrEmptyQuery
	}
	if len(fields) == 0 {
		return Criteria{}, errors.New("search requires at least one field")
	}
	return Criteria{Query: q, Fields: fields}, nil
}

// WithFacet returns a copy of c narrowed to rows where column equals value.
// A blank value leaves the criteria unchanged.
func (c Criteria) WithFacet(column, value string) Criteria {
	value = strings.TrimSpace(value)
	if value == "" {
		return c
	}
	c.Facet = &Facet{Column: column, Value: value}
	return c
}

// Pattern returns the LIKE pattern for the query, with LIKE wildcards in the
// query escaped so they match literally.
func (c Criteria) Pattern() string {
	return "%" + escapeLike(strings.ToLower(c.Query)) + "%"
}

// Scope returns a GORM scope applying the criteria. Matching lower-cases both
// sides so behaviour is the same on postgres and sqlite.
func (c Criteria) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		pattern := c.Pattern()
		clauses := make([]string, 0, len(c.Fields))
		args := make([]any, 0, len(c.Fields))
		for _, f := range c.Fields {
			clauses = append(clauses, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, f))
			args = append(args, pattern)
		}
		db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
		if c.Facet != nil {
			db = db.Where(c.Facet.Column+" = ?", c.Facet.Value)
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
