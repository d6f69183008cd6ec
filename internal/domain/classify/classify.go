// Package classify maps free-text job fields to a category.
package classify

import (
	"strings"

	"github.com/okian/interviewcoach/internal/domain/catalog"
	"github.com/okian/interviewcoach/internal/domain/model"
)

// Classifier resolves categories by substring keyword matching over a
// catalog table. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	entries []catalog.Entry
}

// New returns a classifier over t. A nil table uses catalog.Default().
func New(t *catalog.Table) *Classifier {
	if t == nil {
		t = catalog.Default()
	}
	return &Classifier{entries: t.Classified()}
}

// Classify returns the first category, in table order, with a keyword that
// occurs anywhere in the lower-cased query. It falls back to generic and
// never fails; empty input is rejected earlier by model.ParseFieldQuery.
func (c *Classifier) Classify(query string) model.Category {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return model.CategoryGeneric
	}
	for _, e := range c.entries {
		for _, kw := range e.Keywords {
			if strings.Contains(q, kw) {
				return e.Category
			}
		}
	}
	return model.CategoryGeneric
}

// ClassifyQuery is Classify for an already validated query.
func (c *Classifier) ClassifyQuery(q model.FieldQuery) model.Category {
	return c.Classify(q.Normalized())
}

// Keyword returns the keyword that decided the category for query, or the
// empty string when the query fell back to generic.
func (c *Classifier) Keyword(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, e := range c.entries {
		for _, kw := range e.Keywords {
			if q != "" && strings.Contains(q, kw) {
				return kw
			}
		}
	}
	return ""
}
