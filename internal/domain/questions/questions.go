// Package questions builds interview question sets from the catalog's
// template pools.
package questions

import (
	"strings"

	"github.com/okian/interviewcoach/internal/domain/catalog"
	"github.com/okian/interviewcoach/internal/domain/model"
	"github.com/okian/interviewcoach/internal/domain/sampling"
)

const fallbackField = "this role"

// Generator draws questions for a category, topping up from the generic pool.
type Generator struct {
	table   *catalog.Table
	sampler sampling.Sampler
}

// New returns a generator over t. A nil table uses catalog.Default().
func New(t *catalog.Table, opts ...Option) *Generator {
	if t == nil {
		t = catalog.Default()
	}
	g := &Generator{
		table:   t,
		sampler: sampling.NewHashSampler(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns min(count, Available(c, field)) distinct questions, the
// category's own templates first. With the default sampler the same
// (category, field, count) always yields the same set.
func (g *Generator) Generate(c model.Category, field string, count int) model.QuestionSet {
	own, generic := g.pools(c, field)
	if count <= 0 {
		return model.QuestionSet{}
	}

	key := sampling.RollingHash(strings.ToLower(strings.TrimSpace(field)) + "|" + string(c))
	out := make(model.QuestionSet, 0, min(count, len(own)+len(generic)))
	for _, i := range g.sampler.Pick(key, len(own), count) {
		out = append(out, own[i])
	}
	if rest := count - len(out); rest > 0 {
		for _, i := range g.sampler.Pick(key, len(generic), rest) {
			out = append(out, generic[i])
		}
	}
	return out
}

// Templates returns every question available for c and field, category
// templates first, without sampling.
func (g *Generator) Templates(c model.Category, field string) model.QuestionSet {
	own, generic := g.pools(c, field)
	out := make(model.QuestionSet, 0, len(own)+len(generic))
	out = append(out, own...)
	return append(out, generic...)
}

// Available reports how many distinct questions exist for c and field.
func (g *Generator) Available(c model.Category, field string) int {
	own, generic := g.pools(c, field)
	return len(own) + len(generic)
}

// pools returns the category pool and the generic pool with the field
// interpolated, each de-duplicated and disjoint from the other.
func (g *Generator) pools(c model.Category, field string) (own, generic []string) {
	field = strings.TrimSpace(field)
	if field == "" {
		field = fallbackField
	}
	seen := make(map[string]bool)
	add := func(dst []string, tmpl string) []string {
		q := strings.TrimSpace(strings.ReplaceAll(tmpl, catalog.FieldPlaceholder, field))
		if q == "" || !strings.HasSuffix(q, "?") || seen[q] {
			return dst
		}
		seen[q] = true
		return append(dst, q)
	}

	if c != model.CategoryGeneric {
		if e, ok := g.table.Lookup(c); ok {
			for _, tmpl := range e.Questions {
				own = add(own, tmpl)
			}
		}
	}
	for _, tmpl := range g.table.Generic().Questions {
		generic = add(generic, tmpl)
	}
	return own, generic
}
