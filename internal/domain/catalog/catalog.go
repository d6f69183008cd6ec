// Package catalog holds the single table that drives classification,
// question templates and scoring: keywords, baselines and canned text per
// category, plus the vocabularies used to read transcripts.
package catalog

import (
	"fmt"
	"strings"

	"github.com/okian/interviewcoach/internal/domain/model"
)

// FieldPlaceholder is replaced with the caller's field in question templates.
const FieldPlaceholder = "{field}"

// Entry is one category row.
type Entry struct {
	Category  model.Category `koanf:"category"`
	Keywords  []string       `koanf:"keywords"`
	Baseline  float64        `koanf:"baseline"`
	Questions []string       `koanf:"questions"`
	Mistakes  []string       `koanf:"mistakes"`
	Tips      []string       `koanf:"tips"`
}

// Vocabulary lists the words counted when a transcript is scored.
type Vocabulary struct {
	Technical   []string `koanf:"technical"`
	Confidence  []string `koanf:"confidence"`
	Filler      []string `koanf:"filler"`
	MetricUnits []string `koanf:"metric_units"`
}

// Table is the ordered category table. Entry order is classification
// precedence; the generic entry carries no keywords and is the fallback.
type Table struct {
	Entries    []Entry    `koanf:"categories"`
	Vocabulary Vocabulary `koanf:"vocabulary"`

	index map[model.Category]int
}

// New builds a Table from entries and a vocabulary and validates it.
func New(entries []Entry, vocab Vocabulary) (*Table, error) {
	t := &Table{Entries: entries, Vocabulary: vocab}
	if err := t.init(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) init() error {
	t.normalize()
	if err := t.Validate(); err != nil {
		return err
	}
	t.index = make(map[model.Category]int, len(t.Entries))
	for i, e := range t.Entries {
		t.index[e.Category] = i
	}
	return nil
}

// normalize lower-cases keywords and trims text so matching is case-insensitive.
func (t *Table) normalize() {
	for i := range t.Entries {
		e := &t.Entries[i]
		e.Category = model.Category(strings.ToLower(strings.TrimSpace(string(e.Category))))
		kws := make([]string, 0, len(e.Keywords))
		for _, kw := range e.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		e.Keywords = kws
		for j, q := range e.Questions {
			e.Questions[j] = strings.TrimSpace(q)
		}
	}
}

// Validate checks the invariants the classifier and scorer rely on.
func (t *Table) Validate() error {
	if len(t.Entries) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalidCatalog)
	}
	seen := make(map[model.Category]bool, len(t.Entries))
	for i, e := range t.Entries {
		if !e.Category.Valid() {
			return fmt.Errorf("%w: entry %d: unknown category %q", ErrInvalidCatalog, i, e.Category)
		}
		if seen[e.Category] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidCatalog, e.Category)
		}
		seen[e.Category] = true

		isGeneric := e.Category == model.CategoryGeneric
		switch {
		case isGeneric && len(e.Keywords) > 0:
			return fmt.Errorf("%w: generic must not declare keywords", ErrInvalidCatalog)
		case !isGeneric && len(e.Keywords) == 0:
			return fmt.Errorf("%w: %s has no keywords", ErrInvalidCatalog, e.Category)
		case e.Baseline < model.MinRating || e.Baseline > model.MaxRating:
			return fmt.Errorf("%w: %s baseline %.2f out of range", ErrInvalidCatalog, e.Category, e.Baseline)
		case len(e.Mistakes) == 0 || len(e.Tips) == 0:
			return fmt.Errorf("%w: %s needs mistakes and tips", ErrInvalidCatalog, e.Category)
		}
		for _, q := range e.Questions {
			if !strings.HasSuffix(q, "?") {
				return fmt.Errorf("%w: %s question %q must end with '?'", ErrInvalidCatalog, e.Category, q)
			}
		}
	}
	if !seen[model.CategoryGeneric] {
		return fmt.Errorf("%w: generic category is required", ErrInvalidCatalog)
	}
	return nil
}

// Classified returns the non-generic entries in precedence order.
func (t *Table) Classified() []Entry {
	out := make([]Entry, 0, len(t.Entries))
	for _, e := range t.Entries {
		if e.Category != model.CategoryGeneric {
			out = append(out, e)
		}
	}
	return out
}

// Lookup returns the entry for c.
func (t *Table) Lookup(c model.Category) (Entry, bool) {
	i, ok := t.index[c]
	if !ok {
		return Entry{}, false
	}
	return t.Entries[i], true
}

// Entry returns the entry for c, or the generic entry when c is unknown.
func (t *Table) Entry(c model.Category) Entry {
	if e, ok := t.Lookup(c); ok {
		return e
	}
	return t.Generic()
}

// Generic returns the fallback entry.
func (t *Table) Generic() Entry {
	return t.Entries[t.index[model.CategoryGeneric]]
}
