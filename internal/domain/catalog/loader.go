package catalog

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load reads a catalog from a YAML file. Vocabulary lists left empty in the
// file keep their built-in defaults.
func Load(path string) (*Table, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}

	var t Table
	if err := k.UnmarshalWithConf("", &t, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}

	def := DefaultVocabulary()
	if len(t.Vocabulary.Technical) == 0 {
		t.Vocabulary.Technical = def.Technical
	}
	if len(t.Vocabulary.Confidence) == 0 {
		t.Vocabulary.Confidence = def.Confidence
	}
	if len(t.Vocabulary.Filler) == 0 {
		t.Vocabulary.Filler = def.Filler
	}
	if len(t.Vocabulary.MetricUnits) == 0 {
		t.Vocabulary.MetricUnits = def.MetricUnits
	}

	if err := t.init(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadOrDefault loads path when set, otherwise returns Default().
func LoadOrDefault(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
