package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Vocabulary is a TOML file listing section keys:
//
//	keys = ["Base Game", "Free Spins"]
//
//	[[group]]
//	name = "bonus"
//	keys = ["Bonus Wheel", "Pick Feature"]
//
// Top-level keys come first, then each group's keys in file order.
type Vocabulary struct {
	Keys   []string          `toml:"keys"`
	Groups []VocabularyGroup `toml:"group"`
}

// VocabularyGroup is a named list of keys.
type VocabularyGroup struct {
	Name string   `toml:"name"`
	Keys []string `toml:"keys"`
}

// LoadVocabulary decodes a vocabulary file.
func LoadVocabulary(path string) (*Vocabulary, error) {
	path = os.ExpandEnv(path)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("vocabulary file %s: %w", path, err)
	}

	var v Vocabulary
	meta, err := toml.DecodeFile(path, &v)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("vocabulary %s: unknown field %q", path, undecoded[0].String())
	}
	return &v, nil
}

// AllKeys returns the keys in configured order, duplicates removed.
func (v *Vocabulary) AllKeys() []string {
	all := append([]string(nil), v.Keys...)
	for _, g := range v.Groups {
		all = append(all, g.Keys...)
	}
	return MergeKeys(all, nil)
}
