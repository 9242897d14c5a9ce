package config

import (
	"reflect"
	"testing"
)

func TestLoadVocabulary(t *testing.T) {
	path := writeFile(t, t.TempDir(), "keys.toml", `
keys = ["Base Game"]

[[group]]
name = "features"
keys = ["Free Spins", "Base Game"]

[[group]]
name = "bonus"
keys = ["Bonus Wheel"]
`)

	v, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Groups) != 2 || v.Groups[1].Name != "bonus" {
		t.Errorf("groups = %+v", v.Groups)
	}
	want := []string{"Base Game", "Free Spins", "Bonus Wheel"}
	if got := v.AllKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllKeys = %q, want %q", got, want)
	}
}

func TestLoadVocabulary_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"missing file", dir + "/missing.toml"},
		{"invalid toml", writeFile(t, dir, "bad.toml", `keys = [`)},
		{"unknown field", writeFile(t, dir, "unknown.toml", `names = ["Foo"]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadVocabulary(tt.path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
