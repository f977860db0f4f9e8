package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Language is the static data the highlighter consumes for one language.
// Every pattern is a Go regexp; an empty pattern means "not defined".
type Language struct {
	Name         string   `toml:"name"`
	FileTypes    []string `toml:"file-types"`
	Keywords     []string `toml:"keywords"`
	Builtins     []string `toml:"builtins"`
	LineComment  string   `toml:"line-comment"`
	BlockComment string   `toml:"block-comment"`
	Strings      []string `toml:"strings"`
	Number       string   `toml:"number"`
	Function     string   `toml:"function"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || ftLower == baseLower {
				return lang
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return lang
			}
		}
	}
	return nil
}

// Lookup finds a language by name, case-insensitively.
func (l Languages) Lookup(name string) *Language {
	name = strings.TrimSpace(name)
	for i := range l.Languages {
		if strings.EqualFold(l.Languages[i].Name, name) {
			return &l.Languages[i]
		}
	}
	return nil
}

// merge replaces languages with the same name and appends new ones.
func (l Languages) merge(user Languages) Languages {
	out := Languages{Languages: append([]Language(nil), l.Languages...)}
	for _, lang := range user.Languages {
		if existing := out.Lookup(lang.Name); existing != nil {
			*existing = lang
			continue
		}
		out.Languages = append(out.Languages, lang)
	}
	return out
}

// LoadLanguages returns the built-in languages overlaid with the user's
// languages.toml, if any.
func LoadLanguages() (Languages, error) {
	builtin := BuiltinLanguages()
	path, err := LanguagesPath()
	if err != nil {
		return builtin, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return builtin, nil
		}
		return builtin, err
	}

	var cfg Languages
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return builtin, fmt.Errorf("parse %s: %w", path, err)
	}
	return builtin.merge(cfg), nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
