package highlight

import (
	"regexp"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kobzarvs/codepad/internal/config"
	"github.com/kobzarvs/codepad/internal/logger"
)

// PatternSet is the compiled form of a language definition. Patterns that
// failed to compile are nil (or absent from the slices) and simply not used.
type PatternSet struct {
	Name         string
	LineComment  *regexp.Regexp
	BlockComment *regexp.Regexp
	Strings      []*regexp.Regexp
	Number       *regexp.Regexp
	Function     *regexp.Regexp
	Keywords     []*regexp.Regexp
	Builtins     []*regexp.Regexp

	// Omitted counts patterns dropped because they did not compile.
	Omitted int
}

// Compile builds a PatternSet from lang. It never fails.
func Compile(lang config.Language) *PatternSet {
	ps := &PatternSet{Name: lang.Name}
	ps.LineComment = ps.compile("line-comment", lang.LineComment)
	ps.BlockComment = ps.compile("block-comment", lang.BlockComment)
	ps.Number = ps.compile("number", lang.Number)
	ps.Function = ps.compile("function", lang.Function)
	for _, p := range lang.Strings {
		if re := ps.compile("string", p); re != nil {
			ps.Strings = append(ps.Strings, re)
		}
	}
	ps.Keywords = ps.compileWords("keyword", lang.Keywords)
	ps.Builtins = ps.compileWords("builtin", lang.Builtins)
	return ps
}

func (ps *PatternSet) compile(what, pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		ps.Omitted++
		logger.Warn("pattern omitted", "language", ps.Name, "kind", what, "pattern", pattern, "error", err)
		return nil
	}
	return re
}

// compileWords builds one word-boundary anchored pattern per word.
func (ps *PatternSet) compileWords(what string, words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if re := ps.compile(what, `\b`+regexp.QuoteMeta(w)+`\b`); re != nil {
			out = append(out, re)
		}
	}
	return out
}

// Registry keeps compiled pattern sets so a language is compiled once per
// selection and shared by every highlight pass.
type Registry struct {
	cache *gocache.Cache
}

func NewRegistry() *Registry {
	return &Registry{cache: gocache.New(gocache.NoExpiration, 0)}
}

func registryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Get returns the cached set for lang.Name, compiling it on first use.
func (r *Registry) Get(lang config.Language) *PatternSet {
	key := registryKey(lang.Name)
	if v, ok := r.cache.Get(key); ok {
		if ps, ok := v.(*PatternSet); ok {
			return ps
		}
		logger.Warn("wrong type in pattern registry", "key", key)
	}
	ps := Compile(lang)
	r.cache.Set(key, ps, gocache.NoExpiration)
	return ps
}

// Invalidate drops the cached set for name, e.g. after languages.toml changed.
func (r *Registry) Invalidate(name string) {
	r.cache.Delete(registryKey(name))
}

func (r *Registry) Len() int {
	return r.cache.ItemCount()
}
