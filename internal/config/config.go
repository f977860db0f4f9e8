package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	TabWidth           int      `toml:"tab-width"`
	LineNumbers        string   `toml:"line-numbers"`
	Throttle           string   `toml:"throttle"`
	MaxHighlightChars  int      `toml:"max-highlight-chars"`
	SyncHighlightLimit int      `toml:"sync-highlight-limit"`
	GutterBuffer       float64  `toml:"gutter-buffer"`
	LineHeight         float64  `toml:"line-height"`
	BracketPairs       []string `toml:"bracket-pairs"`
	Language           string   `toml:"language"`
}

// ThrottleInterval parses Throttle, falling back to the default on error.
func (o EditorOptions) ThrottleInterval() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(o.Throttle))
	if err != nil || d < 0 {
		return DefaultThrottle
	}
	return d
}

type Font struct {
	Family string  `toml:"family"`
	Size   float64 `toml:"size"`
}

// Theme holds the named colors consumed by the editing core, as "#rrggbb"
// strings or tcell color names.
type Theme struct {
	Theme                string `toml:"theme"`
	Background           string `toml:"background"`
	Text                 string `toml:"text"`
	Keyword              string `toml:"keyword"`
	String               string `toml:"string"`
	Comment              string `toml:"comment"`
	Number               string `toml:"number"`
	Function             string `toml:"function"`
	Operator             string `toml:"operator"`
	Type                 string `toml:"type"`
	Property             string `toml:"property"`
	LineNumber           string `toml:"line-number"`
	LineNumberBackground string `toml:"line-number-background"`
	Cursor               string `toml:"cursor"`
	Selection            string `toml:"selection"`
	CurrentLine          string `toml:"current-line"`
	BracketMatch         string `toml:"bracket-match"`
	MinimapBackground    string `toml:"minimap-background"`
	IndentGuide          string `toml:"indent-guide"`
	Error                string `toml:"error"`
	Warning              string `toml:"warning"`
}

// colors lists the color fields in declaration order. Theme is excluded.
func (t *Theme) colors() []*string {
	return []*string{
		&t.Background, &t.Text, &t.Keyword, &t.String, &t.Comment,
		&t.Number, &t.Function, &t.Operator, &t.Type, &t.Property,
		&t.LineNumber, &t.LineNumberBackground, &t.Cursor, &t.Selection,
		&t.CurrentLine, &t.BracketMatch, &t.MinimapBackground,
		&t.IndentGuide, &t.Error, &t.Warning,
	}
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Font   Font          `toml:"font"`
	Theme  Theme         `toml:"theme"`
}

const (
	DefaultThrottle           = 16 * time.Millisecond
	DefaultMaxHighlightChars  = 150_000
	DefaultSyncHighlightLimit = 4096
)

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:           4,
			LineNumbers:        "absolute",
			Throttle:           DefaultThrottle.String(),
			MaxHighlightChars:  DefaultMaxHighlightChars,
			SyncHighlightLimit: DefaultSyncHighlightLimit,
			GutterBuffer:       100,
			LineHeight:         20,
			BracketPairs:       []string{"()", "[]", "{}"},
		},
		Font: Font{
			Family: "Menlo",
			Size:   13,
		},
		Theme: Theme{
			Background:           "#0A0E14",
			Text:                 "#B3B1AD",
			Keyword:              "#FFA759",
			String:               "#BAE67E",
			Comment:              "#5C6773",
			Number:               "#D4BFFF",
			Function:             "#FFD173",
			Operator:             "#F29668",
			Type:                 "#5CCFE6",
			Property:             "#E6B673",
			LineNumber:           "#3E4B59",
			LineNumberBackground: "#0A0E14",
			Cursor:               "#E6B450",
			Selection:            "#27425A",
			CurrentLine:          "#0F1419",
			BracketMatch:         "#3D4A5C",
			MinimapBackground:    "#0F1419",
			IndentGuide:          "#1C232B",
			Error:                "#FF3333",
			Warning:              "#FFB454",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.LineNumbers != "" {
		cfg.Editor.LineNumbers = userCfg.Editor.LineNumbers
	}
	if userCfg.Editor.Throttle != "" {
		cfg.Editor.Throttle = userCfg.Editor.Throttle
	}
	if userCfg.Editor.MaxHighlightChars > 0 {
		cfg.Editor.MaxHighlightChars = userCfg.Editor.MaxHighlightChars
	}
	if userCfg.Editor.SyncHighlightLimit > 0 {
		cfg.Editor.SyncHighlightLimit = userCfg.Editor.SyncHighlightLimit
	}
	if userCfg.Editor.GutterBuffer > 0 {
		cfg.Editor.GutterBuffer = userCfg.Editor.GutterBuffer
	}
	if userCfg.Editor.LineHeight > 0 {
		cfg.Editor.LineHeight = userCfg.Editor.LineHeight
	}
	if len(userCfg.Editor.BracketPairs) > 0 {
		cfg.Editor.BracketPairs = userCfg.Editor.BracketPairs
	}
	if userCfg.Editor.Language != "" {
		cfg.Editor.Language = userCfg.Editor.Language
	}
	if userCfg.Font.Family != "" {
		cfg.Font.Family = userCfg.Font.Family
	}
	if userCfg.Font.Size > 0 {
		cfg.Font.Size = userCfg.Font.Size
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)

	return cfg, nil
}

// WithTheme returns the theme named name layered over t.
func (t Theme) WithTheme(name string) (Theme, error) {
	loaded, err := LoadTheme(name)
	if err != nil {
		return t, err
	}
	mergeTheme(&t, loaded)
	t.Theme = name
	return t, nil
}

// mergeTheme copies every non-empty color of src into dst.
func mergeTheme(dst *Theme, src Theme) {
	d, s := dst.colors(), src.colors()
	for i := range s {
		if *s[i] != "" {
			*d[i] = *s[i]
		}
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml from the config directory. When no such
// file exists the name is looked up among the chroma styles.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if t, ok := ChromaTheme(name); ok {
				return t, nil
			}
			return Theme{}, fmt.Errorf("theme %q not found", name)
		}
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil && t != (Theme{}) {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("CODEPAD_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "codepad"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "codepad"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
