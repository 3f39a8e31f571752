package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/regram/internal/regexast"
	"github.com/roach88/regram/internal/render"
	"github.com/roach88/regram/internal/translate"
)

// Config is the full set of user-tunable settings.
type Config struct {
	GramLength   int    `yaml:"gram_length" json:"gram_length"`
	Dialect      string `yaml:"dialect" json:"dialect"`
	MaxExact     int    `yaml:"max_exact" json:"max_exact"`
	MaxClassSize int    `yaml:"max_class_size" json:"max_class_size"`
	MaxRepeat    int    `yaml:"max_repeat" json:"max_repeat"`
	MaxExpansion int    `yaml:"max_expansion" json:"max_expansion"`
	MaxClauses   int    `yaml:"max_clauses" json:"max_clauses"`
	Normalize    bool   `yaml:"normalize" json:"normalize"`
	Field        string `yaml:"field" json:"field"`
	MatchAll     string `yaml:"match_all" json:"match_all"`
}

// Default returns the built-in settings.
func Default() Config {
	tc := translate.DefaultConfig()
	ro := render.DefaultOptions()
	return Config{
		GramLength:   tc.GramLength,
		Dialect:      string(tc.Dialect),
		MaxExact:     tc.MaxExact,
		MaxClassSize: tc.MaxClassSize,
		MaxRepeat:    tc.MaxRepeat,
		MaxExpansion: tc.MaxExpansion,
		MaxClauses:   tc.MaxClauses,
		Normalize:    tc.Normalize,
		Field:        ro.Field,
		MatchAll:     ro.MatchAll,
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys
// are rejected. An empty document yields the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Translate returns the translator settings.
func (c Config) Translate() translate.Config {
	return translate.Config{
		GramLength:   c.GramLength,
		Dialect:      regexast.Dialect(c.Dialect),
		MaxExact:     c.MaxExact,
		MaxClassSize: c.MaxClassSize,
		MaxRepeat:    c.MaxRepeat,
		MaxExpansion: c.MaxExpansion,
		MaxClauses:   c.MaxClauses,
		Normalize:    c.Normalize,
	}
}

// Render returns the index query rendering options.
func (c Config) Render() render.Options {
	return render.Options{Field: c.Field, MatchAll: c.MatchAll}
}
