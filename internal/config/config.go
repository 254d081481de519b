// Package config loads the core's pass-level configuration: which files the
// build has excluded from output (spec §6's "build configuration"), the
// separator used when splicing a pretty-printed suffix into a generated
// name, and which debug-trace flags start enabled. It is grounded on the
// teacher's surge.toml decoding (internal/project/modules.go,
// cmd/surge/project_manifest.go), adapted from a project manifest to a
// monomorphization-pass manifest.
package config

import "github.com/BurntSushi/toml"

// Config is the core's TOML-loadable configuration.
type Config struct {
	Build BuildConfig `toml:"build"`
	Names NameConfig  `toml:"names"`
	Debug DebugConfig `toml:"debug"`
}

// BuildConfig lists files the embedding build has marked for exclusion.
// A generated specialization of a generic definition that comes from one
// of these files is instead reported via diag.KindDroppedDeclaration and
// dropped.
type BuildConfig struct {
	ExcludedFiles []string `toml:"excluded_files"`
}

// NameConfig controls how synthesized names are assembled.
type NameConfig struct {
	// Separator joins a base name and its pretty-printed argument suffix.
	// The spec's examples use "__"; this stays configurable because the
	// teacher's own naming schemes (e.g. __eq__ vs plain __) are not
	// uniform even within one compiler.
	Separator string `toml:"separator"`
}

// DebugConfig lists which of the two named trace flags should start
// enabled (spec §6: "monomorphization" and "data-types-traversal").
type DebugConfig struct {
	Flags []string `toml:"flags"`
}

// Default returns the configuration the core uses when no manifest is
// supplied: no excluded files, the spec's own "__" separator, no tracing.
func Default() Config {
	return Config{Names: NameConfig{Separator: "__"}}
}

// Load decodes a TOML manifest from path, filling in defaults for any
// section the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	if cfg.Names.Separator == "" {
		cfg.Names.Separator = "__"
	}
	_ = meta // decoding metadata is not needed beyond surfacing decode errors
	return cfg, nil
}

// IsExcluded reports whether file is listed in Build.ExcludedFiles.
func (c Config) IsExcluded(file string) bool {
	for _, f := range c.Build.ExcludedFiles {
		if f == file {
			return true
		}
	}
	return false
}

// HasFlag reports whether name is among the debug flags the config starts
// enabled.
func (c Config) HasFlag(name string) bool {
	for _, f := range c.Debug.Flags {
		if f == name {
			return true
		}
	}
	return false
}
