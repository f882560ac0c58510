package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"rpytl/internal/charset"
)

// Write modes for generated stub files.
const (
	ModeAppend    = "append"
	ModeOverwrite = "overwrite"
)

// Writer format names.
const (
	FormatRenpy = "renpy"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// Config is the full extraction configuration, loaded from a JSON file
// with environment overrides layered on top.
type Config struct {
	GameDir          string   `json:"game_dir"`
	TranslationDir   string   `json:"translation_dir"`
	Locale           string   `json:"locale"`
	FilePatterns     []string `json:"file_patterns"`
	Recursive        bool     `json:"recursive"`
	SkipTranslated   bool     `json:"skip_translated"`
	WriteMode        string   `json:"write_mode"`
	WriterFormat     string   `json:"writer_format"`
	Encoding         string   `json:"encoding"`
	Extractors       []string `json:"extractors"`
	Validators       []string `json:"validators"`
	PersonNameWriter bool     `json:"person_name_writer"`
	RulesDir         string   `json:"rules_dir"`
}

// Default returns the configuration used when no file or flag overrides it.
// An empty Extractors list means every registered rule in default order.
func Default() *Config {
	return &Config{
		GameDir:        ".",
		TranslationDir: filepath.Join("game", "tl", "schinese"),
		Locale:         "schinese",
		FilePatterns:   []string{"*.rpy"},
		Recursive:      true,
		SkipTranslated: true,
		WriteMode:      ModeAppend,
		WriterFormat:   FormatRenpy,
		Encoding:       "utf-8",
		Validators: []string{
			"non_empty",
			"no_invalid_chars",
			"string_consistency",
			"no_underscore",
			"no_image_refs",
			"global_deduplicate",
		},
		RulesDir: "configs",
	}
}

// Load reads the JSON config at path over the defaults, then applies
// environment overrides. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		log.Debug().Str("path", path).Msg("no config file, using defaults")
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}
	cfg.Locale = getEnv("RPYTL_LOCALE", cfg.Locale)
	cfg.Encoding = getEnv("RPYTL_ENCODING", cfg.Encoding)
	cfg.RulesDir = getEnv("RPYTL_RULES_DIR", cfg.RulesDir)
	cfg.Recursive = getEnvBool("RPYTL_RECURSIVE", cfg.Recursive)
	cfg.SkipTranslated = getEnvBool("RPYTL_SKIP_TRANSLATED", cfg.SkipTranslated)

	return cfg, nil
}

// Save writes the config as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks the fields that later stages depend on.
func (c *Config) Validate() error {
	if c.WriteMode != ModeAppend && c.WriteMode != ModeOverwrite {
		return fmt.Errorf("invalid write_mode %q", c.WriteMode)
	}
	switch c.WriterFormat {
	case FormatRenpy, FormatJSON, FormatCSV:
	default:
		return fmt.Errorf("invalid writer_format %q", c.WriterFormat)
	}
	if !charset.Supported(c.Encoding) {
		return fmt.Errorf("unsupported encoding %q", c.Encoding)
	}
	if len(c.FilePatterns) == 0 {
		return fmt.Errorf("file_patterns must not be empty")
	}
	return nil
}

// SourceRoot is the script directory scanned for input files.
func (c *Config) SourceRoot() string {
	return filepath.Join(c.GameDir, "game")
}

// TranslationRoot is the directory generated stub files are written under.
func (c *Config) TranslationRoot() string {
	return filepath.Join(c.GameDir, c.TranslationDir)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "1" || v == "true" || v == "yes"
}

// sortedEnabled returns the keys of m mapped to true, sorted for
// deterministic rule ordering.
func sortedEnabled(m map[string]bool) []string {
	var out []string
	for k, v := range m {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
