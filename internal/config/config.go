// Package config resolves project-level settings from .rlm/config.toml via
// viper, scoped to the project root rather than $HOME and written in TOML
// per this project's external-interface contract.
package config

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/viper"
)

const (
	rlmDirName       = ".rlm"
	dbFileName       = "index.db"
	configFileName   = "config.toml"
	qualityLogName   = "quality-issues.log"
)

// IndexingSettings controls what the scanner walks and how the indexer
// treats unchanged files.
type IndexingSettings struct {
	ExcludePatterns []string `mapstructure:"exclude_patterns"`
	MaxFileSizeMB   int      `mapstructure:"max_file_size_mb"`
	Incremental     bool     `mapstructure:"incremental"`
}

// OutputSettings controls how query results are serialized.
type OutputSettings struct {
	Format        string `mapstructure:"format"` // "minified" | "pretty" | "jsonl"
	IncludeTokens bool   `mapstructure:"include_tokens"`
}

// QualitySettings controls the append-only parse-quality log.
type QualitySettings struct {
	LogAllIssues bool   `mapstructure:"log_all_issues"`
	LogFile      string `mapstructure:"log_file"`
}

// LanguageSettings lets a project override extension-to-language mapping.
type LanguageSettings struct {
	CustomMappings map[string]string `mapstructure:"custom_mappings"`
}

// UserSettings is the full shape of .rlm/config.toml.
type UserSettings struct {
	Indexing  IndexingSettings  `mapstructure:"indexing"`
	Output    OutputSettings    `mapstructure:"output"`
	Quality   QualitySettings   `mapstructure:"quality"`
	Languages LanguageSettings  `mapstructure:"languages"`
}

// DefaultSettings returns the settings applied when .rlm/config.toml is
// absent or fails to parse.
func DefaultSettings() UserSettings {
	return UserSettings{
		Indexing: IndexingSettings{
			ExcludePatterns: []string{
				"node_modules/", ".git/", "target/", "dist/",
				"__pycache__/", ".venv/", "vendor/",
			},
			MaxFileSizeMB: 10,
			Incremental:   true,
		},
		Output: OutputSettings{
			Format:        "minified",
			IncludeTokens: true,
		},
		Quality: QualitySettings{
			LogAllIssues: false,
		},
		Languages: LanguageSettings{
			CustomMappings: map[string]string{},
		},
	}
}

// Config resolves project-root-relative paths and loaded settings.
type Config struct {
	ProjectRoot    string
	RlmDir         string
	DBPath         string
	ConfigPath     string
	QualityLogPath string
	Settings       UserSettings

	excludeMatchers []glob.Glob
}

// New builds a Config for projectRoot, loading .rlm/config.toml if present.
// Malformed or missing config falls back silently to defaults, matching the
// original implementation's Config::new.
func New(projectRoot string) *Config {
	rlmDir := filepath.Join(projectRoot, rlmDirName)
	cfg := &Config{
		ProjectRoot:    projectRoot,
		RlmDir:         rlmDir,
		DBPath:         filepath.Join(rlmDir, dbFileName),
		ConfigPath:     filepath.Join(rlmDir, configFileName),
		QualityLogPath: filepath.Join(rlmDir, qualityLogName),
		Settings:       loadSettings(filepath.Join(rlmDir, configFileName)),
	}
	cfg.compileExcludeMatchers()
	return cfg
}

// FromCwd builds a Config rooted at the current working directory.
func FromCwd() (*Config, error) {
	cwd, err := osGetwd()
	if err != nil {
		return nil, err
	}
	return New(cwd), nil
}

func loadSettings(configPath string) UserSettings {
	defaults := DefaultSettings()

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return defaults
	}

	settings := defaults
	if err := v.Unmarshal(&settings); err != nil {
		return defaults
	}
	return settings
}

// SaveSettings writes the current settings back to .rlm/config.toml.
func (c *Config) SaveSettings() error {
	if err := c.EnsureRlmDir(); err != nil {
		return err
	}
	v := viper.New()
	v.SetConfigFile(c.ConfigPath)
	v.SetConfigType("toml")
	v.Set("indexing.exclude_patterns", c.Settings.Indexing.ExcludePatterns)
	v.Set("indexing.max_file_size_mb", c.Settings.Indexing.MaxFileSizeMB)
	v.Set("indexing.incremental", c.Settings.Indexing.Incremental)
	v.Set("output.format", c.Settings.Output.Format)
	v.Set("output.include_tokens", c.Settings.Output.IncludeTokens)
	v.Set("quality.log_all_issues", c.Settings.Quality.LogAllIssues)
	v.Set("quality.log_file", c.Settings.Quality.LogFile)
	v.Set("languages.custom_mappings", c.Settings.Languages.CustomMappings)
	return v.WriteConfigAs(c.ConfigPath)
}

// EnsureRlmDir creates the .rlm/ directory if it does not already exist.
func (c *Config) EnsureRlmDir() error {
	return osMkdirAll(c.RlmDir)
}

// IndexExists reports whether the index database file is present.
func (c *Config) IndexExists() bool {
	return osFileExists(c.DBPath)
}

// RelativePath converts an absolute path under ProjectRoot to a
// forward-slash-normalized project-relative path.
func (c *Config) RelativePath(abs string) string {
	rel, err := filepath.Rel(c.ProjectRoot, abs)
	if err != nil {
		rel = abs
	}
	return strings.ReplaceAll(rel, "\\", "/")
}

func (c *Config) compileExcludeMatchers() {
	c.excludeMatchers = c.excludeMatchers[:0]
	for _, pattern := range c.Settings.Indexing.ExcludePatterns {
		trimmed := strings.TrimSuffix(pattern, "/")
		g, err := glob.Compile("*" + trimmed + "*")
		if err != nil {
			continue
		}
		c.excludeMatchers = append(c.excludeMatchers, g)
	}
}

// ShouldExclude reports whether relPath matches any configured exclude
// pattern.
func (c *Config) ShouldExclude(relPath string) bool {
	for _, m := range c.excludeMatchers {
		if m.Match(relPath) {
			return true
		}
	}
	return false
}

// IsFileTooLarge reports whether sizeBytes exceeds the configured max file size.
func (c *Config) IsFileTooLarge(sizeBytes int64) bool {
	maxBytes := int64(c.Settings.Indexing.MaxFileSizeMB) * 1024 * 1024
	return sizeBytes > maxBytes
}

// GetQualityLogPath returns the effective quality log path, honoring a
// custom override relative to .rlm/.
func (c *Config) GetQualityLogPath() string {
	if c.Settings.Quality.LogFile != "" {
		return filepath.Join(c.RlmDir, c.Settings.Quality.LogFile)
	}
	return c.QualityLogPath
}
