// Package config loads the provider settings once at startup from the
// environment, .env files and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/leandrosilvaferreira/gitai/internal/errs"
	"github.com/leandrosilvaferreira/gitai/internal/llm"
	"github.com/leandrosilvaferreira/gitai/internal/stringsutil"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "GITAI"
	DotEnvFileName = ".env"
)

// Setting keys.
const (
	KeyProvider       = "provider"
	KeyModel          = "model"
	KeyAPIKey         = "api_key"
	KeyLanguage       = "language"
	KeyAPIBase        = "api_base"
	KeyPromptTemplate = "prompt_template"
	KeySignature      = "signature"
)

var allKeys = []string{
	KeyProvider, KeyModel, KeyAPIKey, KeyLanguage,
	KeyAPIBase, KeyPromptTemplate, KeySignature,
}

var requiredKeys = []string{KeyProvider, KeyModel, KeyAPIKey, KeyLanguage}

// Config is the effective configuration. It is built once and not mutated.
type Config struct {
	Provider       string
	Model          string
	APIKey         string
	Language       string
	APIBase        string
	PromptTemplate string
	Signature      bool

	// EnvFile is the .env file the user is pointed at in error messages.
	EnvFile string
	// LoadedFiles lists the .env files that were read, in load order.
	LoadedFiles []string
	// ConfigFile is the YAML file that was read, if any.
	ConfigFile string
}

// Options controls where Load looks for settings.
type Options struct {
	EnvFile       string // explicit .env file; must exist when set
	ConfigFile    string // optional YAML file
	ProjectDir    string // <ProjectDir>/.env is read last
	ExecutableDir string // empty resolves the running binary's directory
}

// Setting is one displayable configuration entry.
type Setting struct {
	Key    string
	EnvVar string
	Value  string
}

// EnvVarName returns the unprefixed variable name for a key, e.g. API_KEY.
func EnvVarName(key string) string {
	return strings.ToUpper(key)
}

// Load reads .env files without overriding variables already present, then
// resolves every key from GITAI_<KEY>, <KEY> and the YAML file, in that
// order of precedence. Missing mandatory values or an unsupported provider
// return a *errs.ConfigError.
func Load(opts Options) (*Config, error) {
	cfg := &Config{}

	candidates, err := dotEnvCandidates(opts)
	if err != nil {
		return nil, err
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		cfg.LoadedFiles = append(cfg.LoadedFiles, path)
	}

	switch {
	case opts.EnvFile != "":
		cfg.EnvFile = opts.EnvFile
	case len(cfg.LoadedFiles) > 0:
		cfg.EnvFile = cfg.LoadedFiles[0]
	case len(candidates) > 0:
		cfg.EnvFile = candidates[0]
	}

	v, err := newViper(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	cfg.Provider = strings.ToLower(strings.TrimSpace(v.GetString(KeyProvider)))
	cfg.Model = strings.TrimSpace(v.GetString(KeyModel))
	cfg.APIKey = strings.TrimSpace(v.GetString(KeyAPIKey))
	cfg.Language = strings.TrimSpace(v.GetString(KeyLanguage))
	cfg.APIBase = strings.TrimSpace(v.GetString(KeyAPIBase))
	cfg.PromptTemplate = strings.TrimSpace(v.GetString(KeyPromptTemplate))
	cfg.Signature = v.GetBool(KeySignature)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeySignature, true)

	for _, key := range allKeys {
		if err := v.BindEnv(key, EnvPrefix+"_"+EnvVarName(key), EnvVarName(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}
	return v, nil
}

// dotEnvCandidates lists .env files in load order. An explicit file that
// does not exist is an error; the implicit locations are optional.
func dotEnvCandidates(opts Options) ([]string, error) {
	var paths []string
	if opts.EnvFile != "" {
		if _, err := os.Stat(opts.EnvFile); err != nil {
			return nil, &errs.ConfigError{Key: "--env-file", Reason: fmt.Sprintf("cannot read %s: %v", opts.EnvFile, err)}
		}
		paths = append(paths, opts.EnvFile)
	}

	exeDir := opts.ExecutableDir
	if exeDir == "" {
		exeDir = executableDir()
	}
	if exeDir != "" {
		paths = append(paths, filepath.Join(exeDir, DotEnvFileName))
	}
	if opts.ProjectDir != "" {
		paths = append(paths, filepath.Join(opts.ProjectDir, DotEnvFileName))
	}
	return dedupe(paths), nil
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		key := p
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Validate checks mandatory settings and the provider name.
func (c *Config) Validate() error {
	values := map[string]string{
		KeyProvider: c.Provider,
		KeyModel:    c.Model,
		KeyAPIKey:   c.APIKey,
		KeyLanguage: c.Language,
	}
	for _, key := range requiredKeys {
		if values[key] == "" {
			return errs.NewMissingSetting(EnvVarName(key), c.EnvFile)
		}
	}

	if _, err := llm.ParseProvider(c.Provider); err != nil {
		var cfgErr *errs.ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Source = c.EnvFile
		}
		return err
	}
	return nil
}

// LLMOptions maps the configuration onto provider options.
func (c *Config) LLMOptions() llm.Options {
	return llm.Options{
		Provider: c.Provider,
		Model:    c.Model,
		APIKey:   c.APIKey,
		APIBase:  c.APIBase,
	}
}

// Settings returns every entry for display, with the API key masked.
func (c *Config) Settings() []Setting {
	values := map[string]string{
		KeyProvider:       c.Provider,
		KeyModel:          c.Model,
		KeyAPIKey:         stringsutil.MaskSecret(c.APIKey),
		KeyLanguage:       c.Language,
		KeyAPIBase:        c.APIBase,
		KeyPromptTemplate: c.PromptTemplate,
		KeySignature:      fmt.Sprintf("%t", c.Signature),
	}

	settings := make([]Setting, 0, len(allKeys))
	for _, key := range allKeys {
		settings = append(settings, Setting{Key: key, EnvVar: EnvVarName(key), Value: values[key]})
	}
	return settings
}
