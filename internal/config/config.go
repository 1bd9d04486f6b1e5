package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	Input        InputConfig        `yaml:"input" json:"input"`
	DetectSteps  bool               `yaml:"detect_steps" json:"detectSteps"`
	Origin       string             `yaml:"origin" json:"origin,omitempty"`
	RunOn        []domain.RunTarget `yaml:"run_on" json:"runOn,omitempty"`
	Integrations IntegrationsConfig `yaml:"integrations" json:"integrations"`
	FileTypes    []domain.FileType  `yaml:"file_types" json:"fileTypes"`
	Output       OutputConfig       `yaml:"output" json:"output"`
	Logging      LoggingConfig      `yaml:"logging" json:"logging"`
	DryRun       bool               `yaml:"dry_run" json:"dryRun"`
}

type InputConfig struct {
	Directories []string `yaml:"directories" json:"directories"`
	Exclude     []string `yaml:"exclude" json:"exclude,omitempty"`
	Recursive   *bool    `yaml:"recursive" json:"recursive,omitempty"` // pointer to distinguish unset from false
	// SpecExtensions are treated as ready-made spec documents instead of prose.
	SpecExtensions []string `yaml:"spec_extensions" json:"specExtensions,omitempty"`
}

type IntegrationsConfig struct {
	OpenAPI []domain.ExternalDoc `yaml:"openapi" json:"openApi,omitempty"`
}

type OutputConfig struct {
	Path            string `yaml:"path" json:"path"`
	Format          string `yaml:"format" json:"format"`
	TemplateDir     string `yaml:"template_dir" json:"templateDir,omitempty"`
	DefaultTemplate string `yaml:"default_template" json:"defaultTemplate,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file,omitempty"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
	}

	return cfg, nil
}

// IsRecursive reports whether input directories are walked recursively.
func (c *Config) IsRecursive() bool {
	if c.Input.Recursive == nil {
		return true
	}
	return *c.Input.Recursive
}
