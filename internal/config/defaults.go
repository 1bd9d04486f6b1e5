package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	return &Config{
		Input: InputConfig{
			Directories:    []string{"docs"},
			Exclude:        []string{"vendor/**", "node_modules/**"},
			Recursive:      &recursive,
			SpecExtensions: []string{".json", ".yaml", ".yml"},
		},
		DetectSteps: true,
		FileTypes:   DefaultFileTypes(),
		Output: OutputConfig{
			Path:            "resolved-tests.json",
			Format:          "json",
			DefaultTemplate: "summary",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		DryRun: false,
	}
}
