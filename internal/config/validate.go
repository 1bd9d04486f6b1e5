package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	// Input validation
	if len(cfg.Input.Directories) == 0 {
		errs = append(errs, "input.directories must not be empty")
	}

	// Catalog validation
	if len(cfg.FileTypes) == 0 {
		errs = append(errs, "file_types must not be empty")
	}
	seenExt := make(map[string]string)
	for i, ft := range cfg.FileTypes {
		prefix := fmt.Sprintf("file_types[%d]", i)
		if ft.Name == "" {
			errs = append(errs, prefix+".name must not be empty")
		} else {
			prefix = fmt.Sprintf("file_types[%s]", ft.Name)
		}
		if len(ft.Extensions) == 0 {
			errs = append(errs, prefix+".extensions must not be empty")
		}
		for _, ext := range ft.Extensions {
			key := strings.ToLower(strings.TrimPrefix(ext, "."))
			if owner, dup := seenExt[key]; dup {
				errs = append(errs, fmt.Sprintf("%s.extensions: %q already claimed by %s", prefix, ext, owner))
			}
			seenExt[key] = prefix
		}
		errs = append(errs, validatePatterns(prefix+".boundary_patterns.test_start", ft.Boundaries.TestStart)...)
		errs = append(errs, validatePatterns(prefix+".boundary_patterns.test_end", ft.Boundaries.TestEnd)...)
		errs = append(errs, validatePatterns(prefix+".boundary_patterns.ignore_start", ft.Boundaries.IgnoreStart)...)
		errs = append(errs, validatePatterns(prefix+".boundary_patterns.ignore_end", ft.Boundaries.IgnoreEnd)...)
		errs = append(errs, validatePatterns(prefix+".boundary_patterns.step", ft.Boundaries.Step)...)
		for _, rule := range ft.Markup {
			rulePrefix := fmt.Sprintf("%s.markup[%s]", prefix, rule.Name)
			if len(rule.Actions) == 0 {
				errs = append(errs, rulePrefix+".actions must not be empty")
			}
			for _, a := range rule.Actions {
				switch a.(type) {
				case string, map[string]any:
				default:
					errs = append(errs, fmt.Sprintf("%s.actions: unsupported action %v (want a name or a step template)", rulePrefix, a))
				}
			}
			errs = append(errs, validatePatterns(rulePrefix+".patterns", rule.Patterns)...)
		}
	}

	// External docs must be addressable by name
	seenDoc := make(map[string]bool)
	for i, doc := range cfg.Integrations.OpenAPI {
		if doc.Name == "" {
			errs = append(errs, fmt.Sprintf("integrations.openapi[%d].name must not be empty", i))
			continue
		}
		if seenDoc[doc.Name] {
			errs = append(errs, fmt.Sprintf("integrations.openapi: duplicate name %q", doc.Name))
		}
		seenDoc[doc.Name] = true
	}

	// Output validation
	if cfg.Output.Path == "" {
		errs = append(errs, "output.path must not be empty")
	}
	switch cfg.Output.Format {
	case "json", "summary":
	default:
		errs = append(errs, fmt.Sprintf("output.format must be one of: json, summary (got %q)", cfg.Output.Format))
	}

	// Validate logging level
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}

func validatePatterns(field string, patterns []string) []string {
	var errs []string
	for _, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %q is not a valid regex: %v", field, p, err))
		}
	}
	return errs
}
