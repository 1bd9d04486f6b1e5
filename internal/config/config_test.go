package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoE2E-DocResolver/internal/config"
	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

var _ = Describe("Config", func() {
	Describe("Load", func() {
		It("should load minimal config over defaults", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "minimal.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).ToNot(BeNil())
			Expect(cfg.Input.Directories).To(ContainElement("docs"))
			Expect(cfg.Output.Path).To(Equal("out/resolved.json"))
			Expect(cfg.Output.Format).To(Equal("json"))
			Expect(cfg.DetectSteps).To(BeTrue())
			Expect(cfg.FileTypes).To(HaveLen(3))
		})

		It("should load full config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Input.Directories).To(HaveLen(3))
			Expect(cfg.Input.Exclude).To(ContainElement("drafts/**"))
			Expect(cfg.IsRecursive()).To(BeFalse())
			Expect(cfg.DetectSteps).To(BeFalse())
			Expect(cfg.Origin).To(Equal("https://staging.example.com"))
			Expect(cfg.Output.Format).To(Equal("summary"))
			Expect(cfg.Logging.Level).To(Equal("debug"))
		})

		It("should decode run targets written in short form", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.RunOn).To(HaveLen(1))
			Expect(cfg.RunOn[0].Platforms).To(Equal(domain.StringList{"linux", "mac"}))
			Expect(cfg.RunOn[0].Browsers).To(HaveLen(2))
			Expect(cfg.RunOn[0].Browsers[1].Name).To(Equal("safari"))
		})

		It("should replace the default catalog with configured file types", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.FileTypes).To(HaveLen(1))
			ft := cfg.FileTypes[0]
			Expect(ft.Name).To(Equal("text"))
			Expect(ft.Boundaries.Step).To(HaveLen(1))
			Expect(ft.Markup).To(HaveLen(2))
			Expect(ft.Markup[1].Actions[0]).To(HaveKey("httpRequest"))
		})

		It("should load external docs", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Integrations.OpenAPI).To(HaveLen(1))
			Expect(cfg.Integrations.OpenAPI[0].Name).To(Equal("petstore"))
			Expect(cfg.Integrations.OpenAPI[0].DescriptionPath).To(Equal("../openapi/petstore.yaml"))
		})

		It("should keep inline definitions and step templates JSON-encodable", func() {
			tmpFile := filepath.Join(GinkgoT().TempDir(), "docresolver.yaml")
			err := os.WriteFile(tmpFile, []byte(`input:
  directories: [docs]
integrations:
  openapi:
    - name: inline
      definition:
        openapi: 3.0.3
        paths:
          /pets:
            get:
              responses:
                200:
                  description: ok
file_types:
  - name: text
    extensions: [".txt"]
    markup:
      - name: ping
        patterns: ['ping (\S+)']
        actions:
          - httpRequest:
              url: $1
              statusCodes:
                200: true
`), 0644)
			Expect(err).ToNot(HaveOccurred())

			cfg, err := config.Load(tmpFile)
			Expect(err).ToNot(HaveOccurred())

			data, err := json.Marshal(cfg)
			Expect(err).ToNot(HaveOccurred())

			var out map[string]any
			Expect(json.Unmarshal(data, &out)).To(Succeed())
			def := cfg.Integrations.OpenAPI[0].Definition
			responses := def["paths"].(map[string]any)["/pets"].(map[string]any)["get"].(map[string]any)["responses"]
			Expect(responses).To(HaveKey("200"))

			action := cfg.FileTypes[0].Markup[0].Actions[0].(map[string]any)
			Expect(action["httpRequest"].(map[string]any)["statusCodes"]).To(HaveKey("200"))
		})

		It("should return error for nonexistent file", func() {
			_, err := config.Load("nonexistent.yaml")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid YAML", func() {
			tmpFile := filepath.Join(GinkgoT().TempDir(), "invalid_docresolver.yaml")
			err := os.WriteFile(tmpFile, []byte("{{invalid yaml}}"), 0644)
			Expect(err).ToNot(HaveOccurred())

			_, loadErr := config.Load(tmpFile)
			Expect(loadErr).To(HaveOccurred())
		})
	})

	Describe("DefaultConfig", func() {
		It("should return config with sensible defaults", func() {
			cfg := config.DefaultConfig()
			Expect(cfg.Input.Directories).To(ContainElement("docs"))
			Expect(cfg.IsRecursive()).To(BeTrue())
			Expect(cfg.Input.SpecExtensions).To(ContainElements(".json", ".yaml", ".yml"))
			Expect(cfg.Output.Path).To(Equal("resolved-tests.json"))
			Expect(cfg.Logging.Level).To(Equal("info"))
		})

		It("should ship markdown, asciidoc and html catalogs", func() {
			var names []string
			for _, ft := range config.DefaultConfig().FileTypes {
				names = append(names, ft.Name)
			}
			Expect(names).To(ConsistOf("markdown", "asciidoc", "html"))
		})

		It("should have compilable default patterns", func() {
			Expect(config.Validate(config.DefaultConfig())).To(Succeed())
		})
	})

	Describe("Validate", func() {
		It("should pass for valid config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(config.Validate(cfg)).To(Succeed())
		})

		It("should fail if directories are empty", func() {
			cfg := config.DefaultConfig()
			cfg.Input.Directories = nil
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("input.directories"))
		})

		It("should fail for an uncompilable pattern", func() {
			cfg := config.DefaultConfig()
			cfg.FileTypes[0].Boundaries.Step = append(cfg.FileTypes[0].Boundaries.Step, "[unclosed")
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("boundary_patterns.step"))
		})

		It("should fail for a markup rule without actions", func() {
			cfg := config.DefaultConfig()
			cfg.FileTypes[0].Markup[0].Actions = nil
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("actions must not be empty"))
		})

		It("should fail when two catalogs claim the same extension", func() {
			cfg := config.DefaultConfig()
			cfg.FileTypes[2].Extensions = append(cfg.FileTypes[2].Extensions, ".md")
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("already claimed"))
		})

		It("should fail for duplicate external doc names", func() {
			cfg := config.DefaultConfig()
			cfg.Integrations.OpenAPI = []domain.ExternalDoc{{Name: "api"}, {Name: "api"}}
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("duplicate name"))
		})

		It("should fail for unknown output format", func() {
			cfg := config.DefaultConfig()
			cfg.Output.Format = "xml"
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("output.format"))
		})

		It("should fail for invalid log level", func() {
			cfg := config.DefaultConfig()
			cfg.Logging.Level = "verbose"
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logging.level"))
		})
	})
})
