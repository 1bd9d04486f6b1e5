package parser_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoE2E-DocResolver/internal/config"
	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
	"github.com/fjglira/GoE2E-DocResolver/internal/parser"
)

var _ = Describe("Registry", func() {
	It("should register the default catalog by extension", func() {
		r, err := parser.NewRegistryFrom(config.DefaultFileTypes())
		Expect(err).ToNot(HaveOccurred())

		Expect(r.Extensions()).To(ContainElements(".md", ".markdown", ".mdx", ".adoc", ".html"))

		c, err := r.CatalogFor(".MD")
		Expect(err).ToNot(HaveOccurred())
		Expect(c.FileType.Name).To(Equal("markdown"))

		c, err = r.CatalogFor("adoc")
		Expect(err).ToNot(HaveOccurred())
		Expect(c.FileType.Name).To(Equal("asciidoc"))
	})

	It("should report unknown extensions", func() {
		r := parser.NewRegistry()
		_, err := r.CatalogFor(".rst")
		Expect(err).To(MatchError(domain.ErrNoCatalog))
	})

	It("should let a later file type take over an extension", func() {
		r := parser.NewRegistry()
		Expect(r.Register(domain.FileType{Name: "first", Extensions: []string{".doc"}})).To(Succeed())
		Expect(r.Register(domain.FileType{Name: "second", Extensions: []string{".doc"}})).To(Succeed())

		c, err := r.CatalogFor(".doc")
		Expect(err).ToNot(HaveOccurred())
		Expect(c.FileType.Name).To(Equal("second"))
	})

	It("should refuse file types with invalid patterns", func() {
		_, err := parser.NewRegistryFrom([]domain.FileType{{
			Name:       "broken",
			Extensions: []string{".b"},
			Boundaries: domain.BoundaryPatterns{TestStart: []string{`[`}},
		}})
		Expect(err).To(MatchError(ContainSubstring(`failed to compile catalog "broken"`)))
	})
})
