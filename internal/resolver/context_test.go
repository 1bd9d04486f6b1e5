package resolver_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
	"github.com/fjglira/GoE2E-DocResolver/internal/resolver"
)

func counter() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("ctx-%d", n)
	}
}

func browsers(names ...string) domain.BrowserList {
	list := make(domain.BrowserList, len(names))
	for i, n := range names {
		list[i] = domain.Browser{Name: n}
	}
	return list
}

var _ = Describe("DriverRequired", func() {
	It("should detect driver-bound actions", func() {
		Expect(resolver.DriverRequired([]domain.Step{{"checkLink": "https://x"}, {"click": "OK"}})).To(BeTrue())
		Expect(resolver.DriverRequired([]domain.Step{{"stopRecord": true}})).To(BeTrue())
	})

	It("should not flag browserless actions", func() {
		Expect(resolver.DriverRequired([]domain.Step{
			{"checkLink": "https://x"},
			{"httpRequest": map[string]any{"url": "https://x"}},
			{"runShell": "echo hi"},
		})).To(BeFalse())
		Expect(resolver.DriverRequired(nil)).To(BeFalse())
	})
})

var _ = Describe("ResolveContexts", func() {
	var (
		driverTest domain.Test
		plainTest  domain.Test
	)

	BeforeEach(func() {
		driverTest = domain.Test{TestID: "ui", Steps: []domain.Step{{"goTo": "https://example.com"}}}
		plainTest = domain.Test{TestID: "api", Steps: []domain.Step{{"checkLink": "https://example.com"}}}
	})

	It("should return one empty context without run targets", func() {
		contexts := resolver.ResolveContexts(driverTest, nil, counter())
		Expect(contexts).To(HaveLen(1))
		Expect(contexts[0].ContextID).To(Equal("ctx-1"))
		Expect(contexts[0].Platform).To(BeEmpty())
		Expect(contexts[0].Browser).To(BeNil())
		Expect(contexts[0].Steps).To(Equal(driverTest.Steps))
	})

	It("should produce the platform and browser product for driver-bound tests", func() {
		runOn := []domain.RunTarget{
			{Platforms: domain.StringList{"linux", "mac", "windows"}, Browsers: browsers("chrome", "firefox")},
		}
		contexts := resolver.ResolveContexts(driverTest, runOn, counter())
		Expect(contexts).To(HaveLen(6))

		seen := map[string]bool{}
		for _, c := range contexts {
			seen[c.Platform+"/"+c.Browser.Name] = true
		}
		Expect(seen).To(HaveLen(6))
		Expect(seen).To(HaveKey("windows/firefox"))
	})

	It("should collapse duplicate targets into one context", func() {
		runOn := []domain.RunTarget{
			{Platforms: domain.StringList{"linux"}, Browsers: browsers("chrome")},
			{Platforms: domain.StringList{"linux"}, Browsers: browsers("chrome")},
		}
		contexts := resolver.ResolveContexts(driverTest, runOn, counter())
		Expect(contexts).To(HaveLen(1))
		Expect(contexts[0].Platform).To(Equal("linux"))
		Expect(contexts[0].Browser).To(Equal(&domain.Browser{Name: "chrome"}))
	})

	It("should de-duplicate overlapping targets regardless of order", func() {
		a := []domain.RunTarget{
			{Platforms: domain.StringList{"linux", "mac"}, Browsers: browsers("chrome")},
			{Platforms: domain.StringList{"mac"}, Browsers: browsers("chrome", "firefox")},
		}
		b := []domain.RunTarget{a[1], a[0]}
		Expect(resolver.ResolveContexts(driverTest, a, counter())).To(HaveLen(3))
		Expect(resolver.ResolveContexts(driverTest, b, counter())).To(HaveLen(3))
	})

	It("should alias safari to webkit", func() {
		runOn := []domain.RunTarget{
			{Platforms: domain.StringList{"mac"}, Browsers: browsers("Safari", "webkit")},
		}
		contexts := resolver.ResolveContexts(driverTest, runOn, counter())
		Expect(contexts).To(HaveLen(1))
		Expect(contexts[0].Browser.Name).To(Equal("webkit"))
	})

	It("should treat browsers with different options as distinct", func() {
		headless := true
		runOn := []domain.RunTarget{{
			Platforms: domain.StringList{"linux"},
			Browsers:  domain.BrowserList{{Name: "chrome"}, {Name: "chrome", Headless: &headless}},
		}}
		Expect(resolver.ResolveContexts(driverTest, runOn, counter())).To(HaveLen(2))
	})

	It("should ignore browsers when no step needs a driver", func() {
		runOn := []domain.RunTarget{
			{Platforms: domain.StringList{"linux", "mac"}, Browsers: browsers("chrome", "firefox")},
			{Platforms: domain.StringList{"linux"}},
		}
		contexts := resolver.ResolveContexts(plainTest, runOn, counter())
		Expect(contexts).To(HaveLen(2))
		Expect(contexts[0].Browser).To(BeNil())
		Expect(contexts[1].Platform).To(Equal("mac"))
	})

	It("should fall back to one empty context when driver targets have no browsers", func() {
		runOn := []domain.RunTarget{{Platforms: domain.StringList{"linux"}}}
		contexts := resolver.ResolveContexts(driverTest, runOn, counter())
		Expect(contexts).To(HaveLen(1))
		Expect(contexts[0].Platform).To(BeEmpty())
	})

	It("should copy unsafe, external docs and steps into every context", func() {
		driverTest.Unsafe = true
		driverTest.OpenAPI = []domain.ExternalDoc{{Name: "api"}}
		runOn := []domain.RunTarget{{Platforms: domain.StringList{"linux"}, Browsers: browsers("chrome", "firefox")}}

		contexts := resolver.ResolveContexts(driverTest, runOn, counter())
		Expect(contexts).To(HaveLen(2))
		for _, c := range contexts {
			Expect(c.Unsafe).To(BeTrue())
			Expect(c.OpenAPI).To(Equal([]domain.ExternalDoc{{Name: "api"}}))
		}
		Expect(contexts[0].ContextID).ToNot(Equal(contexts[1].ContextID))

		contexts[0].Steps[0]["goTo"] = "https://changed.example"
		Expect(contexts[1].Steps[0]["goTo"]).To(Equal("https://example.com"))
		Expect(driverTest.Steps[0]["goTo"]).To(Equal("https://example.com"))
	})
})
