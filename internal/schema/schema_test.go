package schema_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoE2E-DocResolver/internal/schema"
)

var _ = Describe("Registry", func() {
	var reg *schema.Registry

	BeforeEach(func() {
		reg = schema.New()
	})

	Describe("Validate step_v3", func() {
		It("should accept a bare string action", func() {
			res := reg.Validate(schema.StepV3, map[string]any{"checkLink": "https://x.com"})
			Expect(res.Valid).To(BeTrue())
			Expect(res.Object).To(Equal(map[string]any{"checkLink": "https://x.com"}))
		})

		It("should accept an object action with common properties", func() {
			res := reg.Validate(schema.StepV3, map[string]any{
				"stepId":      "s1",
				"description": "open the page",
				"goTo":        map[string]any{"url": "/login", "origin": "https://example.com"},
			})
			Expect(res.Valid).To(BeTrue())
		})

		It("should reject a step with no action", func() {
			res := reg.Validate(schema.StepV3, map[string]any{"description": "nothing"})
			Expect(res.Valid).To(BeFalse())
			Expect(res.Errors).To(ContainElement("step: no action found"))
		})

		It("should reject a step with two actions", func() {
			res := reg.Validate(schema.StepV3, map[string]any{"goTo": "https://a", "click": "Submit"})
			Expect(res.Valid).To(BeFalse())
			Expect(res.Errors).To(ContainElement(ContainSubstring("found click, goTo")))
		})

		It("should reject unknown properties", func() {
			res := reg.Validate(schema.StepV3, map[string]any{"goTo": "https://a", "bogus": 1})
			Expect(res.Valid).To(BeFalse())
			Expect(res.Errors).To(ContainElement(`step: unknown property "bogus"`))
		})

		It("should reject a wrong value kind", func() {
			res := reg.Validate(schema.StepV3, map[string]any{"stopRecord": "yes"})
			Expect(res.Valid).To(BeFalse())
			Expect(res.Errors[0]).To(ContainSubstring("expected boolean, got string"))
		})

		It("should require url or openApi on httpRequest objects", func() {
			res := reg.Validate(schema.StepV3, map[string]any{"httpRequest": map[string]any{"method": "get"}})
			Expect(res.Valid).To(BeFalse())
			Expect(res.Errors[0]).To(ContainSubstring(`"url" or "openApi"`))

			res = reg.Validate(schema.StepV3, map[string]any{"httpRequest": map[string]any{"openApi": map[string]any{"operationId": "getPet"}}})
			Expect(res.Valid).To(BeTrue())
		})

		It("should require a language on runCode", func() {
			res := reg.Validate(schema.StepV3, map[string]any{"runCode": map[string]any{"code": "echo hi"}})
			Expect(res.Valid).To(BeFalse())
			Expect(res.Errors[0]).To(ContainSubstring(`"language"`))
		})

		It("should reject empty string actions", func() {
			res := reg.Validate(schema.StepV3, map[string]any{"find": "  "})
			Expect(res.Valid).To(BeFalse())
		})

		It("should not modify the input", func() {
			in := map[string]any{"goTo": map[string]any{"url": "https://a"}}
			res := reg.Validate(schema.StepV3, in)
			Expect(res.Valid).To(BeTrue())
			res.Object["goTo"].(map[string]any)["url"] = "changed"
			Expect(in["goTo"].(map[string]any)["url"]).To(Equal("https://a"))
		})
	})

	Describe("Validate test_v3", func() {
		It("should accept a test with one valid step", func() {
			res := reg.Validate(schema.TestV3, map[string]any{
				"testId": "t1",
				"steps":  []any{map[string]any{"checkLink": "https://x.com"}},
			})
			Expect(res.Valid).To(BeTrue())
		})

		It("should require at least one step", func() {
			res := reg.Validate(schema.TestV3, map[string]any{"testId": "t1", "steps": []any{}})
			Expect(res.Valid).To(BeFalse())
			Expect(res.Errors).To(ContainElement("test.steps: must contain at least one step"))
		})

		It("should require steps", func() {
			res := reg.Validate(schema.TestV3, map[string]any{"testId": "t1"})
			Expect(res.Valid).To(BeFalse())
			Expect(res.Errors).To(ContainElement(`test: missing required property "steps"`))
		})

		It("should report invalid steps with their index", func() {
			res := reg.Validate(schema.TestV3, map[string]any{
				"steps": []any{
					map[string]any{"goTo": "https://a"},
					map[string]any{"nothing": true},
				},
			})
			Expect(res.Valid).To(BeFalse())
			Expect(res.Errors).To(ContainElement(HavePrefix("test.steps[1]:")))
		})

		It("should validate run targets", func() {
			res := reg.Validate(schema.TestV3, map[string]any{
				"runOn": []any{map[string]any{"browsers": "chrome"}},
				"steps": []any{map[string]any{"goTo": "https://a"}},
			})
			Expect(res.Valid).To(BeFalse())
			Expect(res.Errors).To(ContainElement(`test.runOn[0]: missing required property "platforms"`))
		})

		It("should require names on openApi entries", func() {
			res := reg.Validate(schema.TestV3, map[string]any{
				"openApi": []any{map[string]any{"descriptionPath": "api.yaml"}},
				"steps":   []any{map[string]any{"goTo": "https://a"}},
			})
			Expect(res.Valid).To(BeFalse())
		})
	})

	Describe("Validate spec_v3", func() {
		It("should accept a spec with a valid test", func() {
			res := reg.Validate(schema.SpecV3, map[string]any{
				"specId": "s",
				"tests": []any{map[string]any{
					"steps": []any{map[string]any{"runShell": "echo hi"}},
				}},
			})
			Expect(res.Valid).To(BeTrue())
		})

		It("should report nested test errors", func() {
			res := reg.Validate(schema.SpecV3, map[string]any{
				"tests": []any{map[string]any{"steps": []any{}}},
			})
			Expect(res.Valid).To(BeFalse())
			Expect(res.Errors).To(ContainElement(HavePrefix("spec.tests[0]: test.steps")))
		})
	})

	It("should reject unknown schema keys", func() {
		res := reg.Validate("step_v9", map[string]any{"goTo": "x"})
		Expect(res.Valid).To(BeFalse())
	})

	Describe("Transform", func() {
		It("should migrate a v2 test with contexts and steps", func() {
			v2 := map[string]any{
				"id":          "legacy",
				"description": "old test",
				"file":        "other.json",
				"setup":       "setup.json",
				"cleanup":     "cleanup.json",
				"contexts": []any{map[string]any{
					"app":       map[string]any{"name": "firefox", "options": map[string]any{"headless": true, "width": 800}},
					"platforms": []any{"linux"},
				}},
				"steps": []any{
					map[string]any{"action": "goTo", "id": "s1", "url": "https://example.com"},
					map[string]any{"action": "typeKeys", "keys": []any{"hello"}},
					map[string]any{"action": "stopRecording"},
					map[string]any{"action": "setVariables", "path": ".env"},
					map[string]any{"action": "wait", "duration": 500},
				},
			}

			out, err := reg.Transform(v2, schema.TestV2, schema.TestV3)
			Expect(err).ToNot(HaveOccurred())
			Expect(out["testId"]).To(Equal("legacy"))
			Expect(out["before"]).To(Equal("setup.json"))
			Expect(out["after"]).To(Equal("cleanup.json"))
			Expect(out).ToNot(HaveKey("file"))
			Expect(out).ToNot(HaveKey("id"))
			Expect(out["runOn"]).To(Equal([]any{map[string]any{
				"platforms": []any{"linux"},
				"browsers": []any{map[string]any{
					"name":     "firefox",
					"headless": true,
					"window":   map[string]any{"width": 800},
				}},
			}}))
			Expect(out["steps"]).To(Equal([]any{
				map[string]any{"stepId": "s1", "goTo": map[string]any{"url": "https://example.com"}},
				map[string]any{"type": map[string]any{"keys": []any{"hello"}}},
				map[string]any{"stopRecord": true},
				map[string]any{"loadVariables": ".env"},
				map[string]any{"wait": 500},
			}))

			Expect(v2).To(HaveKey("id"))

			res := reg.Validate(schema.TestV3, out)
			Expect(res.Valid).To(BeTrue(), "%v", res.Errors)
		})

		It("should nest v2 httpRequest properties", func() {
			out, err := reg.Transform(map[string]any{
				"action":         "httpRequest",
				"url":            "https://api.example.com",
				"method":         "post",
				"requestData":    map[string]any{"a": 1},
				"requestHeaders": map[string]any{"X": "y"},
				"responseData":   map[string]any{"ok": true},
			}, schema.StepV2, schema.StepV3)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(map[string]any{"httpRequest": map[string]any{
				"url":      "https://api.example.com",
				"method":   "post",
				"request":  map[string]any{"body": map[string]any{"a": 1}, "headers": map[string]any{"X": "y"}},
				"response": map[string]any{"body": map[string]any{"ok": true}},
			}}))
		})

		It("should fail on a step without an action", func() {
			_, err := reg.Transform(map[string]any{
				"steps": []any{map[string]any{"url": "https://a"}},
			}, schema.TestV2, schema.TestV3)
			Expect(err).To(MatchError(ContainSubstring("test.steps[0]: step: missing v2 action")))
		})

		It("should fail on an unknown action", func() {
			_, err := reg.Transform(map[string]any{"action": "teleport"}, schema.StepV2, schema.StepV3)
			Expect(err).To(HaveOccurred())
		})

		It("should fail on unsupported paths", func() {
			_, err := reg.Transform(map[string]any{}, schema.StepV3, schema.StepV2)
			Expect(err).To(MatchError(ContainSubstring("no migration")))
		})
	})
})
