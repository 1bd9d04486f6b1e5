package resolver

import (
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/fjglira/GoE2E-DocResolver/internal/domain"
)

// Actions that need an interactive browser session.
var driverActions = map[string]bool{
	"click":       true,
	"find":        true,
	"goTo":        true,
	"type":        true,
	"screenshot":  true,
	"record":      true,
	"stopRecord":  true,
	"dragAndDrop": true,
	"loadCookie":  true,
	"saveCookie":  true,
}

var browserAliases = map[string]string{
	"safari": "webkit",
}

// DriverRequired reports whether any step uses a driver-bound action.
func DriverRequired(steps []domain.Step) bool {
	for _, s := range steps {
		for action := range s {
			if driverActions[action] {
				return true
			}
		}
	}
	return false
}

type target struct {
	Platform string
	Browser  *domain.Browser
}

// ResolveContexts expands run targets into one context per distinct
// platform, or per distinct platform and browser when the test needs a
// driver. With nothing to expand, a single context without platform or
// browser is returned. Each context gets its own copy of the test steps.
func ResolveContexts(test domain.Test, runOn []domain.RunTarget, newID func() string) []domain.Context {
	driver := DriverRequired(test.Steps)

	var targets []target
	add := func(t target) {
		for _, seen := range targets {
			if cmp.Equal(seen, t) {
				return
			}
		}
		targets = append(targets, t)
	}

	for _, rt := range runOn {
		for _, platform := range rt.Platforms {
			if !driver {
				add(target{Platform: platform})
				continue
			}
			for _, b := range rt.Browsers {
				browser := normalizeBrowser(b)
				add(target{Platform: platform, Browser: &browser})
			}
		}
	}
	if len(targets) == 0 {
		targets = []target{{}}
	}

	contexts := make([]domain.Context, 0, len(targets))
	for _, t := range targets {
		contexts = append(contexts, domain.Context{
			ContextID: newID(),
			Platform:  t.Platform,
			Browser:   t.Browser,
			Unsafe:    test.Unsafe,
			OpenAPI:   append([]domain.ExternalDoc{}, test.OpenAPI...),
			Steps:     cloneSteps(test.Steps),
		})
	}
	return contexts
}

func normalizeBrowser(b domain.Browser) domain.Browser {
	name := strings.ToLower(strings.TrimSpace(b.Name))
	if alias, ok := browserAliases[name]; ok {
		name = alias
	}
	b.Name = name
	return b
}

func cloneSteps(steps []domain.Step) []domain.Step {
	out := make([]domain.Step, len(steps))
	for i, s := range steps {
		out[i] = s.Clone()
	}
	return out
}
