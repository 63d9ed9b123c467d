// ABOUTME: Tests for version constants
// ABOUTME: Ensures product identity is defined and sane
package version

import (
	"regexp"
	"strings"
	"testing"
)

func TestIdentityDefined(t *testing.T) {
	fields := map[string]string{
		"Version":      Version,
		"Product":      Product,
		"Manufacturer": Manufacturer,
	}

	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			t.Errorf("%s should not be empty", name)
		}
		if len(value) > 100 {
			t.Errorf("%s is unreasonably long", name)
		}
		for _, placeholder := range []string{"TODO", "FIXME", "XXX", "placeholder"} {
			if value == placeholder {
				t.Errorf("%s should not be placeholder value: %s", name, placeholder)
			}
		}
	}
}

func TestProductName(t *testing.T) {
	if Product != "Aris Music" {
		t.Errorf("expected product Aris Music, got %q", Product)
	}
}

func TestVersionFormat(t *testing.T) {
	// Release builds stamp a semantic version; local builds may say dev
	semver := regexp.MustCompile(`^v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)
	if Version != "dev" && !semver.MatchString(Version) {
		t.Errorf("version %q is neither dev nor semantic", Version)
	}
}
