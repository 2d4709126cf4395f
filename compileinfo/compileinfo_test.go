package compileinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	c := CompileInfo{Package: "snpstat", Version: "v1.0.0", GoVersion: "go1.21", Commit: "abc", CommitTime: "now", Modified: true}

	s := c.String()
	for _, want := range []string{"snpstat", "v1.0.0", "go1.21", "abc", "modified"} {
		if !strings.Contains(s, want) {
			t.Errorf("%q does not mention %q", s, want)
		}
	}

	if c.Fields()["commit"] != "abc" {
		t.Errorf("Unexpected fields %v", c.Fields())
	}
}

func TestGetHasVersion(t *testing.T) {
	if Get().Version == "" {
		t.Error("Version should never be empty")
	}
}
