package pipeline

import (
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestAfterDeduplicationInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := New()
		task := p.Task("t").Run("true")

		deps := rapid.SliceOfN(
			rapid.SampledFrom([]string{"a", "b", "c", "d", "e"}),
			0, 20,
		).Draw(t, "deps")
		for _, d := range deps {
			task.After(d)
		}

		seen := make(map[string]bool)
		for _, d := range task.dependsOn {
			if seen[d] {
				t.Fatalf("duplicate dependency %q", d)
			}
			seen[d] = true
		}
		// Every requested dependency is present.
		for _, d := range deps {
			if !seen[d] {
				t.Fatalf("dependency %q lost", d)
			}
		}
	})
}

func TestEmissionDeterminismInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "tasks")

		build := func() *Pipeline {
			p := New()
			for i := 0; i < n; i++ {
				task := p.Task(fmt.Sprintf("task-%d", i)).Run("true")
				for j := 0; j < i; j++ {
					task.After(fmt.Sprintf("task-%d", j))
				}
			}
			return p
		}

		var a, b strings.Builder
		if err := build().EmitTo(&a); err != nil {
			t.Fatalf("emit: %v", err)
		}
		if err := build().EmitTo(&b); err != nil {
			t.Fatalf("emit: %v", err)
		}
		if a.String() != b.String() {
			t.Fatalf("non-deterministic output:\n%s\n%s", a.String(), b.String())
		}
	})
}
