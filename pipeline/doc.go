// Package pipeline is a fluent, in-memory builder for CI task graphs.
//
// A Pipeline owns an insertion-ordered set of named tasks, directory and
// cache-volume resources, and reusable templates. Callers mutate tasks
// through chained builder methods, then emit the whole graph as a versioned
// JSON document for an external executor:
//
//	p := pipeline.New()
//	src := p.Dir(".")
//	mods := p.Cache("go-mod")
//
//	p.Task("test").
//		Container("golang:1.24").
//		Mount(src, "/src").
//		MountCache(mods, "/go/pkg/mod").
//		Workdir("/src").
//		Run("go test ./...")
//
//	p.Task("build").Run("go build -o app").After("test")
//	p.Emit()
//
// Errors come in two tiers. Malformed builder arguments (empty names,
// relative mount paths, zero timeouts) are programming mistakes and panic
// immediately. Cross-task problems (missing commands, unresolved or cyclic
// dependencies, invalid merged K8s options) can only be known once the whole
// graph exists, so they surface at emission time as a *ValidationError, and
// no output is written.
package pipeline
