package cmd

import (
	"github.com/pipewright/pipewright/condition"
	"github.com/pipewright/pipewright/pipeline"
)

// buildPipeline defines this repository's own CI pipeline. It doubles as
// the living example of the builder API.
func buildPipeline() *pipeline.Pipeline {
	p := pipeline.New()

	src := p.Dir(".").Glob("**/*.go", "go.mod", "go.sum")
	mods := p.Cache("go-mod")

	base := p.Template("go-base").
		Container("golang:1.24").
		Workdir("/src").
		Env("CGO_ENABLED", "0").
		Mount(src, "/src").
		MountCache(mods, "/go/pkg/mod")

	lint := p.Task("lint").
		Run("go vet ./...").
		From(base)

	test := p.Task("test").
		Run("go test ./...").
		From(base).
		Timeout(600)

	build := p.Task("build").
		Run("go build -o ./bin/pipewright ./cmd/pipewright").
		From(base).
		Output("binary", "./bin/pipewright")

	p.Chain(p.Parallel("checks", lint, test), build)

	p.Task("release").
		Run("./scripts/release.sh").
		InputFrom("build", "binary", "/dist/pipewright").
		WhenCond(condition.Tag("v*")).
		Retry(1)

	return p
}
