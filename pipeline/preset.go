package pipeline

// GoPreset creates conventional tasks for Go projects. Obtain one with
// Pipeline.Go.
type GoPreset struct {
	pipeline *Pipeline
}

// Go returns the Go language preset for this pipeline.
func (p *Pipeline) Go() GoPreset {
	return GoPreset{pipeline: p}
}

func goInputs() []string {
	return []string{"**/*.go", "go.mod", "go.sum"}
}

// Test creates a "test" task running go test over the module.
func (g GoPreset) Test() *Task {
	return g.pipeline.Task("test").
		Run("go test ./...").
		Inputs(goInputs()...)
}

// Lint creates a "lint" task running go vet over the module.
func (g GoPreset) Lint() *Task {
	return g.pipeline.Task("lint").
		Run("go vet ./...").
		Inputs(goInputs()...)
}

// Build creates a "build" task compiling the module to the given output
// path and declaring it as the task's artifact.
func (g GoPreset) Build(output string) *Task {
	if output == "" {
		panic("build output path cannot be empty")
	}
	return g.pipeline.Task("build").
		Run("go build -o "+output).
		Inputs(goInputs()...).
		Outputs(output)
}
