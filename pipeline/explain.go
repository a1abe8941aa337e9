package pipeline

import (
	"io"
	"os"

	"github.com/pipewright/pipewright/plan"
)

// Explain prints the dry-run view of the pipeline to stderr. See ExplainTo.
func (p *Pipeline) Explain(ctx *plan.Context) error {
	return p.ExplainTo(os.Stderr, ctx)
}

// ExplainTo validates the pipeline, then renders each task in topological
// order with its dependencies, target override, and condition. When ctx is
// non-nil, recognizable conditions are pre-evaluated and tagged RUN or
// SKIP. A validation failure is returned and nothing is rendered.
func (p *Pipeline) ExplainTo(w io.Writer, ctx *plan.Context) error {
	if err := p.Validate(); err != nil {
		return err
	}

	snapshot := make([]plan.Task, len(p.tasks))
	for i, t := range p.tasks {
		snapshot[i] = plan.Task{
			Name:         t.name,
			Command:      t.command,
			DependsOn:    append([]string(nil), t.dependsOn...),
			Target:       t.targetName,
			When:         t.resolvedWhen(),
			Gate:         t.isGate,
			GateStrategy: t.gateStrategy,
		}
	}

	plan.Render(w, plan.Order(snapshot), ctx)
	return nil
}
