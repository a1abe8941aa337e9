package pipeline

import (
	"github.com/pipewright/pipewright/internal/errors"
	"github.com/pipewright/pipewright/internal/similarity"
	"github.com/pipewright/pipewright/k8s"
)

// Validate checks the whole graph and returns the first problem found as a
// *ValidationError, or nil. Checks run in a fixed order so error reports
// are stable:
//
//  1. every non-gate task has a command
//  2. every dependency edge resolves to an existing task (with a
//     closest-name suggestion when one scores high enough)
//  3. the graph is acyclic
//  4. each task's merged K8s options are well-formed
func (p *Pipeline) Validate() error {
	for _, t := range p.tasks {
		if !t.isGate && t.command == "" {
			return errors.NewMissingCommandError(t.name)
		}
	}

	names := p.taskNames()
	for _, t := range p.tasks {
		for _, dep := range t.dependsOn {
			if p.findTask(dep) == nil {
				suggestion := similarity.SuggestTaskName(dep, names)
				return errors.NewUnknownDependencyError(t.name, dep, suggestion)
			}
		}
	}

	if cycle := p.findCycle(); cycle != nil {
		return errors.NewCycleError(cycle)
	}

	for _, t := range p.tasks {
		merged := k8s.Merge(p.k8sDefaults, t.k8sOpts)
		if merged.Empty() {
			continue
		}
		if errs := k8s.Validate(merged); len(errs) > 0 {
			return errors.NewK8sOptionsError(t.name, errs[0])
		}
	}

	return nil
}

const (
	colorWhite = iota
	colorGray
	colorBlack
)

// findCycle runs three-color DFS over depends_on edges in declaration
// order. It returns the first cycle found as a closed loop (first and last
// element equal), or nil when the graph is acyclic. Runs after dependency
// resolution, so every edge target exists.
func (p *Pipeline) findCycle() []string {
	colors := make(map[string]int, len(p.tasks))
	var path []string

	var visit func(name string) []string
	visit = func(name string) []string {
		colors[name] = colorGray
		path = append(path, name)

		for _, dep := range p.findTask(name).dependsOn {
			if colors[dep] == colorGray {
				// Back edge: the loop is the path suffix from dep,
				// closed by repeating dep.
				for i, n := range path {
					if n == dep {
						return append(append([]string(nil), path[i:]...), dep)
					}
				}
			}
			if colors[dep] == colorWhite {
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}

		path = path[:len(path)-1]
		colors[name] = colorBlack
		return nil
	}

	for _, t := range p.tasks {
		if colors[t.name] == colorWhite {
			if cycle := visit(t.name); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
