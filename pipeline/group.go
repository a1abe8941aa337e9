package pipeline

import (
	"fmt"
	"sort"
)

// TaskRef is anything that resolves to a set of task names: a single *Task
// or a TaskGroup. Chain accepts either.
type TaskRef interface {
	refTaskNames() []string
}

func (t *Task) refTaskNames() []string {
	return []string{t.name}
}

// TaskGroup is the result of a combinator. It is an immutable view over
// task names; the tasks themselves stay owned by the pipeline.
type TaskGroup struct {
	pipeline  *Pipeline
	name      string
	taskNames []string
}

// Name returns the group name.
func (g TaskGroup) Name() string {
	return g.name
}

// TaskNames returns a copy of the member task names.
func (g TaskGroup) TaskNames() []string {
	return append([]string(nil), g.taskNames...)
}

func (g TaskGroup) refTaskNames() []string {
	return g.taskNames
}

// After adds dependency edges on the named tasks to every member of the
// group. Returns the group for chaining.
func (g TaskGroup) After(deps ...string) TaskGroup {
	for _, member := range g.taskNames {
		if t := g.pipeline.findTask(member); t != nil {
			t.After(deps...)
		}
	}
	return g
}

// Chain runs items sequentially: every task in each item gains dependency
// edges on every task of the previous item. Edges that already exist are
// not duplicated. The returned group holds the names of the LAST item, so
// chaining onto the group continues from the chain's end.
func (p *Pipeline) Chain(items ...TaskRef) TaskGroup {
	var prev []string
	for _, item := range items {
		current := item.refTaskNames()
		if len(prev) > 0 {
			for _, name := range current {
				t := p.findTask(name)
				if t == nil {
					panic(fmt.Sprintf("chain: unknown task %q", name))
				}
				t.After(prev...)
			}
		}
		prev = current
	}
	return TaskGroup{pipeline: p, name: "chain", taskNames: prev}
}

// Parallel groups tasks that run concurrently. Every task must already
// belong to this pipeline; a foreign or nil task panics.
func (p *Pipeline) Parallel(name string, tasks ...*Task) TaskGroup {
	if name == "" {
		panic("parallel group name cannot be empty")
	}
	names := make([]string, len(tasks))
	for i, t := range tasks {
		if t == nil {
			panic(fmt.Sprintf("parallel group %q: task cannot be nil", name))
		}
		if p.findTask(t.name) != t {
			panic(fmt.Sprintf("parallel group %q: task %q does not belong to this pipeline", name, t.name))
		}
		names[i] = t.name
	}
	return TaskGroup{pipeline: p, name: name, taskNames: names}
}

// Matrix calls fn once per value and groups every task the calls create.
// Tasks fn creates beyond the one it returns (setup tasks, per-value
// helpers) are group members too.
func (p *Pipeline) Matrix(name string, values []string, fn func(value string) *Task) TaskGroup {
	if name == "" {
		panic("matrix group name cannot be empty")
	}
	var names []string
	for _, v := range values {
		before := len(p.tasks)
		fn(v)
		for _, t := range p.tasks[before:] {
			names = append(names, t.name)
		}
	}
	return TaskGroup{pipeline: p, name: name, taskNames: names}
}

// MatrixMap is Matrix over key/value pairs. Keys are visited in sorted
// order so the resulting graph is deterministic.
func (p *Pipeline) MatrixMap(name string, values map[string]string, fn func(key, value string) *Task) TaskGroup {
	if name == "" {
		panic("matrix group name cannot be empty")
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var names []string
	for _, k := range keys {
		before := len(p.tasks)
		fn(k, values[k])
		for _, t := range p.tasks[before:] {
			names = append(names, t.name)
		}
	}
	return TaskGroup{pipeline: p, name: name, taskNames: names}
}
