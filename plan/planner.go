// Package plan computes the execution order of a validated task graph and
// renders the dry-run "explain" view.
//
// The planner never executes anything: it pre-evaluates a small set of
// condition shapes against a supplied Context so an author can see which
// tasks would run, but the executor downstream remains the authority on
// condition evaluation.
package plan

// Task is the planner's view of a pipeline task. The pipeline package
// builds these snapshots after validation, so every dependency is known
// to resolve and the graph is acyclic.
type Task struct {
	Name         string
	Command      string
	DependsOn    []string
	Target       string
	When         string
	Gate         bool
	GateStrategy string
}

// Context carries the runtime facts conditions are pre-evaluated against.
type Context struct {
	Branch string `yaml:"branch"`
	Tag    string `yaml:"tag"`
	Event  string `yaml:"event"`
	CI     bool   `yaml:"ci"`
}

// Order returns the tasks in topological order using Kahn's algorithm.
// In-degree is counted from depends_on edges and the ready queue is seeded
// in declaration order, so the result is insertion-order-biased; the
// tie-break order among ready tasks is not a contract callers may rely on.
//
// Order assumes an acyclic graph. On a cyclic input (which validation
// rejects before planning) the returned slice is shorter than the input.
func Order(tasks []Task) []Task {
	byName := make(map[string]*Task, len(tasks))
	indegree := make(map[string]int, len(tasks))
	dependents := make(map[string][]string, len(tasks))

	for i := range tasks {
		t := &tasks[i]
		byName[t.Name] = t
		indegree[t.Name] = 0
	}
	for i := range tasks {
		t := &tasks[i]
		for _, dep := range t.DependsOn {
			if _, ok := byName[dep]; !ok {
				continue
			}
			indegree[t.Name]++
			dependents[dep] = append(dependents[dep], t.Name)
		}
	}

	queue := make([]string, 0, len(tasks))
	for i := range tasks {
		if indegree[tasks[i].Name] == 0 {
			queue = append(queue, tasks[i].Name)
		}
	}

	ordered := make([]Task, 0, len(tasks))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		ordered = append(ordered, *byName[name])

		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	return ordered
}
