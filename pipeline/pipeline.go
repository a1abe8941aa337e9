package pipeline

import (
	"fmt"
	"strings"

	"github.com/pipewright/pipewright/internal/log"
	"github.com/pipewright/pipewright/k8s"
)

// Pipeline is the aggregate root. It owns all tasks, gates, resources, and
// templates, in declaration order. A Pipeline is not safe for concurrent
// mutation; build it from one goroutine, then emit.
type Pipeline struct {
	tasks     []*Task
	taskIndex map[string]*Task

	dirs   []*Directory
	caches []*CacheVolume

	templates map[string]*Template

	k8sDefaults *k8s.Options

	logger *log.Logger
}

// New creates an empty pipeline.
func New() *Pipeline {
	return &Pipeline{
		taskIndex: make(map[string]*Task),
		templates: make(map[string]*Template),
		logger:    log.DefaultLogger(),
	}
}

// K8sDefaults sets pipeline-level K8s options that merge under every task's
// own options at emission time. Returns the pipeline for chaining.
func (p *Pipeline) K8sDefaults(opts k8s.Options) *Pipeline {
	p.k8sDefaults = &opts
	return p
}

// Task creates a named task and returns its handle for fluent mutation.
// Empty or duplicate names panic.
func (p *Pipeline) Task(name string) *Task {
	t := p.newTask(name, false)
	p.logger.Debug("registered task", "task", name)
	return t
}

// Gate creates an approval gate. Gates participate in the dependency graph
// like tasks but carry no command; they default to the prompt strategy with
// a one hour timeout.
func (p *Pipeline) Gate(name string) *Task {
	t := p.newTask(name, true)
	t.gateStrategy = "prompt"
	t.gateTimeout = 3600
	p.logger.Debug("registered gate", "gate", name)
	return t
}

func (p *Pipeline) newTask(name string, isGate bool) *Task {
	if name == "" {
		panic("task name cannot be empty")
	}
	if _, exists := p.taskIndex[name]; exists {
		panic(fmt.Sprintf("task %q already exists", name))
	}
	t := &Task{pipeline: p, name: name, isGate: isGate}
	p.tasks = append(p.tasks, t)
	p.taskIndex[name] = t
	return t
}

// Dir declares a host directory resource. Declaring the same path twice
// returns the same resource.
func (p *Pipeline) Dir(path string) *Directory {
	if strings.TrimSpace(path) == "" {
		panic("directory path cannot be empty")
	}
	for _, d := range p.dirs {
		if d.path == path {
			return d
		}
	}
	d := &Directory{path: path}
	p.dirs = append(p.dirs, d)
	return d
}

// Cache declares a named cache volume. Declaring the same name twice
// returns the same resource.
func (p *Pipeline) Cache(name string) *CacheVolume {
	if strings.TrimSpace(name) == "" {
		panic("cache name cannot be empty")
	}
	for _, c := range p.caches {
		if c.name == name {
			return c
		}
	}
	c := &CacheVolume{name: name}
	p.caches = append(p.caches, c)
	return c
}

// registerDir adopts a directory that reached this pipeline through a mount
// so it is present in the emitted resource table.
func (p *Pipeline) registerDir(d *Directory) {
	for _, existing := range p.dirs {
		if existing == d {
			return
		}
	}
	p.dirs = append(p.dirs, d)
}

func (p *Pipeline) registerCache(c *CacheVolume) {
	for _, existing := range p.caches {
		if existing == c {
			return
		}
	}
	p.caches = append(p.caches, c)
}

// Template declares a reusable task template. Empty or duplicate names
// panic.
func (p *Pipeline) Template(name string) *Template {
	if name == "" {
		panic("template name cannot be empty")
	}
	if _, exists := p.templates[name]; exists {
		panic(fmt.Sprintf("template %q already exists", name))
	}
	tmpl := &Template{pipeline: p, name: name}
	p.templates[name] = tmpl
	return tmpl
}

func (p *Pipeline) findTask(name string) *Task {
	return p.taskIndex[name]
}

// taskNames returns all task names in declaration order.
func (p *Pipeline) taskNames() []string {
	names := make([]string, len(p.tasks))
	for i, t := range p.tasks {
		names[i] = t.name
	}
	return names
}

func (p *Pipeline) hasV2Features() bool {
	if len(p.dirs) > 0 || len(p.caches) > 0 {
		return true
	}
	for _, t := range p.tasks {
		if t.container != "" || len(t.mounts) > 0 {
			return true
		}
	}
	return false
}
