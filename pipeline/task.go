package pipeline

import (
	"fmt"

	"github.com/pipewright/pipewright/condition"
	"github.com/pipewright/pipewright/k8s"
)

// Task is a single node in the pipeline graph, created via Pipeline.Task or
// Pipeline.Gate. Every builder method validates its arguments immediately,
// panics on misuse, and returns the task for chaining.
type Task struct {
	pipeline *Pipeline
	name     string
	isGate   bool

	command   string
	container string
	workdir   string
	env       map[string]string
	mounts    []mount
	inputs    []string
	outputs   map[string]string
	outputsV1 []string
	dependsOn []string

	whenRaw  string
	whenCond condition.Condition

	secrets    []string
	secretRefs []SecretRef

	matrixDims map[string][]string
	services   []serviceSidecar
	taskInputs []taskInput

	retryCount  int
	timeoutSecs int
	targetName  string

	k8sOpts  *k8s.Options
	k8sRaw   string
	requires []string

	provides []capability
	needs    []string

	covers      []string
	intent      string
	criticality string
	onFail      string
	selectMode  string

	gateStrategy string
	gateTimeout  int
	gateMessage  string
	gateEnvVar   string
	gateFilePath string
}

// serviceSidecar is a background service container started for a task.
type serviceSidecar struct {
	image string
	name  string
}

// taskInput binds another task's named output into this task's filesystem.
type taskInput struct {
	fromTask string
	output   string
	dest     string
}

// capability is a label (optionally with a value) a task advertises for
// capability-based dependency resolution.
type capability struct {
	name  string
	value string
}

// Name returns the task name.
func (t *Task) Name() string {
	return t.name
}

// Run sets the shell command. Empty commands panic; tasks without a command
// fail validation at emission time instead.
func (t *Task) Run(cmd string) *Task {
	if cmd == "" {
		panic(fmt.Sprintf("task %q: command cannot be empty", t.name))
	}
	t.command = cmd
	return t
}

// After adds dependency edges on the named tasks. Empty names are skipped
// and duplicates are ignored; order of first mention is preserved.
func (t *Task) After(tasks ...string) *Task {
	for _, name := range tasks {
		if name == "" {
			continue
		}
		t.addDep(name)
	}
	return t
}

// AfterGroup adds dependency edges on every task in the given groups.
func (t *Task) AfterGroup(groups ...TaskGroup) *Task {
	for _, g := range groups {
		for _, name := range g.taskNames {
			t.addDep(name)
		}
	}
	return t
}

func (t *Task) addDep(name string) {
	for _, existing := range t.dependsOn {
		if existing == name {
			return
		}
	}
	t.dependsOn = append(t.dependsOn, name)
}

// Inputs adds glob patterns describing the files this task reads. The
// executor uses them for change detection.
func (t *Task) Inputs(patterns ...string) *Task {
	t.inputs = append(t.inputs, patterns...)
	return t
}

// When sets a raw condition expression. A structured condition set via
// WhenCond takes precedence at emission time.
func (t *Task) When(expr string) *Task {
	t.whenRaw = expr
	return t
}

// WhenCond sets a structured run-condition.
func (t *Task) WhenCond(c condition.Condition) *Task {
	t.whenCond = c
	return t
}

// resolvedWhen returns the condition expression that will be emitted.
func (t *Task) resolvedWhen() string {
	if !t.whenCond.IsZero() {
		return t.whenCond.String()
	}
	return t.whenRaw
}

// Container sets the container image the command runs in.
func (t *Task) Container(image string) *Task {
	if image == "" {
		panic(fmt.Sprintf("task %q: container image cannot be empty", t.name))
	}
	t.container = image
	return t
}

// Workdir sets the working directory inside the container. The path must
// be absolute.
func (t *Task) Workdir(path string) *Task {
	if path != "" && path[0] != '/' {
		panic(fmt.Sprintf("task %q: workdir must be absolute, got %q", t.name, path))
	}
	t.workdir = path
	return t
}

// Mount mounts a directory resource at an absolute container path.
func (t *Task) Mount(dir *Directory, path string) *Task {
	if dir == nil {
		panic(fmt.Sprintf("task %q: mount directory cannot be nil", t.name))
	}
	mustAbsolutePath(fmt.Sprintf("task %q", t.name), path)
	t.mounts = append(t.mounts, mount{resource: dir.ID(), path: path, kind: mountDirectory})
	t.pipeline.registerDir(dir)
	return t
}

// MountCache mounts a cache volume at an absolute container path.
func (t *Task) MountCache(cache *CacheVolume, path string) *Task {
	if cache == nil {
		panic(fmt.Sprintf("task %q: mount cache cannot be nil", t.name))
	}
	mustAbsolutePath(fmt.Sprintf("task %q", t.name), path)
	t.mounts = append(t.mounts, mount{resource: cache.ID(), path: path, kind: mountCache})
	t.pipeline.registerCache(cache)
	return t
}

// MountCWD mounts the project directory at /work and sets the workdir
// there. Shorthand for the common single-repo layout.
func (t *Task) MountCWD() *Task {
	return t.MountCWDAt("/work")
}

// MountCWDAt mounts the project directory at the given absolute path and
// sets the workdir there.
func (t *Task) MountCWDAt(path string) *Task {
	t.Mount(t.pipeline.Dir("."), path)
	t.workdir = path
	return t
}

// Env sets an environment variable. Later writes to the same key win.
func (t *Task) Env(key, value string) *Task {
	if key == "" {
		panic(fmt.Sprintf("task %q: env key cannot be empty", t.name))
	}
	if t.env == nil {
		t.env = make(map[string]string)
	}
	t.env[key] = value
	return t
}

// Service starts a background service container for this task. The name
// doubles as the hostname the task reaches it by.
func (t *Task) Service(image, name string) *Task {
	if image == "" {
		panic(fmt.Sprintf("task %q: service image cannot be empty", t.name))
	}
	if name == "" {
		panic(fmt.Sprintf("task %q: service name cannot be empty", t.name))
	}
	t.services = append(t.services, serviceSidecar{image: image, name: name})
	return t
}

// Output declares a named output artifact at the given path.
func (t *Task) Output(name, path string) *Task {
	if name == "" {
		panic(fmt.Sprintf("task %q: output name cannot be empty", t.name))
	}
	if path == "" {
		panic(fmt.Sprintf("task %q: output path cannot be empty", t.name))
	}
	if t.outputs == nil {
		t.outputs = make(map[string]string)
	}
	t.outputs[name] = path
	return t
}

// Outputs declares positional output paths. They are auto-named output_0,
// output_1, ... at emission time.
func (t *Task) Outputs(paths ...string) *Task {
	for _, path := range paths {
		if path == "" {
			panic(fmt.Sprintf("task %q: output path cannot be empty", t.name))
		}
		t.outputsV1 = append(t.outputsV1, path)
	}
	return t
}

// InputFrom binds a named output of another task to a destination path in
// this task, and adds the dependency edge if not already present.
func (t *Task) InputFrom(task, output, dest string) *Task {
	if task == "" {
		panic(fmt.Sprintf("task %q: input source task cannot be empty", t.name))
	}
	if output == "" {
		panic(fmt.Sprintf("task %q: input output name cannot be empty", t.name))
	}
	t.taskInputs = append(t.taskInputs, taskInput{fromTask: task, output: output, dest: dest})
	t.addDep(task)
	return t
}

// Secret declares a bare secret name (v1 style).
func (t *Task) Secret(name string) *Task {
	if name == "" {
		panic(fmt.Sprintf("task %q: secret name cannot be empty", t.name))
	}
	t.secrets = append(t.secrets, name)
	return t
}

// Secrets declares multiple bare secret names.
func (t *Task) Secrets(names ...string) *Task {
	for _, name := range names {
		t.Secret(name)
	}
	return t
}

// SecretFrom declares a typed secret. The name argument must match the
// ref's own name; a mismatch panics.
func (t *Task) SecretFrom(name string, ref SecretRef) *Task {
	if name == "" {
		panic(fmt.Sprintf("task %q: secret name cannot be empty", t.name))
	}
	if ref.name != name {
		panic(fmt.Sprintf("task %q: secret name mismatch: argument %q does not match ref name %q",
			t.name, name, ref.name))
	}
	t.secretRefs = append(t.secretRefs, ref)
	return t
}

// Matrix adds a matrix dimension: the executor fans the task out over the
// given values.
func (t *Task) Matrix(key string, values ...string) *Task {
	if key == "" {
		panic(fmt.Sprintf("task %q: matrix key cannot be empty", t.name))
	}
	if t.matrixDims == nil {
		t.matrixDims = make(map[string][]string)
	}
	t.matrixDims[key] = append([]string(nil), values...)
	return t
}

// Retry sets how many times the executor retries on failure. Negative
// counts panic.
func (t *Task) Retry(n int) *Task {
	if n < 0 {
		panic(fmt.Sprintf("task %q: retry count cannot be negative, got %d", t.name, n))
	}
	t.retryCount = n
	return t
}

// Timeout sets the task timeout in seconds. Zero or negative panics.
func (t *Task) Timeout(secs int) *Task {
	if secs <= 0 {
		panic(fmt.Sprintf("task %q: timeout must be positive, got %d", t.name, secs))
	}
	t.timeoutSecs = secs
	return t
}

// Target overrides the execution target for this task.
func (t *Task) Target(name string) *Task {
	t.targetName = name
	return t
}

// K8s sets task-level Kubernetes options. They merge over pipeline
// defaults at emission time.
func (t *Task) K8s(opts k8s.Options) *Task {
	t.k8sOpts = &opts
	return t
}

// K8sRaw sets passthrough JSON for K8s settings not modeled by Options.
func (t *Task) K8sRaw(raw string) *Task {
	t.k8sRaw = raw
	return t
}

// Requires constrains the task to nodes carrying all the given labels.
func (t *Task) Requires(labels ...string) *Task {
	for _, label := range labels {
		if label == "" {
			panic(fmt.Sprintf("task %q: node label cannot be empty", t.name))
		}
		t.requires = append(t.requires, label)
	}
	return t
}

// Provides advertises a capability this task satisfies.
func (t *Task) Provides(name string) *Task {
	if name == "" {
		panic(fmt.Sprintf("task %q: capability name cannot be empty", t.name))
	}
	t.provides = append(t.provides, capability{name: name})
	return t
}

// ProvidesValue advertises a capability with an attached value.
func (t *Task) ProvidesValue(name, value string) *Task {
	if name == "" {
		panic(fmt.Sprintf("task %q: capability name cannot be empty", t.name))
	}
	t.provides = append(t.provides, capability{name: name, value: value})
	return t
}

// Needs declares capabilities this task consumes. The executor resolves
// them against provider tasks.
func (t *Task) Needs(names ...string) *Task {
	for _, name := range names {
		if name == "" {
			panic(fmt.Sprintf("task %q: capability name cannot be empty", t.name))
		}
	}
	t.needs = append(t.needs, names...)
	return t
}

// Covers adds glob patterns for the source areas this task is responsible
// for verifying. Tooling uses them to map changed files to tasks.
func (t *Task) Covers(patterns ...string) *Task {
	t.covers = append(t.covers, patterns...)
	return t
}

// Intent records a one-line description of what the task is meant to
// establish.
func (t *Task) Intent(desc string) *Task {
	t.intent = desc
	return t
}

// Critical marks the task as high criticality. Shorthand for
// SetCriticality("high").
func (t *Task) Critical() *Task {
	t.criticality = "high"
	return t
}

// SetCriticality sets the criticality level: high, medium, or low. Other
// values panic.
func (t *Task) SetCriticality(level string) *Task {
	switch level {
	case "high", "medium", "low":
	default:
		panic(fmt.Sprintf("task %q: invalid criticality %q, must be one of: high, medium, low", t.name, level))
	}
	t.criticality = level
	return t
}

// OnFail tells downstream tooling what to do when the task fails:
// analyze, retry, or skip. Other values panic.
func (t *Task) OnFail(action string) *Task {
	switch action {
	case "analyze", "retry", "skip":
	default:
		panic(fmt.Sprintf("task %q: invalid on_fail action %q, must be one of: analyze, retry, skip", t.name, action))
	}
	t.onFail = action
	return t
}

// SelectMode sets how the task is selected for a run: smart, always, or
// manual. Other values panic.
func (t *Task) SelectMode(mode string) *Task {
	switch mode {
	case "smart", "always", "manual":
	default:
		panic(fmt.Sprintf("task %q: invalid select mode %q, must be one of: smart, always, manual", t.name, mode))
	}
	t.selectMode = mode
	return t
}

// Smart opts the task into smart selection. Shorthand for
// SelectMode("smart").
func (t *Task) Smart() *Task {
	t.selectMode = "smart"
	return t
}

// From applies a template: container and workdir copy over only when the
// task has not set its own, template env is the base layer under task env,
// and template mounts are prepended so the last-applied template's mounts
// come first.
func (t *Task) From(tmpl *Template) *Task {
	if tmpl == nil {
		panic(fmt.Sprintf("task %q: template cannot be nil", t.name))
	}
	if tmpl.container != "" && t.container == "" {
		t.container = tmpl.container
	}
	if tmpl.workdir != "" && t.workdir == "" {
		t.workdir = tmpl.workdir
	}
	if len(tmpl.env) > 0 {
		merged := make(map[string]string, len(tmpl.env)+len(t.env))
		for k, v := range tmpl.env {
			merged[k] = v
		}
		for k, v := range t.env {
			merged[k] = v
		}
		t.env = merged
	}
	if len(tmpl.mounts) > 0 {
		t.mounts = append(append([]mount(nil), tmpl.mounts...), t.mounts...)
	}
	return t
}

// GateStrategy sets how the gate is approved: prompt, env, file, or
// webhook. Other values panic.
func (t *Task) GateStrategy(s string) *Task {
	switch s {
	case "prompt", "env", "file", "webhook":
	default:
		panic(fmt.Sprintf("task %q: invalid gate strategy %q, must be one of: prompt, env, file, webhook", t.name, s))
	}
	t.gateStrategy = s
	return t
}

// GateMessage sets the message shown to the approver.
func (t *Task) GateMessage(msg string) *Task {
	t.gateMessage = msg
	return t
}

// GateTimeout sets how long the gate waits for approval, in seconds.
func (t *Task) GateTimeout(secs int) *Task {
	if secs <= 0 {
		panic(fmt.Sprintf("task %q: gate timeout must be positive, got %d", t.name, secs))
	}
	t.gateTimeout = secs
	return t
}

// GateEnvVar names the environment variable the env strategy polls.
func (t *Task) GateEnvVar(variable string) *Task {
	t.gateEnvVar = variable
	return t
}

// GateFilePath names the file the file strategy polls.
func (t *Task) GateFilePath(path string) *Task {
	t.gateFilePath = path
	return t
}
