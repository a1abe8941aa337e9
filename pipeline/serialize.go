package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pipewright/pipewright/internal/errors"
	"github.com/pipewright/pipewright/k8s"
)

// document is the versioned wire form of a pipeline.
type document struct {
	Version   string                  `json:"version"`
	Resources map[string]resourceJSON `json:"resources,omitempty"`
	Tasks     []taskJSON              `json:"tasks"`
}

type resourceJSON struct {
	Type  string   `json:"type"`
	Path  string   `json:"path,omitempty"`
	Name  string   `json:"name,omitempty"`
	Globs []string `json:"globs,omitempty"`
}

type taskJSON struct {
	Name       string              `json:"name"`
	Command    string              `json:"command,omitempty"`
	Container  string              `json:"container,omitempty"`
	Workdir    string              `json:"workdir,omitempty"`
	Env        map[string]string   `json:"env,omitempty"`
	Mounts     []mountJSON         `json:"mounts,omitempty"`
	Inputs     []string            `json:"inputs,omitempty"`
	TaskInputs []taskInputJSON     `json:"task_inputs,omitempty"`
	Outputs    map[string]string   `json:"outputs,omitempty"`
	DependsOn  []string            `json:"depends_on,omitempty"`
	When       string              `json:"when,omitempty"`
	Secrets    []string            `json:"secrets,omitempty"`
	SecretRefs []secretRefJSON     `json:"secret_refs,omitempty"`
	Matrix     map[string][]string `json:"matrix,omitempty"`
	Services   []serviceJSON       `json:"services,omitempty"`
	Retry      int                 `json:"retry,omitempty"`
	Timeout    int                 `json:"timeout,omitempty"`
	Target     string              `json:"target,omitempty"`
	K8s        *k8s.Options        `json:"k8s,omitempty"`
	Requires   []string            `json:"requires,omitempty"`
	Provides   []capabilityJSON    `json:"provides,omitempty"`
	Needs      []string            `json:"needs,omitempty"`
	Semantic   *semanticJSON       `json:"semantic,omitempty"`
	AIHooks    *aiHooksJSON        `json:"ai_hooks,omitempty"`
	Gate       *gateJSON           `json:"gate,omitempty"`
}

type mountJSON struct {
	Resource string `json:"resource"`
	Path     string `json:"path"`
	Type     string `json:"type"`
}

type taskInputJSON struct {
	FromTask string `json:"from_task"`
	Output   string `json:"output"`
	Dest     string `json:"dest"`
}

type secretRefJSON struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Key    string `json:"key"`
}

type serviceJSON struct {
	Image string `json:"image"`
	Name  string `json:"name"`
}

type capabilityJSON struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

type semanticJSON struct {
	Covers      []string `json:"covers,omitempty"`
	Intent      string   `json:"intent,omitempty"`
	Criticality string   `json:"criticality,omitempty"`
}

type aiHooksJSON struct {
	OnFail string `json:"on_fail,omitempty"`
	Select string `json:"select,omitempty"`
}

type gateJSON struct {
	Strategy string `json:"strategy"`
	Timeout  int    `json:"timeout,omitempty"`
	Message  string `json:"message,omitempty"`
	EnvVar   string `json:"env_var,omitempty"`
	FilePath string `json:"file_path,omitempty"`
}

// buildDocument assembles the wire form. Callers validate first.
func (p *Pipeline) buildDocument() document {
	doc := document{Version: "1", Tasks: make([]taskJSON, 0, len(p.tasks))}

	if p.hasV2Features() {
		doc.Version = "2"
		resources := make(map[string]resourceJSON, len(p.dirs)+len(p.caches))
		for _, d := range p.dirs {
			resources[d.ID()] = resourceJSON{Type: "directory", Path: d.path, Globs: d.globs}
		}
		for _, c := range p.caches {
			resources[c.ID()] = resourceJSON{Type: "cache", Name: c.name}
		}
		if len(resources) > 0 {
			doc.Resources = resources
		}
	}

	for _, t := range p.tasks {
		doc.Tasks = append(doc.Tasks, p.taskToJSON(t))
	}
	return doc
}

func (p *Pipeline) taskToJSON(t *Task) taskJSON {
	tj := taskJSON{
		Name:      t.name,
		Command:   t.command,
		Container: t.container,
		Workdir:   t.workdir,
		Env:       t.env,
		Inputs:    t.inputs,
		Outputs:   mergeOutputs(t.outputs, t.outputsV1),
		DependsOn: t.dependsOn,
		When:      t.resolvedWhen(),
		Secrets:   t.secrets,
		Matrix:    t.matrixDims,
		Retry:     t.retryCount,
		Timeout:   t.timeoutSecs,
		Target:    t.targetName,
		Requires:  t.requires,
		Needs:     t.needs,
	}

	for _, m := range t.mounts {
		tj.Mounts = append(tj.Mounts, mountJSON{Resource: m.resource, Path: m.path, Type: string(m.kind)})
	}
	for _, ti := range t.taskInputs {
		tj.TaskInputs = append(tj.TaskInputs, taskInputJSON{FromTask: ti.fromTask, Output: ti.output, Dest: ti.dest})
	}
	for _, r := range t.secretRefs {
		tj.SecretRefs = append(tj.SecretRefs, secretRefJSON{Name: r.name, Source: r.source, Key: r.key})
	}
	for _, s := range t.services {
		tj.Services = append(tj.Services, serviceJSON{Image: s.image, Name: s.name})
	}
	for _, c := range t.provides {
		tj.Provides = append(tj.Provides, capabilityJSON{Name: c.name, Value: c.value})
	}

	merged := k8s.Merge(p.k8sDefaults, t.k8sOpts)
	if t.k8sRaw != "" {
		if merged == nil {
			merged = &k8s.Options{}
		}
		merged.Raw = t.k8sRaw
	}
	if !merged.Empty() {
		tj.K8s = merged
	}

	if len(t.covers) > 0 || t.intent != "" || t.criticality != "" {
		tj.Semantic = &semanticJSON{
			Covers:      t.covers,
			Intent:      t.intent,
			Criticality: t.criticality,
		}
	}
	if t.onFail != "" || t.selectMode != "" {
		tj.AIHooks = &aiHooksJSON{OnFail: t.onFail, Select: t.selectMode}
	}

	if t.isGate {
		tj.Gate = &gateJSON{
			Strategy: t.gateStrategy,
			Timeout:  t.gateTimeout,
			Message:  t.gateMessage,
			EnvVar:   t.gateEnvVar,
			FilePath: t.gateFilePath,
		}
	}
	return tj
}

// mergeOutputs folds positional outputs into the named map, auto-naming
// them output_0, output_1, ... and suffixing on collision with a named
// output.
func mergeOutputs(named map[string]string, positional []string) map[string]string {
	if len(named) == 0 && len(positional) == 0 {
		return nil
	}
	merged := make(map[string]string, len(named)+len(positional))
	for k, v := range named {
		merged[k] = v
	}
	for i, path := range positional {
		key := fmt.Sprintf("output_%d", i)
		for _, taken := merged[key]; taken; _, taken = merged[key] {
			key = fmt.Sprintf("%s_%d", key, i)
		}
		merged[key] = path
	}
	return merged
}

// EmitTo validates and writes the document to w as a single line of
// compact JSON. On validation failure nothing is written.
func (p *Pipeline) EmitTo(w io.Writer) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(p.buildDocument())
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailed, "encoding pipeline document", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailed, "writing pipeline document", err)
	}
	return nil
}

// ToMap validates and returns the document as a generic map, mostly for
// tests and tooling.
func (p *Pipeline) ToMap() (map[string]any, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(p.buildDocument())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, "encoding pipeline document", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, "decoding pipeline document", err)
	}
	return out, nil
}

// Emit is the conventional tail call of a pipeline definition program. It
// is a no-op unless --emit is among the process arguments; with the flag
// it validates, writes JSON to stdout, and exits the process (0 on
// success, 1 on validation failure). Tests should use EmitTo or ToMap.
func (p *Pipeline) Emit() {
	if !emitRequested(os.Args[1:]) {
		return
	}
	p.emitAndExit()
}

// EmitForce emits unconditionally, without looking at process arguments,
// then exits.
func (p *Pipeline) EmitForce() {
	p.emitAndExit()
}

func (p *Pipeline) emitAndExit() {
	if err := p.EmitTo(os.Stdout); err != nil {
		p.logger.WithError(err).Error("pipeline validation failed")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		osExit(1)
	}
	osExit(0)
}

// osExit is swapped in process-exit tests.
var osExit = os.Exit

func emitRequested(args []string) bool {
	for _, arg := range args {
		if arg == "--emit" {
			return true
		}
	}
	return false
}
