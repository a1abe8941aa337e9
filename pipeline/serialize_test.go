package pipeline

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipewright/pipewright/k8s"
)

func firstTask(t *testing.T, out map[string]any) map[string]any {
	t.Helper()
	tasks, ok := out["tasks"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, tasks)
	return tasks[0].(map[string]any)
}

func TestVersionOneByDefault(t *testing.T) {
	p := New()
	p.Task("test").Run("go test ./...")

	out, err := p.ToMap()
	require.NoError(t, err)

	assert.Equal(t, "1", out["version"])
	assert.NotContains(t, out, "resources")
}

func TestVersionTwoTriggers(t *testing.T) {
	build := func(f func(p *Pipeline)) string {
		p := New()
		p.Task("t").Run("true")
		f(p)
		out, err := p.ToMap()
		require.NoError(t, err)
		return out["version"].(string)
	}

	assert.Equal(t, "2", build(func(p *Pipeline) { p.Dir(".") }))
	assert.Equal(t, "2", build(func(p *Pipeline) { p.Cache("m") }))
	assert.Equal(t, "2", build(func(p *Pipeline) { p.findTask("t").Container("alpine") }))
	assert.Equal(t, "2", build(func(p *Pipeline) { p.findTask("t").MountCWD() }))
	assert.Equal(t, "1", build(func(p *Pipeline) {
		p.findTask("t").Env("K", "v").Retry(2).Timeout(60)
	}))
}

func TestMinimalTaskOmitsEmptyFields(t *testing.T) {
	p := New()
	p.Task("test").Run("go test ./...")

	out, err := p.ToMap()
	require.NoError(t, err)

	task := firstTask(t, out)
	assert.Len(t, task, 2)
	assert.Equal(t, "test", task["name"])
	assert.Equal(t, "go test ./...", task["command"])
}

func TestResourceTable(t *testing.T) {
	p := New()
	src := p.Dir("./src").Glob("**/*.go", "go.mod")
	mods := p.Cache("go-mod")
	p.Task("test").Run("go test ./...").
		Container("golang:1.24").
		Mount(src, "/src").
		MountCache(mods, "/go/pkg/mod")

	out, err := p.ToMap()
	require.NoError(t, err)
	require.Equal(t, "2", out["version"])

	resources := out["resources"].(map[string]any)
	require.Len(t, resources, 2)

	dir := resources["src:./src"].(map[string]any)
	assert.Equal(t, "directory", dir["type"])
	assert.Equal(t, "./src", dir["path"])
	assert.Equal(t, []any{"**/*.go", "go.mod"}, dir["globs"])

	cache := resources["go-mod"].(map[string]any)
	assert.Equal(t, "cache", cache["type"])
	assert.Equal(t, "go-mod", cache["name"])

	task := firstTask(t, out)
	mounts := task["mounts"].([]any)
	require.Len(t, mounts, 2)
	first := mounts[0].(map[string]any)
	assert.Equal(t, "src:./src", first["resource"])
	assert.Equal(t, "/src", first["path"])
	assert.Equal(t, "directory", first["type"])
}

func TestCacheMountAloneBumpsVersion(t *testing.T) {
	p := New()
	p.Task("warm").Run("make deps").MountCache(p.Cache("x"), "/data")

	out, err := p.ToMap()
	require.NoError(t, err)

	assert.Equal(t, "2", out["version"])
	cache := out["resources"].(map[string]any)["x"].(map[string]any)
	assert.Equal(t, "cache", cache["type"])
	assert.Equal(t, "x", cache["name"])
}

func TestOutputsAutoNaming(t *testing.T) {
	p := New()
	p.Task("build").Run("make").
		Output("bin", "./bin/app").
		Outputs("./dist/a.tar.gz", "./dist/b.tar.gz")

	out, err := p.ToMap()
	require.NoError(t, err)

	outputs := firstTask(t, out)["outputs"].(map[string]any)
	assert.Equal(t, "./bin/app", outputs["bin"])
	assert.Equal(t, "./dist/a.tar.gz", outputs["output_0"])
	assert.Equal(t, "./dist/b.tar.gz", outputs["output_1"])
}

func TestOutputsCollisionSuffixed(t *testing.T) {
	p := New()
	p.Task("build").Run("make").
		Output("output_0", "./named").
		Outputs("./positional")

	out, err := p.ToMap()
	require.NoError(t, err)

	outputs := firstTask(t, out)["outputs"].(map[string]any)
	assert.Equal(t, "./named", outputs["output_0"])
	assert.Equal(t, "./positional", outputs["output_0_0"])
}

func TestSecretShapes(t *testing.T) {
	p := New()
	p.Task("deploy").Run("./deploy.sh").
		Secrets("legacy-token").
		SecretFrom("api-key", SecretFromEnv("api-key", "API_KEY")).
		SecretFrom("db-pass", SecretFromVault("db-pass", "secret/db#password"))

	out, err := p.ToMap()
	require.NoError(t, err)
	task := firstTask(t, out)

	assert.Equal(t, []any{"legacy-token"}, task["secrets"])
	refs := task["secret_refs"].([]any)
	require.Len(t, refs, 2)
	assert.Equal(t, map[string]any{
		"name": "api-key", "source": "env", "key": "API_KEY",
	}, refs[0])
	assert.Equal(t, map[string]any{
		"name": "db-pass", "source": "vault", "key": "secret/db#password",
	}, refs[1])
}

func TestGateSerialization(t *testing.T) {
	p := New()
	p.Task("build").Run("go build ./...")
	p.Gate("approve").After("build").
		GateStrategy("env").
		GateEnvVar("DEPLOY_OK").
		GateMessage("ship it?").
		GateTimeout(900)

	out, err := p.ToMap()
	require.NoError(t, err)

	tasks := out["tasks"].([]any)
	gate := tasks[1].(map[string]any)
	assert.NotContains(t, gate, "command")

	g := gate["gate"].(map[string]any)
	assert.Equal(t, "env", g["strategy"])
	assert.Equal(t, "DEPLOY_OK", g["env_var"])
	assert.Equal(t, "ship it?", g["message"])
	assert.Equal(t, float64(900), g["timeout"])
}

func TestK8sDefaultsMergeIntoEveryTask(t *testing.T) {
	p := New().K8sDefaults(k8s.Options{Memory: "512Mi", Labels: map[string]string{"team": "ci"}})
	p.Task("plain").Run("true")
	p.Task("big").Run("true").K8s(k8s.Options{Memory: "8Gi", CPU: "2"})

	out, err := p.ToMap()
	require.NoError(t, err)
	tasks := out["tasks"].([]any)

	plain := tasks[0].(map[string]any)["k8s"].(map[string]any)
	assert.Equal(t, "512Mi", plain["memory"])
	assert.Equal(t, map[string]any{"team": "ci"}, plain["labels"])

	big := tasks[1].(map[string]any)["k8s"].(map[string]any)
	assert.Equal(t, "8Gi", big["memory"])
	assert.Equal(t, "2", big["cpu"])
	assert.Equal(t, map[string]any{"team": "ci"}, big["labels"])
}

func TestK8sRawPassthrough(t *testing.T) {
	p := New()
	p.Task("t").Run("true").K8sRaw(`{"priorityClassName":"high"}`)

	out, err := p.ToMap()
	require.NoError(t, err)

	k := firstTask(t, out)["k8s"].(map[string]any)
	assert.Equal(t, `{"priorityClassName":"high"}`, k["raw"])
}

func TestConditionAndSchedulingFields(t *testing.T) {
	p := New()
	p.Task("release").Run("./release.sh").
		When("branch == 'main'").
		Matrix("os", "linux", "darwin").
		Service("postgres:16", "db").
		Retry(2).
		Timeout(600).
		Target("k8s-gpu").
		Requires("gpu", "ssd").
		Provides("release-artifact").
		ProvidesValue("channel", "stable").
		Needs("signing-key")

	out, err := p.ToMap()
	require.NoError(t, err)
	task := firstTask(t, out)

	assert.Equal(t, "branch == 'main'", task["when"])
	assert.Equal(t, map[string]any{"os": []any{"linux", "darwin"}}, task["matrix"])
	assert.Equal(t, []any{map[string]any{"image": "postgres:16", "name": "db"}}, task["services"])
	assert.Equal(t, float64(2), task["retry"])
	assert.Equal(t, float64(600), task["timeout"])
	assert.Equal(t, "k8s-gpu", task["target"])
	assert.Equal(t, []any{"gpu", "ssd"}, task["requires"])
	assert.Equal(t, []any{
		map[string]any{"name": "release-artifact"},
		map[string]any{"name": "channel", "value": "stable"},
	}, task["provides"])
	assert.Equal(t, []any{"signing-key"}, task["needs"])
}

func TestSemanticAndAIHooksSerialization(t *testing.T) {
	p := New()
	p.Task("auth-test").Run("go test ./internal/auth/...").
		Covers("internal/auth/**", "internal/session/**").
		Intent("verify login and session expiry").
		Critical().
		OnFail("analyze").
		Smart()
	p.Task("plain").Run("true")

	out, err := p.ToMap()
	require.NoError(t, err)
	tasks := out["tasks"].([]any)

	annotated := tasks[0].(map[string]any)
	semantic := annotated["semantic"].(map[string]any)
	assert.Equal(t, []any{"internal/auth/**", "internal/session/**"}, semantic["covers"])
	assert.Equal(t, "verify login and session expiry", semantic["intent"])
	assert.Equal(t, "high", semantic["criticality"])

	hooks := annotated["ai_hooks"].(map[string]any)
	assert.Equal(t, "analyze", hooks["on_fail"])
	assert.Equal(t, "smart", hooks["select"])

	// Unannotated tasks carry neither block.
	unannotated := tasks[1].(map[string]any)
	assert.NotContains(t, unannotated, "semantic")
	assert.NotContains(t, unannotated, "ai_hooks")
}

func TestEmitToDeterministic(t *testing.T) {
	build := func() *Pipeline {
		p := New()
		src := p.Dir(".")
		p.Cache("go-mod")
		p.Task("test").Run("go test ./...").
			Container("golang:1.24").
			Mount(src, "/src").
			Env("B", "2").Env("A", "1")
		p.Task("build").Run("go build ./...").After("test")
		return p
	}

	var first, second bytes.Buffer
	require.NoError(t, build().EmitTo(&first))
	require.NoError(t, build().EmitTo(&second))

	assert.Equal(t, first.String(), second.String())
	// Single line of compact JSON, newline-terminated.
	assert.True(t, strings.HasSuffix(first.String(), "\n"))
	assert.Equal(t, 1, strings.Count(first.String(), "\n"))
	assert.True(t, json.Valid(first.Bytes()))
}

func TestEmitToWritesNothingOnValidationFailure(t *testing.T) {
	p := New()
	p.Task("broken")

	var buf bytes.Buffer
	err := p.EmitTo(&buf)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestTaskOrderPreserved(t *testing.T) {
	p := New()
	p.Task("c").Run("true")
	p.Task("a").Run("true")
	p.Task("b").Run("true")

	out, err := p.ToMap()
	require.NoError(t, err)

	tasks := out["tasks"].([]any)
	names := make([]string, len(tasks))
	for i, task := range tasks {
		names[i] = task.(map[string]any)["name"].(string)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}
