package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipewright/pipewright/k8s"
)

func TestValidateMissingCommand(t *testing.T) {
	p := New()
	p.Task("build")

	err := p.Validate()
	require.Error(t, err)

	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeMissingCommand, verr.Code)
	assert.Equal(t, "build", verr.Task)
}

func TestValidateGateNeedsNoCommand(t *testing.T) {
	p := New()
	p.Task("build").Run("go build ./...")
	p.Gate("approve").After("build")
	p.Task("deploy").Run("./deploy.sh").After("approve")

	require.NoError(t, p.Validate())
}

func TestValidateUnknownDependencyWithSuggestion(t *testing.T) {
	p := New()
	p.Task("build").Run("go build ./...")
	p.Task("test").Run("go test ./...")
	p.Task("deploy").Run("./deploy.sh").After("biuld")

	err := p.Validate()
	require.Error(t, err)

	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeUnknownDependency, verr.Code)
	assert.Equal(t, "deploy", verr.Task)
	assert.Contains(t, err.Error(), `did you mean "build"?`)
}

func TestValidateUnknownDependencyNoCloseMatch(t *testing.T) {
	p := New()
	p.Task("build").Run("go build ./...")
	p.Task("deploy").Run("./deploy.sh").After("zzzzzz")

	err := p.Validate()
	require.Error(t, err)

	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeUnknownDependency, verr.Code)
	assert.Empty(t, verr.Suggestions)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestValidateCycle(t *testing.T) {
	p := New()
	p.Task("a").Run("true").After("b")
	p.Task("b").Run("true").After("c")
	p.Task("c").Run("true").After("a")

	err := p.Validate()
	require.Error(t, err)

	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeCycleDetected, verr.Code)
	// The reported path is a closed loop naming every member.
	assert.Contains(t, err.Error(), "a -> b -> c -> a")
}

func TestValidateSelfLoop(t *testing.T) {
	p := New()
	p.Task("x").Run("true").After("x")

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x -> x")
}

func TestValidateChecksRunInOrder(t *testing.T) {
	// A task with no command and an unknown dep reports the command
	// problem first.
	p := New()
	p.Task("broken").After("nope")

	verr, ok := AsValidationError(p.Validate())
	require.True(t, ok)
	assert.Equal(t, ErrCodeMissingCommand, verr.Code)
}

func TestValidateK8sMergedOptions(t *testing.T) {
	p := New().K8sDefaults(k8s.Options{Memory: "4GB"})
	p.Task("train").Run("python train.py")

	err := p.Validate()
	require.Error(t, err)

	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeK8sInvalidOptions, verr.Code)
	assert.Equal(t, "train", verr.Task)
	assert.Contains(t, err.Error(), "4GB")
}

func TestValidateK8sTaskOverrideFixesDefaults(t *testing.T) {
	p := New().K8sDefaults(k8s.Options{Memory: "4GB"})
	p.Task("train").Run("python train.py").K8s(k8s.Options{Memory: "4Gi"})

	require.NoError(t, p.Validate())
}

func TestValidateK8sValidOptions(t *testing.T) {
	p := New()
	p.Task("train").Run("python train.py").K8s(k8s.Options{
		Memory: "8Gi",
		CPU:    "500m",
		GPU:    1,
		Tolerations: []k8s.Toleration{
			{Key: "gpu", Operator: "Exists", Effect: "NoSchedule"},
		},
		DNSPolicy: "ClusterFirst",
	})

	require.NoError(t, p.Validate())
}

func TestValidateEmptyPipeline(t *testing.T) {
	require.NoError(t, New().Validate())
}
