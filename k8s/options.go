// Package k8s models the Kubernetes scheduling options a task may carry.
//
// Options are layered: pipeline-level defaults merge under task-level
// overrides, and the merged result is validated at emission time. The core
// never talks to a cluster; these options are plain data forwarded to the
// executor.
package k8s

// Options describes resource sizing, placement, and pod shape for a task.
type Options struct {
	// Memory sets both request and limit (e.g. "512Mi", "4Gi").
	Memory string `json:"memory,omitempty"`

	// CPU sets both request and limit (e.g. "500m", "2").
	CPU string `json:"cpu,omitempty"`

	// GPU requests NVIDIA GPUs.
	GPU int `json:"gpu,omitempty"`

	// NodeSelector constrains scheduling to nodes with matching labels.
	NodeSelector map[string]string `json:"nodeSelector,omitempty"`

	// Labels are applied to the task pod.
	Labels map[string]string `json:"labels,omitempty"`

	// Annotations are applied to the task pod.
	Annotations map[string]string `json:"annotations,omitempty"`

	// Tolerations let the pod schedule onto tainted nodes.
	Tolerations []Toleration `json:"tolerations,omitempty"`

	// Volumes are additional pod volumes beyond pipeline mounts.
	Volumes []Volume `json:"volumes,omitempty"`

	// Affinity expresses node placement preferences.
	Affinity *Affinity `json:"affinity,omitempty"`

	// SecurityContext sets the pod security context.
	SecurityContext *SecurityContext `json:"securityContext,omitempty"`

	// DNSPolicy is one of ClusterFirst, ClusterFirstWithHostNet,
	// Default, or None.
	DNSPolicy string `json:"dnsPolicy,omitempty"`

	// ServiceAccount runs the pod under a specific service account.
	ServiceAccount string `json:"serviceAccount,omitempty"`

	// Raw is passthrough JSON for anything not modeled above. It is
	// carried alongside the structured fields, never merged into them.
	Raw string `json:"raw,omitempty"`
}

// Toleration mirrors the pod toleration shape.
type Toleration struct {
	Key               string `json:"key,omitempty"`
	Operator          string `json:"operator,omitempty"`
	Value             string `json:"value,omitempty"`
	Effect            string `json:"effect,omitempty"`
	TolerationSeconds *int64 `json:"tolerationSeconds,omitempty"`
}

// Volume declares an extra pod volume and where to mount it.
type Volume struct {
	Name      string `json:"name"`
	MountPath string `json:"mountPath"`
	HostPath  string `json:"hostPath,omitempty"`
	EmptyDir  bool   `json:"emptyDir,omitempty"`
}

// Affinity is a simplified node affinity: required labels must match,
// preferred labels bias scheduling.
type Affinity struct {
	RequiredNodeLabels  map[string]string `json:"requiredNodeLabels,omitempty"`
	PreferredNodeLabels map[string]string `json:"preferredNodeLabels,omitempty"`
}

// SecurityContext sets pod-level security attributes.
type SecurityContext struct {
	RunAsUser    *int64 `json:"runAsUser,omitempty"`
	RunAsGroup   *int64 `json:"runAsGroup,omitempty"`
	FSGroup      *int64 `json:"fsGroup,omitempty"`
	RunAsNonRoot *bool  `json:"runAsNonRoot,omitempty"`
	Privileged   *bool  `json:"privileged,omitempty"`
}

// Empty reports whether no option field is set. An Options value that is
// empty is omitted from the emitted document.
func (o *Options) Empty() bool {
	if o == nil {
		return true
	}
	return o.Memory == "" &&
		o.CPU == "" &&
		o.GPU == 0 &&
		len(o.NodeSelector) == 0 &&
		len(o.Labels) == 0 &&
		len(o.Annotations) == 0 &&
		len(o.Tolerations) == 0 &&
		len(o.Volumes) == 0 &&
		o.Affinity == nil &&
		o.SecurityContext == nil &&
		o.DNSPolicy == "" &&
		o.ServiceAccount == "" &&
		o.Raw == ""
}
