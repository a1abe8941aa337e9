package k8s

// Merge layers task-level overrides on top of pipeline-level defaults,
// field by field:
//
//   - scalar fields take the task value when present, else the default
//   - map fields merge key-by-key, task values winning on collision
//   - list and struct fields are replaced wholesale by the task layer
//     when it is non-empty, otherwise the default is kept
//
// Neither input is mutated. The result is nil only when both inputs are nil.
func Merge(defaults, task *Options) *Options {
	if defaults == nil && task == nil {
		return nil
	}
	if defaults == nil {
		out := *task
		return &out
	}
	if task == nil {
		out := *defaults
		return &out
	}

	out := *defaults

	if task.Memory != "" {
		out.Memory = task.Memory
	}
	if task.CPU != "" {
		out.CPU = task.CPU
	}
	if task.GPU > 0 {
		out.GPU = task.GPU
	}
	if task.DNSPolicy != "" {
		out.DNSPolicy = task.DNSPolicy
	}
	if task.ServiceAccount != "" {
		out.ServiceAccount = task.ServiceAccount
	}
	if task.Raw != "" {
		out.Raw = task.Raw
	}

	out.NodeSelector = mergeStringMap(defaults.NodeSelector, task.NodeSelector)
	out.Labels = mergeStringMap(defaults.Labels, task.Labels)
	out.Annotations = mergeStringMap(defaults.Annotations, task.Annotations)

	if len(task.Tolerations) > 0 {
		out.Tolerations = task.Tolerations
	}
	if len(task.Volumes) > 0 {
		out.Volumes = task.Volumes
	}
	if task.Affinity != nil {
		out.Affinity = task.Affinity
	}
	if task.SecurityContext != nil {
		out.SecurityContext = task.SecurityContext
	}

	return &out
}

func mergeStringMap(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
