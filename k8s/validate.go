package k8s

import (
	"fmt"
	"regexp"
	"strings"
)

// Quantity patterns, compiled once at package initialization.
var (
	// Memory: unit-less bytes, binary suffixes (Ki..Ei), or decimal (k..E).
	memoryPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(Ki|Mi|Gi|Ti|Pi|Ei|k|M|G|T|P|E)?$`)
	// CPU: whole cores, fractional cores, or millicores.
	cpuPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?m?$`)
)

var (
	validOperators = []string{"Exists", "Equal"}
	validEffects   = []string{"NoSchedule", "PreferNoSchedule", "NoExecute"}
	validDNS       = []string{"ClusterFirst", "ClusterFirstWithHostNet", "Default", "None"}
)

// FieldError describes a single invalid option value.
type FieldError struct {
	Field   string
	Value   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("k8s.%s: %s (got %q)", e.Field, e.Message, e.Value)
}

// Validate checks a merged Options value and returns all field errors
// found. Raw passthrough JSON is not inspected. Returns nil when valid.
func Validate(opts *Options) []error {
	if opts == nil {
		return nil
	}

	var errs []error

	if opts.Memory != "" && !memoryPattern.MatchString(opts.Memory) {
		errs = append(errs, FieldError{
			Field:   "memory",
			Value:   opts.Memory,
			Message: "invalid memory format, use Ki/Mi/Gi/Ti (e.g. '512Mi', '4Gi')" + memoryHint(opts.Memory),
		})
	}

	if opts.CPU != "" && !cpuPattern.MatchString(opts.CPU) {
		errs = append(errs, FieldError{
			Field:   "cpu",
			Value:   opts.CPU,
			Message: "invalid CPU format, use cores or millicores (e.g. '500m', '0.5', '2')",
		})
	}

	for i, tol := range opts.Tolerations {
		if tol.Operator != "" && !contains(validOperators, tol.Operator) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("tolerations[%d].operator", i),
				Value:   tol.Operator,
				Message: "operator must be one of: " + strings.Join(validOperators, ", "),
			})
		}
		if tol.Effect != "" && !contains(validEffects, tol.Effect) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("tolerations[%d].effect", i),
				Value:   tol.Effect,
				Message: "effect must be one of: " + strings.Join(validEffects, ", "),
			})
		}
	}

	if opts.DNSPolicy != "" && !contains(validDNS, opts.DNSPolicy) {
		errs = append(errs, FieldError{
			Field:   "dnsPolicy",
			Value:   opts.DNSPolicy,
			Message: "dnsPolicy must be one of: " + strings.Join(validDNS, ", "),
		})
	}

	for i, vol := range opts.Volumes {
		if vol.Name == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("volumes[%d].name", i),
				Value:   vol.Name,
				Message: "volume name cannot be empty",
			})
		}
		if !strings.HasPrefix(vol.MountPath, "/") {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("volumes[%d].mountPath", i),
				Value:   vol.MountPath,
				Message: "mount path must be absolute (start with /)",
			})
		}
	}

	return errs
}

// memoryHint appends a corrective hint for the common gb/mb/kb mistakes.
func memoryHint(value string) string {
	lower := strings.ToLower(value)
	switch {
	case strings.HasSuffix(lower, "gb"):
		return " (did you mean 'Gi'?)"
	case strings.HasSuffix(lower, "mb"):
		return " (did you mean 'Mi'?)"
	case strings.HasSuffix(lower, "kb"):
		return " (did you mean 'Ki'?)"
	}
	return ""
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
