package pipeline

import "strings"

// Directory is a host directory resource tasks can mount read-write.
// Its identity in the emitted document is "src:" + path.
type Directory struct {
	path  string
	globs []string
}

// ID returns the resource identifier mounts reference.
func (d *Directory) ID() string {
	return "src:" + d.path
}

// Path returns the host path the directory was declared with.
func (d *Directory) Path() string {
	return d.path
}

// Glob narrows the directory to files matching the given patterns. Patterns
// accumulate across calls; the executor applies them when materializing the
// mount. Returns the directory for chaining.
func (d *Directory) Glob(patterns ...string) *Directory {
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			panic("directory glob pattern cannot be empty")
		}
		d.globs = append(d.globs, pattern)
	}
	return d
}

// CacheVolume is a named cache persisted across pipeline runs. Its identity
// in the emitted document is the cache name itself.
type CacheVolume struct {
	name string
}

// ID returns the resource identifier mounts reference.
func (c *CacheVolume) ID() string {
	return c.name
}

// Name returns the cache name.
func (c *CacheVolume) Name() string {
	return c.name
}

type mountKind string

const (
	mountDirectory mountKind = "directory"
	mountCache     mountKind = "cache"
)

// mount ties a resource id to a container path.
type mount struct {
	resource string
	path     string
	kind     mountKind
}
