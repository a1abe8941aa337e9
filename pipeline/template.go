package pipeline

import "fmt"

// Template is a reusable bundle of task configuration: container image,
// workdir, env, and mounts. Tasks apply one with Task.From.
type Template struct {
	pipeline *Pipeline
	name     string

	container string
	workdir   string
	env       map[string]string
	mounts    []mount
}

// Name returns the template name.
func (t *Template) Name() string {
	return t.name
}

// Container sets the container image. Empty images panic.
func (t *Template) Container(image string) *Template {
	if image == "" {
		panic(fmt.Sprintf("template %q: container image cannot be empty", t.name))
	}
	t.container = image
	return t
}

// Workdir sets the working directory. The path must be absolute; tasks
// inherit it as-is, so the check applies here too.
func (t *Template) Workdir(path string) *Template {
	if path != "" && path[0] != '/' {
		panic(fmt.Sprintf("template %q: workdir must be absolute, got %q", t.name, path))
	}
	t.workdir = path
	return t
}

// Env sets an environment variable. Later writes to the same key win.
func (t *Template) Env(key, value string) *Template {
	if key == "" {
		panic(fmt.Sprintf("template %q: env key cannot be empty", t.name))
	}
	if t.env == nil {
		t.env = make(map[string]string)
	}
	t.env[key] = value
	return t
}

// Mount adds a directory mount at an absolute container path.
func (t *Template) Mount(dir *Directory, path string) *Template {
	if dir == nil {
		panic(fmt.Sprintf("template %q: mount directory cannot be nil", t.name))
	}
	mustAbsolutePath(fmt.Sprintf("template %q", t.name), path)
	t.mounts = append(t.mounts, mount{resource: dir.ID(), path: path, kind: mountDirectory})
	t.pipeline.registerDir(dir)
	return t
}

// MountCache adds a cache mount at an absolute container path.
func (t *Template) MountCache(cache *CacheVolume, path string) *Template {
	if cache == nil {
		panic(fmt.Sprintf("template %q: mount cache cannot be nil", t.name))
	}
	mustAbsolutePath(fmt.Sprintf("template %q", t.name), path)
	t.mounts = append(t.mounts, mount{resource: cache.ID(), path: path, kind: mountCache})
	t.pipeline.registerCache(cache)
	return t
}

func mustAbsolutePath(owner, path string) {
	if path == "" || path[0] != '/' {
		panic(fmt.Sprintf("%s: mount path must be absolute, got %q", owner, path))
	}
}
