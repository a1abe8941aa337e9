package pipeline

import (
	"fmt"
	"strings"
)

// SecretRef is a typed secret declaration: the name tasks refer to it by,
// the source it resolves from, and a source-specific key. Construct one
// with SecretFromEnv, SecretFromFile, or SecretFromVault.
type SecretRef struct {
	name   string
	source string
	key    string
}

// SecretFromEnv declares a secret resolved from an environment variable on
// the executor host.
func SecretFromEnv(name, variable string) SecretRef {
	return newSecretRef(name, "env", variable)
}

// SecretFromFile declares a secret resolved from a file path on the
// executor host.
func SecretFromFile(name, path string) SecretRef {
	return newSecretRef(name, "file", path)
}

// SecretFromVault declares a secret resolved from Vault. The key must be
// "<path>#<field>"; a key without '#' panics.
func SecretFromVault(name, key string) SecretRef {
	if !strings.Contains(key, "#") {
		panic(fmt.Sprintf("vault secret %q: key %q must be '<path>#<field>'", name, key))
	}
	return newSecretRef(name, "vault", key)
}

func newSecretRef(name, source, key string) SecretRef {
	if strings.TrimSpace(name) == "" {
		panic("secret name cannot be empty")
	}
	if strings.TrimSpace(key) == "" {
		panic(fmt.Sprintf("secret %q: key cannot be empty", name))
	}
	return SecretRef{name: name, source: source, key: key}
}

// Name returns the name tasks declare the secret under.
func (r SecretRef) Name() string { return r.name }

// Source returns the resolution source: env, file, or vault.
func (r SecretRef) Source() string { return r.source }

// Key returns the source-specific lookup key.
func (r SecretRef) Key() string { return r.key }

// IsZero reports whether the ref was never constructed.
func (r SecretRef) IsZero() bool { return r.source == "" }
