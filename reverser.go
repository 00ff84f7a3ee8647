package rawhttp

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Reverser keeps track of named routes so pages can link to them without hardcoding paths.
type Reverser struct {
	paths map[string]string
}

// NewReverser inits the reverser.
func NewReverser() *Reverser {
	return &Reverser{make(map[string]string)}
}

// Reverse returns the path registered under name.
func (r Reverser) Reverse(name string) (string, error) {
	path, ok := r.paths[name]
	if !ok {
		return "", fmt.Errorf("no route named: %q, got: %v", name, r.Names()) //nolint:goerr113
	}

	return path, nil
}

// Names returns the registered route names in sorted order.
func (r Reverser) Names() []string {
	names := lo.Keys(r.paths)
	slices.Sort(names)

	return names
}

// Named is a convenience method that panics if naming the path fails.
func (r Reverser) Named(name, path string) string {
	path, err := r.NamedPath(name, path)
	if err != nil {
		panic("rawhttp: " + err.Error())
	}

	return path
}

// NamedPath records path under name while returning it as well.
func (r Reverser) NamedPath(name, path string) (string, error) {
	if _, exists := r.paths[name]; exists {
		return path, fmt.Errorf("route with name %q already exists", name) //nolint:goerr113
	}

	r.paths[name] = path

	return path, nil
}
