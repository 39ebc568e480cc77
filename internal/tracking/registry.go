package tracking

import (
	"fmt"
	"sort"
	"strings"
)

type registration struct {
	rank int
	New  func() (Backend, error)
}

var backends = map[string]registration{}

// register makes a backend available under name. Lower ranks are tried first
// by DefaultFactories.
func register(name string, rank int, fn func() (Backend, error)) {
	backends[name] = registration{rank: rank, New: fn}
}

// Available lists the registered backend names in default order.
func Available() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := backends[names[i]].rank, backends[names[j]].rank
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
	return names
}

// DefaultFactories returns a factory for every registered backend in
// default order.
func DefaultFactories() []Factory {
	factories, _ := Factories(Available())
	return factories
}

// Factories resolves backend names to factories, preserving the given order.
// An empty list selects DefaultFactories.
func Factories(names []string) ([]Factory, error) {
	if len(names) == 0 {
		names = Available()
	}
	factories := make([]Factory, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		reg, ok := backends[name]
		if !ok {
			return nil, fmt.Errorf("unknown tracker backend %q (available: %s)", name, strings.Join(Available(), ", "))
		}
		factories = append(factories, Factory{Name: name, New: reg.New})
	}
	return factories, nil
}
