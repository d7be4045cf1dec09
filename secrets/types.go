package secrets

import (
	"context"
	"sort"
)

// Values maps a secret name, as referenced from a compose template, to its value
type Values map[string]string

func (v Values) Lookup(name string) (string, bool) {
	val, ok := v[name]
	return val, ok
}

func (v Values) Names() []string {
	names := make([]string, 0, len(v))
	for k := range v {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type Sources []Source

type Source interface {
	Ordering
	Name() string
	Load(ctx context.Context) (*Snapshot, error)
	Close()
}

type Ordering interface {
	Order() int // higher wins when the same name is offered by several sources
}

type Snapshot struct {
	Version string
	Values  Values
}

// ReferenceResolver dereferences values that point elsewhere, e.g. `k8s/secret:ns/name/key`
type ReferenceResolver interface {
	CanResolve(value string) bool
	Resolve(ctx context.Context, value string) (string, bool, error)
}

type Metadata struct {
	PrecedenceDisplayMessage string
	Versions                 map[string]string // source name -> version, when the source has one
	Origins                  map[string]string // secret name -> winning source name
	PointlessOverrides       []Duplicate
}
