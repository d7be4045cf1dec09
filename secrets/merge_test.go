package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name    string
	order   int
	version string
	values  Values
	err     error
}

func (s stubSource) Order() int   { return s.order }
func (s stubSource) Name() string { return s.name }
func (s stubSource) Close()       {}

func (s stubSource) Load(context.Context) (*Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &Snapshot{Version: s.version, Values: s.values}, nil
}

type stubResolver struct {
	values map[string]string
}

func (r stubResolver) CanResolve(value string) bool {
	return len(value) > 4 && value[:4] == "ref:"
}

func (r stubResolver) Resolve(_ context.Context, value string) (string, bool, error) {
	if value == "ref:boom" {
		return "", false, errors.New("boom")
	}
	v, ok := r.values[value[4:]]
	return v, ok, nil
}

func TestMerge(t *testing.T) {
	sources := Sources{
		stubSource{name: "git", order: 10, version: "abc123", values: Values{"ANTHROPIC_API_KEY": "from-git", "IMAGE": "img:1"}},
		stubSource{name: "env", order: 0, values: Values{"ANTHROPIC_API_KEY": "from-env", "TS_AUTHKEY": "ts", "IMAGE": "img:1"}},
		stubSource{name: "file", order: 5, values: Values{"IMAGE": "img:1", "PORTAINER_STACK_ID": "ref:stack"}},
	}

	m := Merger{Resolvers: []ReferenceResolver{stubResolver{values: map[string]string{"stack": "14"}}}}
	values, meta, err := m.Merge(context.Background(), sources)
	require.NoError(t, err)

	assert.Equal(t, Values{
		"ANTHROPIC_API_KEY":  "from-git",
		"TS_AUTHKEY":         "ts",
		"IMAGE":              "img:1",
		"PORTAINER_STACK_ID": "14",
	}, values)

	assert.Equal(t, "git > file > env", meta.PrecedenceDisplayMessage)
	assert.Equal(t, map[string]string{"git": "abc123"}, meta.Versions)
	assert.Equal(t, "git", meta.Origins["ANTHROPIC_API_KEY"])
	assert.Equal(t, "env", meta.Origins["TS_AUTHKEY"])
	assert.ElementsMatch(t, []Duplicate{{Key: "IMAGE", Source: "file"}, {Key: "IMAGE", Source: "git"}}, meta.PointlessOverrides)

	// the caller's slice order is untouched
	assert.Equal(t, "git", sources[0].Name())
}

func TestMergeFailures(t *testing.T) {
	tests := []struct {
		name    string
		sources Sources
		wantErr string
	}{
		{
			name:    "source error",
			sources: Sources{stubSource{name: "git", err: errors.New("auth failed")}},
			wantErr: "secret source [git]: auth failed",
		},
		{
			name:    "reference not found",
			sources: Sources{stubSource{name: "env", values: Values{"B": "ref:nope", "A": "ref:nada"}}},
			wantErr: "referenced secrets not found for: A, B",
		},
		{
			name:    "reference error",
			sources: Sources{stubSource{name: "env", values: Values{"A": "ref:boom"}}},
			wantErr: "resolving [A]: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Merger{Resolvers: []ReferenceResolver{stubResolver{}}}
			_, _, err := m.Merge(context.Background(), tt.sources)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestMergeNothing(t *testing.T) {
	values, meta, err := (&Merger{}).Merge(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, values)
	assert.Equal(t, "", meta.PrecedenceDisplayMessage)
}

func TestValuesNames(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, Values{"C": "", "A": "", "B": ""}.Names())
}
