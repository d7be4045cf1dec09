package env

import (
	"context"
	"os"
	"strings"

	"github.com/GlintPay/grip/config"
	"github.com/GlintPay/grip/secrets"
)

const SourceName = "env"

// Source offers process environment variables, as exported into a CI job from repository secrets
type Source struct {
	Config  config.EnvSourceConfig
	Environ func() []string
}

func (s *Source) Order() int {
	return s.Config.Order
}

func (s *Source) Name() string {
	return SourceName
}

func (s *Source) Load(_ context.Context) (*secrets.Snapshot, error) {
	environ := s.Environ
	if environ == nil {
		environ = os.Environ
	}

	var allowed map[string]bool
	if len(s.Config.Names) > 0 {
		allowed = make(map[string]bool, len(s.Config.Names))
		for _, n := range s.Config.Names {
			allowed[n] = true
		}
	}

	values := make(secrets.Values)
	for _, kv := range environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		if s.Config.Prefix != "" {
			if !strings.HasPrefix(k, s.Config.Prefix) {
				continue
			}
			k = strings.TrimPrefix(k, s.Config.Prefix)
			if k == "" {
				continue
			}
		}
		if allowed != nil && !allowed[k] {
			continue
		}
		values[k] = v
	}

	return &secrets.Snapshot{Values: values}, nil
}

func (s *Source) Close() {
	// NOOP
}
