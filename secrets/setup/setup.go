package setup

import (
	"context"

	"github.com/GlintPay/grip/config"
	"github.com/GlintPay/grip/secrets"
	"github.com/GlintPay/grip/secrets/env"
	"github.com/GlintPay/grip/secrets/file"
	"github.com/GlintPay/grip/secrets/git"
	"github.com/GlintPay/grip/secrets/k8s"
	"github.com/rs/zerolog/log"
)

type k8sClientFactory func(config.K8sConfig) (*k8s.Client, error)

// Init builds the configured secret sources and reference resolvers
func Init(ctx context.Context, appConfig config.ApplicationConfiguration) (secrets.Sources, []secrets.ReferenceResolver, error) {
	return initWith(ctx, appConfig, k8s.NewClient)
}

func initWith(ctx context.Context, appConfig config.ApplicationConfiguration, newK8sClient k8sClientFactory) (secrets.Sources, []secrets.ReferenceResolver, error) {
	cfg := appConfig.Deploy.Secrets

	var sources secrets.Sources

	if cfg.Env.Disabled {
		log.Info().Msg("Env secret source is disabled")
	} else {
		log.Info().Msg("Enabling env secret source")
		sources = append(sources, &env.Source{Config: cfg.Env})
	}

	if cfg.File.Disabled || len(cfg.File.Paths) == 0 {
		log.Info().Msg("File secret source is disabled")
	} else {
		log.Info().Msg("Enabling file secret source")
		sources = append(sources, &file.Source{Config: cfg.File})
	}

	if cfg.Git.Enabled {
		log.Info().Msg("Enabling git secret source")
		gitSource := &git.Source{Config: cfg.Git, EnableTrace: appConfig.Tracing.Enabled}
		if err := gitSource.Init(ctx); err != nil {
			return nil, nil, err
		}
		sources = append(sources, gitSource)
	}

	var resolvers []secrets.ReferenceResolver
	if cfg.K8s.Enabled {
		log.Info().Msg("Enabling k8s secret references")
		client, err := newK8sClient(cfg.K8s)
		if err != nil {
			return nil, nil, err
		}
		resolvers = append(resolvers, k8s.NewResolver(client, cfg.K8s))
	}

	return sources, resolvers, nil
}
