package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/GlintPay/grip/config"
	"github.com/GlintPay/grip/deploy"
	"github.com/GlintPay/grip/logging"
	"github.com/GlintPay/grip/portainer"
	"github.com/GlintPay/grip/secrets"
	"github.com/GlintPay/grip/secrets/setup"
	"github.com/GlintPay/grip/utils"
	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"sigs.k8s.io/yaml"
)

type cli struct {
	configPath   string
	templatePath string
	logLevel     string

	env config.Configuration
	app config.ApplicationConfiguration
}

func Execute() error {
	return NewRootCmd().Execute()
}

func NewRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "gripctl",
		Short:        "Render the compose template with secrets and deploy it through Portainer",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "application YAML file (default $APP_CONFIG_FILE_YML_PATH or application.yml)")
	root.PersistentFlags().StringVar(&c.templatePath, "template", "", "compose template (default deploy.compose.template)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (default $LOG_LEVEL)")

	root.AddCommand(c.renderCmd(), c.deployCmd(), c.watchCmd(), c.varsCmd(), c.endpointsCmd())
	return root
}

func (c *cli) load(cmd *cobra.Command) error {
	logging.SetupConsole(os.Stderr)

	if err := env.Parse(&c.env); err != nil {
		return fmt.Errorf("configuration loading failed: %w", err)
	}

	level := c.env.LogLevel
	if c.logLevel != "" {
		level = c.logLevel
	}
	logging.SetLevel(level)

	path := c.env.ApplicationConfigFileYmlPath
	if c.configPath != "" {
		path = c.configPath
	}

	c.app = config.ApplicationConfiguration{}
	if data, err := os.ReadFile(path); err == nil {
		log.Debug().Msgf("Loading YAML config from %s", utils.FriendlyFileName(path))
		if err := yaml.Unmarshal(data, &c.app); err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
	} else if c.configPath != "" {
		return fmt.Errorf("reading %s: %w", path, err)
	} else {
		log.Debug().Msgf("No config file found: %s", utils.FriendlyFileName(path))
	}

	c.app.ApplyEnvironment(c.env)
	if c.templatePath != "" {
		c.app.Deploy.Compose.Template = c.templatePath
	}
	return nil
}

// pipeline wires the configured secret sources and Portainer client. The returned func closes the sources.
func (c *cli) pipeline(ctx context.Context) (*deploy.Pipeline, func(), error) {
	sources, resolvers, err := setup.Init(ctx, c.app)
	if err != nil {
		return nil, nil, err
	}

	closeAll := func() {
		for _, s := range sources {
			s.Close()
		}
	}

	tracing := c.app.Tracing.Enabled
	return &deploy.Pipeline{
		Config:      c.app.Deploy,
		Sources:     sources,
		Merger:      &secrets.Merger{Resolvers: resolvers, EnableTrace: tracing},
		Portainer:   c.portainerClient(),
		EnableTrace: tracing,
	}, closeAll, nil
}

func (c *cli) portainerClient() *portainer.Client {
	p := c.app.Deploy.Portainer

	opts := []portainer.Option{portainer.WithTracing(c.app.Tracing.Enabled)}
	if p.TimeoutMillis > 0 {
		opts = append(opts, portainer.WithTimeout(time.Duration(p.TimeoutMillis)*time.Millisecond))
	}
	if p.MaxRetries > 0 {
		opts = append(opts, portainer.WithMaxRetries(p.MaxRetries))
	}
	return portainer.NewClient(p.Url, p.Token, opts...)
}

// promptToken asks for the Portainer token when none is configured and stdin is a terminal
func (c *cli) promptToken(cmd *cobra.Command) error {
	if c.app.Deploy.Portainer.Token != "" {
		return nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}

	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Portainer token: ")
	token, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("reading token: %w", err)
	}
	c.app.Deploy.Portainer.Token = string(token)
	return nil
}
