package config

import "github.com/GlintPay/grip/utils"

// Configuration is read from the process environment. The Portainer values arrive as CI secrets
// and take precedence over anything in the YAML file.
type Configuration struct {
	ApplicationConfigFileYmlPath string `env:"APP_CONFIG_FILE_YML_PATH" envDefault:"application.yml"`
	DataDir                      string `env:"DATA_DIR" envDefault:"/data"`
	LogLevel                     string `env:"LOG_LEVEL" envDefault:"info"`
	AnthropicApiKey              string `env:"ANTHROPIC_API_KEY"`

	// SecretNames is a comma-separated allow-list for the env secret source
	SecretNames string `env:"GRIP_SECRET_NAMES"`

	PortainerUrl        string `env:"PORTAINER_URL"`
	PortainerToken      string `env:"PORTAINER_TOKEN"`
	PortainerEndpointId int    `env:"PORTAINER_ENDPOINT_ID"`
	PortainerStackId    int    `env:"PORTAINER_STACK_ID"`
}

// ApplicationConfiguration Must use full names for `sigs.k8s.io/yaml`
type ApplicationConfiguration struct {
	Server     Server
	Prometheus Prometheus
	Tracing    Tracing
	Database   Database
	Insights   Insights
	Deploy     DeployConfig
}

type Server struct {
	Host string
	Port int
}

type Tracing struct {
	Enabled         bool
	Endpoint        string
	SamplerFraction float64
}

type Prometheus struct {
	Path string
}

type Database struct {
	Dir      string
	FileName string `json:"fileName"`
}

type Insights struct {
	Model       string
	MaxTokens   int64 `json:"maxTokens"`
	ContextDays int   `json:"contextDays"`
}

const (
	DefaultHost         = "0.0.0.0"
	DefaultPort         = 8000
	DefaultDbFileName   = "grip.db"
	DefaultModel        = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens    = 1024
	DefaultContextDays  = 30
	DefaultTemplatePath = "docker-compose.yml"
)

// ApplyEnvironment overlays env-sourced values and fills defaults.
func (c *ApplicationConfiguration) ApplyEnvironment(env Configuration) {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}

	if c.Database.Dir == "" {
		c.Database.Dir = env.DataDir
	}
	if c.Database.FileName == "" {
		c.Database.FileName = DefaultDbFileName
	}

	if c.Insights.Model == "" {
		c.Insights.Model = DefaultModel
	}
	if c.Insights.MaxTokens <= 0 {
		c.Insights.MaxTokens = DefaultMaxTokens
	}
	if c.Insights.ContextDays <= 0 {
		c.Insights.ContextDays = DefaultContextDays
	}

	p := &c.Deploy.Portainer
	if env.PortainerUrl != "" {
		p.Url = env.PortainerUrl
	}
	if env.PortainerToken != "" {
		p.Token = env.PortainerToken
	}
	if env.PortainerEndpointId != 0 {
		p.EndpointId = env.PortainerEndpointId
	}
	if env.PortainerStackId != 0 {
		p.StackId = env.PortainerStackId
	}

	if names := utils.SplitNonEmpty(env.SecretNames); len(names) > 0 {
		c.Deploy.Secrets.Env.Names = names
	}

	if c.Deploy.Compose.Template == "" {
		c.Deploy.Compose.Template = DefaultTemplatePath
	}
}
