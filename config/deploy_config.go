package config

import (
	"errors"
	"fmt"
)

type DeployConfig struct {
	Portainer PortainerConfig
	Compose   ComposeConfig
	Secrets   SecretsConfig
	Watch     WatchConfig
}

type PortainerConfig struct {
	Url        string
	Token      string
	EndpointId int `json:"endpointId"`
	StackId    int `json:"stackId"`

	TimeoutMillis int64 `json:"timeout"`
	MaxRetries    int   `json:"maxRetries"`

	Prune     bool
	PullImage bool `json:"pullImage"`
}

type ComposeConfig struct {
	Template     string
	AllowMissing bool `json:"allowMissing"`
}

type SecretsConfig struct {
	Env  EnvSourceConfig
	File FileSourceConfig
	Git  GitConfig
	K8s  K8sConfig
}

type EnvSourceConfig struct {
	Disabled bool
	Order    int
	Prefix   string   // only variables with this prefix are offered, with the prefix stripped
	Names    []string // optional allow-list, applied after prefix stripping
}

type FileSourceConfig struct {
	Disabled bool
	Order    int
	Paths    []string // .env or .yml/.yaml files, SOPS-encrypted YAML is decrypted
}

type WatchConfig struct {
	IntervalMillis int64 `json:"interval"`
}

// Validate checks the settings needed to talk to Portainer.
func (p PortainerConfig) Validate() error {
	var errs []error
	if p.Url == "" {
		errs = append(errs, errors.New("portainer url is not set"))
	}
	if p.Token == "" {
		errs = append(errs, errors.New("portainer token is not set"))
	}
	if p.EndpointId <= 0 {
		errs = append(errs, fmt.Errorf("invalid portainer endpoint id %d", p.EndpointId))
	}
	if p.StackId <= 0 {
		errs = append(errs, fmt.Errorf("invalid portainer stack id %d", p.StackId))
	}
	return errors.Join(errs...)
}
