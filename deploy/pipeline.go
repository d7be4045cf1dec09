package deploy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/GlintPay/grip/compose"
	"github.com/GlintPay/grip/config"
	gotel "github.com/GlintPay/grip/otel"
	"github.com/GlintPay/grip/portainer"
	"github.com/GlintPay/grip/secrets"
	"github.com/rs/zerolog/log"
)

// StackClient is the part of the Portainer API a deployment needs
type StackClient interface {
	GetStackFile(ctx context.Context, id int) (string, error)
	UpdateStack(ctx context.Context, id int, endpointID int, req portainer.StackUpdateRequest) (*portainer.Stack, error)
}

type Pipeline struct {
	Config      config.DeployConfig
	Sources     secrets.Sources
	Merger      *secrets.Merger
	Portainer   StackClient
	ReadFile    func(name string) ([]byte, error)
	EnableTrace bool
}

type Request struct {
	DryRun    bool
	Prune     bool
	PullImage bool
	Force     bool // update even when the stack already runs the rendered file
}

// Plan is a rendered, validated template ready to be sent
type Plan struct {
	Template   string
	Content    []byte
	Hash       string
	Used       []string
	Missing    []string
	Services   []string
	Precedence string
	Env        []portainer.Pair
	values     secrets.Values
}

// Redacted returns the rendered content with every used secret masked
func (p *Plan) Redacted() string {
	return Redact(string(p.Content), p.values)
}

type Report struct {
	Plan     *Plan
	StackId  int
	Endpoint int
	DryRun   bool
	Changed  bool
	Deployed bool
	Duration time.Duration
}

func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()

	plan, err := p.Prepare(ctx)
	if err != nil {
		observe(ResultError, start)
		return nil, err
	}

	report, err := p.Deploy(ctx, plan, req)
	if err != nil {
		observe(ResultError, start)
		return nil, err
	}
	report.Duration = time.Since(start)

	switch {
	case report.DryRun:
		observe(ResultDryRun, start)
	case report.Deployed:
		observe(ResultDeployed, start)
	default:
		observe(ResultUnchanged, start)
	}
	return report, nil
}

// Prepare reads the template, merges secrets, renders and validates
func (p *Pipeline) Prepare(ctx context.Context) (*Plan, error) {
	ctx, end := gotel.StartSpan(ctx, p.EnableTrace, "prepare-deployment", gotel.ServerOptions)
	defer end()

	readFile := p.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	name := p.Config.Compose.Template
	body, err := readFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}

	merger := p.Merger
	if merger == nil {
		merger = &secrets.Merger{EnableTrace: p.EnableTrace}
	}
	values, meta, err := merger.Merge(ctx, p.Sources)
	if err != nil {
		return nil, err
	}
	log.Debug().Msgf("Secret precedence: %s", meta.PrecedenceDisplayMessage)

	result, err := compose.Render(compose.Template{Name: name, Body: body}, values.Lookup, compose.Options{AllowMissing: p.Config.Compose.AllowMissing})
	if err != nil {
		return nil, err
	}

	project, err := compose.Validate(result.Content)
	if err != nil {
		return nil, err
	}

	used := make(secrets.Values, len(result.Used))
	env := make([]portainer.Pair, 0, len(result.Used))
	for _, n := range result.Used {
		used[n] = values[n]
		env = append(env, portainer.Pair{Name: n, Value: values[n]})
	}

	services := make([]string, 0, len(project.Services))
	for _, s := range project.Services {
		services = append(services, s.Name)
	}

	sum := sha256.Sum256(result.Content)

	return &Plan{
		Template:   name,
		Content:    result.Content,
		Hash:       hex.EncodeToString(sum[:]),
		Used:       result.Used,
		Missing:    result.Missing,
		Services:   services,
		Precedence: meta.PrecedenceDisplayMessage,
		Env:        env,
		values:     used,
	}, nil
}

// Deploy sends a prepared plan unless it is a dry run or the stack already has the same file
func (p *Pipeline) Deploy(ctx context.Context, plan *Plan, req Request) (*Report, error) {
	ctx, end := gotel.StartSpan(ctx, p.EnableTrace, "deploy-stack", gotel.ServerOptions)
	defer end()

	cfg := p.Config.Portainer
	report := &Report{Plan: plan, StackId: cfg.StackId, Endpoint: cfg.EndpointId, DryRun: req.DryRun}

	if req.DryRun {
		log.Info().Msgf("Dry run: rendered [%s] with %d variable(s) for services %v", plan.Template, len(plan.Used), plan.Services)
		return report, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if p.Portainer == nil {
		return nil, fmt.Errorf("no portainer client configured")
	}

	if !req.Force {
		current, err := p.Portainer.GetStackFile(ctx, cfg.StackId)
		if err != nil {
			return nil, fmt.Errorf("fetching current stack file: %w", err)
		}
		if normalise(current) == normalise(string(plan.Content)) {
			log.Info().Msgf("Stack %d already runs this compose file, nothing to deploy", cfg.StackId)
			return report, nil
		}
	}
	report.Changed = true

	update := portainer.StackUpdateRequest{
		StackFileContent: string(plan.Content),
		Env:              plan.Env,
		Prune:            req.Prune || cfg.Prune,
		PullImage:        req.PullImage || cfg.PullImage,
	}

	stack, err := p.Portainer.UpdateStack(ctx, cfg.StackId, cfg.EndpointId, update)
	if err != nil {
		return nil, fmt.Errorf("updating stack %d: %s", cfg.StackId, Redact(err.Error(), plan.values))
	}

	log.Info().Msgf("Deployed stack %d (%s) to endpoint %d", stack.Id, stack.Name, cfg.EndpointId)
	report.Deployed = true
	return report, nil
}

func normalise(s string) string {
	return strings.TrimRight(strings.ReplaceAll(s, "\r\n", "\n"), "\n ")
}
