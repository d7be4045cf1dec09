package compose

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

type Project struct {
	Services []Service
}

type Service struct {
	Name    string
	Image   string
	Ports   []string
	Volumes []string
}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
}

type composeService struct {
	Image   string `yaml:"image"`
	Build   any    `yaml:"build"`
	Ports   []any  `yaml:"ports"`
	Volumes []any  `yaml:"volumes"`
}

// Validate parses rendered compose content. It must be YAML with at least one service, and each
// service needs an image or a build section.
func Validate(content []byte) (*Project, error) {
	var f composeFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("rendered compose file is not valid YAML: %w", err)
	}
	if len(f.Services) == 0 {
		return nil, errors.New("rendered compose file defines no services")
	}

	project := &Project{}
	for name, svc := range f.Services {
		if svc.Image == "" && svc.Build == nil {
			return nil, fmt.Errorf("service [%s] has neither image nor build", name)
		}
		project.Services = append(project.Services, Service{
			Name:    name,
			Image:   svc.Image,
			Ports:   stringify(svc.Ports),
			Volumes: stringify(svc.Volumes),
		})
	}

	sort.Slice(project.Services, func(i, j int) bool {
		return project.Services[i].Name < project.Services[j].Name
	})
	return project, nil
}

// Long-form port/volume mappings are reduced to their target
func stringify(entries []any) []string {
	var out []string
	for _, e := range entries {
		switch typed := e.(type) {
		case string:
			out = append(out, typed)
		case map[string]any:
			if target, ok := typed["target"]; ok {
				out = append(out, fmt.Sprintf("%v", target))
			}
		default:
			out = append(out, fmt.Sprintf("%v", typed))
		}
	}
	return out
}
