package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Project is the optional .wisprc.yaml project configuration: module
// search roots for `import`, and whether the built-in prelude
// (internal/builtins) is registered automatically.
type Project struct {
	ModulePath    []string `yaml:"modulePath"`
	EnablePrelude *bool    `yaml:"enablePrelude"`
}

// DefaultProject is returned by LoadProject when no config file exists.
func DefaultProject() Project {
	enabled := true
	return Project{ModulePath: []string{"."}, EnablePrelude: &enabled}
}

// LoadProject reads a .wisprc.yaml file at path. A missing file is not an
// error: DefaultProject() is returned instead, matching how a project
// with no config behaves identically to one with an empty config.
func LoadProject(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultProject(), nil
	}
	if err != nil {
		return Project{}, err
	}

	proj := DefaultProject()
	if err := yaml.Unmarshal(data, &proj); err != nil {
		return Project{}, err
	}
	if len(proj.ModulePath) == 0 {
		proj.ModulePath = []string{"."}
	}
	return proj, nil
}

// PreludeEnabled reports whether the built-in prelude should be loaded.
func (p Project) PreludeEnabled() bool {
	return p.EnablePrelude == nil || *p.EnablePrelude
}
