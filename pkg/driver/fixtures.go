package driver

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"rolex/interpreter-go/pkg/diag"
)

// Fixture is one end-to-end execution case: a full source text, optional
// stdin lines, and the expected outcome.
type Fixture struct {
	Name   string      `yaml:"name"`
	Source string      `yaml:"source"`
	Stdin  string      `yaml:"stdin"`
	Expect Expectation `yaml:"expect"`
}

// Expectation describes how a fixture should end. Either Output (the exact
// stdout text) or Error/Kind (a substring of the rendered diagnostic and its
// kind name) is set.
type Expectation struct {
	Output string `yaml:"output"`
	Error  string `yaml:"error"`
	Kind   string `yaml:"kind"`
}

// ExpectedKind resolves the textual kind name of the expectation.
func (e Expectation) ExpectedKind() (diag.Kind, bool) {
	if e.Kind == "" {
		return 0, false
	}
	return diag.KindFromName(e.Kind)
}

// LoadFixtureFile decodes one YAML document holding a list of fixtures.
func LoadFixtureFile(path string) ([]Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fixtures []Fixture
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, err
	}
	return fixtures, nil
}

// LoadFixtureDir loads every .yaml file under dir, sorted by file name.
func LoadFixtureDir(dir string) ([]Fixture, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	var all []Fixture
	for _, path := range paths {
		fixtures, err := LoadFixtureFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, fixtures...)
	}
	return all, nil
}
