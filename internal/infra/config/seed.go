package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedProject is one entry in the optional project seed file.
type SeedProject struct {
	Path string `yaml:"path"`
	Name string `yaml:"name,omitempty"`
}

// seedFile is the YAML structure of the seed file.
type seedFile struct {
	Projects []SeedProject `yaml:"projects"`
}

// LoadProjectSeed reads the optional YAML seed file listing repository paths
// to auto-register at startup. A missing file yields an empty list.
func LoadProjectSeed(path string) ([]SeedProject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read project seed file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse project seed file: %w", err)
	}

	seeds := file.Projects[:0]
	for _, p := range file.Projects {
		if p.Path != "" {
			seeds = append(seeds, p)
		}
	}
	return seeds, nil
}
