package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/workshop/pkg/domain"
	"gopkg.in/yaml.v3"
)

// CueConfig maps one cue to the command that plays it.
type CueConfig struct {
	Cue         domain.Cue        `yaml:"cue" json:"cue"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
}

// ConfigFile represents the structure of a cues.yaml file.
type ConfigFile struct {
	Cues []CueConfig `yaml:"cues" json:"cues"`
}

// LoadCues reads a cue configuration file (YAML or JSON).
// Cues that are not listed stay silent.
func LoadCues(path string) (map[domain.Cue]CueConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cue config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	cues := make(map[domain.Cue]CueConfig, len(cfg.Cues))
	for _, c := range cfg.Cues {
		switch c.Cue {
		case domain.CueCorrect, domain.CueIncorrect, domain.CueDrag, domain.CueDrop:
		default:
			return nil, fmt.Errorf("unknown cue %q", c.Cue)
		}
		if c.Command == "" {
			return nil, fmt.Errorf("cue %q has no command", c.Cue)
		}
		cues[c.Cue] = c
	}
	return cues, nil
}
