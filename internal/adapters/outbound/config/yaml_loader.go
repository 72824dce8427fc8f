package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/codequal/codequal/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the project config file looked up in the scanned root.
const FileName = ".codequal.yaml"

// Loader implements domain.ConfigLoader. Sources, first found wins: an
// explicit path, <root>/.codequal.yaml, the [tool.codequal] table of
// <root>/pyproject.toml. With none of them the defaults apply.
type Loader struct {
	explicit string
}

// New creates a Loader that searches the project root.
func New() *Loader { return &Loader{} }

// NewWithPath creates a Loader that reads path instead of searching. A
// .toml path is read as a pyproject file.
func NewWithPath(path string) *Loader { return &Loader{explicit: path} }

func (l *Loader) Load(projectPath string) (domain.ProjectConfig, error) {
	if l.explicit != "" {
		if strings.EqualFold(filepath.Ext(l.explicit), ".toml") {
			cfg, _, err := loadPyproject(l.explicit)
			return cfg, err
		}
		return loadYAML(l.explicit)
	}

	yamlPath := filepath.Join(projectPath, FileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return loadYAML(yamlPath)
	}

	pyproject := filepath.Join(projectPath, pyprojectName)
	if _, err := os.Stat(pyproject); err == nil {
		cfg, found, err := loadPyproject(pyproject)
		if err != nil || found {
			return cfg, err
		}
	}

	return domain.DefaultConfig(), nil
}

// loadYAML decodes on top of the defaults so absent keys keep their values.
func loadYAML(path string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ProjectConfig{}, fmt.Errorf("config file %s not found", path)
		}
		return domain.ProjectConfig{}, err
	}

	cfg := domain.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	cfg, err = cfg.Normalize()
	if err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Marshal renders a config as the YAML written by `codequal init`.
func Marshal(cfg domain.ProjectConfig) ([]byte, error) {
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	header := "# codequal configuration\n" +
		"# Thresholds are exclusive: a value above the limit is reported.\n\n"
	return append([]byte(header), body...), nil
}
