package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/codequal/codequal/internal/domain"
)

const pyprojectName = "pyproject.toml"

type pyprojectFile struct {
	Tool struct {
		Codequal domain.ProjectConfig `toml:"codequal"`
	} `toml:"tool"`
}

// loadPyproject reads the [tool.codequal] table. found is false when the
// file has no such table.
func loadPyproject(path string) (domain.ProjectConfig, bool, error) {
	var doc pyprojectFile
	doc.Tool.Codequal = domain.DefaultConfig()

	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return domain.ProjectConfig{}, false, fmt.Errorf("parsing %s: %w", pyprojectName, err)
	}
	if !meta.IsDefined("tool", "codequal") {
		return domain.DefaultConfig(), false, nil
	}

	cfg, err := doc.Tool.Codequal.Normalize()
	if err != nil {
		return domain.ProjectConfig{}, true, fmt.Errorf("invalid [tool.codequal] in %s: %w", pyprojectName, err)
	}
	return cfg, true, nil
}
