package policy

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a policy configuration file.
type File struct {
	Policies []Definition `yaml:"policies"`
}

// Loader reads policy definitions from YAML files.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a policy file loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadFile parses a YAML policy file into definitions. Requirement specs
// are validated by construction later, via FromDefinitions; this step only
// checks the document shape.
func (l *Loader) LoadFile(path string) ([]Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}
	if len(file.Policies) == 0 {
		return nil, fmt.Errorf("policy file %s defines no policies", path)
	}

	l.logger.Info("Loaded policy definitions",
		zap.String("file", path),
		zap.Int("policies", len(file.Policies)),
	)

	return file.Policies, nil
}
