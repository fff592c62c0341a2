package render

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/callrecon/internal/model"
)

// WriteSummary writes s as YAML to path, creating parent directories.
func WriteSummary(path string, s *model.RunSummary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return eris.Wrap(err, "render: marshal summary")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "render: create dir for %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "render: write summary %s", path)
	}
	return nil
}

// ReadSummary loads a summary written by WriteSummary.
func ReadSummary(path string) (*model.RunSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "render: read summary %s", path)
	}
	var s model.RunSummary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, eris.Wrapf(err, "render: parse summary %s", path)
	}
	return &s, nil
}
