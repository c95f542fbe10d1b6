package adapter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	m "treedup.dev/pkg/treedup/internal/model"
)

// RunReportStore persists run reports so a scan can leave a machine
// readable record of what it decided.
type RunReportStore interface {
	SaveReport(path m.Path, report m.RunReport) error
	LoadReport(path m.Path) (m.RunReport, error)
}

// YAMLReportStore stores run reports as YAML files.
type YAMLReportStore struct{}

// NewYAMLReportStore constructs a YAMLReportStore.
func NewYAMLReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveReport implements RunReportStore.
func (s *YAMLReportStore) SaveReport(path m.Path, report m.RunReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o644); err != nil {
		return fmt.Errorf("write run report: %w", err)
	}

	return nil
}

// LoadReport implements RunReportStore.
func (s *YAMLReportStore) LoadReport(path m.Path) (m.RunReport, error) {
	var report m.RunReport

	data, err := os.ReadFile(string(path))
	if err != nil {
		return report, fmt.Errorf("read run report: %w", err)
	}

	if err := yaml.Unmarshal(data, &report); err != nil {
		return report, fmt.Errorf("unmarshal run report: %w", err)
	}

	return report, nil
}
