package registry

import (
	"fmt"
	"os"

	"probectl/internal/domain"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk catalog format. Omitted enabled flags default to true.
type catalogFile struct {
	Suites []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Enabled     *bool  `yaml:"enabled"`
		Cases       []struct {
			ID          string          `yaml:"id"`
			Name        string          `yaml:"name"`
			Description string          `yaml:"description"`
			Category    domain.Category `yaml:"category"`
			Priority    domain.Priority `yaml:"priority"`
			Enabled     *bool           `yaml:"enabled"`
		} `yaml:"cases"`
	} `yaml:"suites"`
}

// Load reads a YAML catalog and creates a Registry from it
func Load(path string) (*Registry, error) {
	suites, err := loadCatalog(path)
	if err != nil {
		return nil, err
	}
	r, err := New(suites)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return r, nil
}

func loadCatalog(path string) ([]domain.TestSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}

	suites := make([]domain.TestSuite, 0, len(file.Suites))
	for _, fs := range file.Suites {
		s := domain.TestSuite{
			ID:          fs.ID,
			Name:        fs.Name,
			Description: fs.Description,
			Enabled:     enabledOrDefault(fs.Enabled),
		}
		for _, fc := range fs.Cases {
			priority := fc.Priority
			if priority == "" {
				priority = domain.PriorityMedium
			}
			s.Cases = append(s.Cases, domain.TestCase{
				ID:          fc.ID,
				Name:        fc.Name,
				Description: fc.Description,
				Category:    fc.Category,
				Priority:    priority,
				Enabled:     enabledOrDefault(fc.Enabled),
			})
		}
		suites = append(suites, s)
	}
	return suites, nil
}

func enabledOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
