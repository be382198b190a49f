package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"projectdash/internal/domain/models"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

// IntRange is an inclusive range
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Fixtures are the templates demo projects are drawn from
type Fixtures struct {
	NamePrefixes  []string              `yaml:"name_prefixes"`
	NameSuffixes  []string              `yaml:"name_suffixes"`
	TeamMembers   []string              `yaml:"team_members"`
	StatusWeights map[models.Status]int `yaml:"status_weights"`
	DeadlineDays  IntRange              `yaml:"deadline_days"`
	Budget        IntRange              `yaml:"budget"`
}

// LoadFixtures parses the embedded fixtures file
func LoadFixtures() (*Fixtures, error) {
	return ParseFixtures(fixturesYAML)
}

// ParseFixtures parses and checks a fixtures document
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixtures: %w", err)
	}

	switch {
	case len(f.NamePrefixes) == 0 || len(f.NameSuffixes) == 0:
		return nil, fmt.Errorf("fixtures need at least one name prefix and suffix")
	case len(f.TeamMembers) == 0:
		return nil, fmt.Errorf("fixtures need at least one team member")
	case f.DeadlineDays.Min > f.DeadlineDays.Max:
		return nil, fmt.Errorf("deadline_days: min > max")
	case f.Budget.Min < 0 || f.Budget.Min > f.Budget.Max:
		return nil, fmt.Errorf("budget: need 0 <= min <= max")
	}

	total := 0
	for status, weight := range f.StatusWeights {
		if !status.Valid() {
			return nil, fmt.Errorf("status_weights: unknown status %q", status)
		}
		if weight < 0 {
			return nil, fmt.Errorf("status_weights: negative weight for %s", status)
		}
		total += weight
	}
	if total == 0 {
		return nil, fmt.Errorf("status_weights: at least one weight must be positive")
	}

	return &f, nil
}
