package scoring

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// Criterion is one named scoring dimension of an editathon.
type Criterion struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Max    float64 `json:"max"`
	Weight float64 `json:"weight"`
}

// Config describes the scoring schema of an editathon: its criteria, their
// weights and value ranges, and the conflict tolerance. It is supplied by the
// editathon definition, not owned by this package.
type Config struct {
	Criteria  []Criterion `json:"criteria"`
	Tolerance float64     `json:"tolerance"`
}

// ParseConfig decodes and validates a stored marks configuration.
func ParseConfig(raw datatypes.JSON) (Config, error) {
	if len(raw) == 0 {
		return Config{}, fmt.Errorf("marks config is empty")
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid marks config: %w", err)
	}

	if len(cfg.Criteria) == 0 {
		return Config{}, fmt.Errorf("marks config declares no criteria")
	}

	seen := map[string]struct{}{}
	for _, criterion := range cfg.Criteria {
		if criterion.ID == "" {
			return Config{}, fmt.Errorf("criterion id must not be empty")
		}
		if _, dup := seen[criterion.ID]; dup {
			return Config{}, fmt.Errorf("duplicate criterion id %q", criterion.ID)
		}
		seen[criterion.ID] = struct{}{}

		if criterion.Max <= 0 {
			return Config{}, fmt.Errorf("criterion %q max must be positive", criterion.ID)
		}
		if criterion.Weight <= 0 {
			return Config{}, fmt.Errorf("criterion %q weight must be positive", criterion.ID)
		}
	}

	if cfg.Tolerance < 0 {
		return Config{}, fmt.Errorf("tolerance must not be negative")
	}

	return cfg, nil
}

func (c Config) weightSum() float64 {
	var sum float64
	for _, criterion := range c.Criteria {
		sum += criterion.Weight
	}
	return sum
}
