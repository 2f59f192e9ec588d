package scoring

import (
	"encoding/json"
	"fmt"

	"github.com/In1quity/Fountain/internal/models"
)

// JurorScore is one juror's decoded mark: per-criterion values and the
// weighted overall score.
type JurorScore struct {
	Juror   string             `json:"juror"`
	Parts   map[string]float64 `json:"parts"`
	Overall float64            `json:"overall"`
	Comment string             `json:"comment,omitempty"`
}

// Aggregate combines all submitted marks for one article: the mean per
// criterion across jurors who marked it, and the weighted overall score.
// A juror who has not marked contributes nothing.
type Aggregate struct {
	Criteria map[string]float64 `json:"criteria"`
	Overall  float64            `json:"overall"`
	Jurors   []JurorScore       `json:"jurors"`
}

// ScorePayload decodes a raw mark payload and computes the juror's weighted
// overall score.
func (c Config) ScorePayload(raw []byte) (map[string]float64, float64, error) {
	var parts map[string]float64
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, 0, fmt.Errorf("invalid mark payload: %w", err)
	}

	var weighted float64
	for _, criterion := range c.Criteria {
		value, ok := parts[criterion.ID]
		if !ok {
			return nil, 0, fmt.Errorf("mark payload missing criterion %q", criterion.ID)
		}
		weighted += criterion.Weight * value
	}

	return parts, weighted / c.weightSum(), nil
}

// AggregateMarks computes the aggregate over the current set of marks. It is
// recomputed on every read; conflict state is never stored.
func (c Config) AggregateMarks(marks []models.Mark) (Aggregate, error) {
	aggregate := Aggregate{Criteria: map[string]float64{}}

	counts := map[string]int{}
	sums := map[string]float64{}

	for _, mark := range marks {
		parts, overall, err := c.ScorePayload(mark.Marks)
		if err != nil {
			return Aggregate{}, fmt.Errorf("mark by %s: %w", mark.User, err)
		}

		aggregate.Jurors = append(aggregate.Jurors, JurorScore{
			Juror:   mark.User,
			Parts:   parts,
			Overall: overall,
			Comment: mark.Comment,
		})

		for _, criterion := range c.Criteria {
			sums[criterion.ID] += parts[criterion.ID]
			counts[criterion.ID]++
		}
	}

	if len(aggregate.Jurors) == 0 {
		return aggregate, nil
	}

	var weighted float64
	for _, criterion := range c.Criteria {
		mean := sums[criterion.ID] / float64(counts[criterion.ID])
		aggregate.Criteria[criterion.ID] = mean
		weighted += criterion.Weight * mean
	}
	aggregate.Overall = weighted / c.weightSum()

	return aggregate, nil
}

// TolerancePolicy decides whether the set of independently-submitted juror
// scores diverges beyond the configured tolerance. The exact formula is
// pluggable; OverallSpread is the default.
type TolerancePolicy func(cfg Config, jurors []JurorScore) bool

// OverallSpread flags a conflict when the spread (max minus min) of the
// jurors' overall scores exceeds the tolerance.
func OverallSpread(cfg Config, jurors []JurorScore) bool {
	if len(jurors) == 0 {
		return false
	}

	lowest, highest := jurors[0].Overall, jurors[0].Overall
	for _, score := range jurors[1:] {
		if score.Overall < lowest {
			lowest = score.Overall
		}
		if score.Overall > highest {
			highest = score.Overall
		}
	}
	return highest-lowest > cfg.Tolerance
}

// CriterionSpread flags a conflict when any single criterion's spread across
// jurors exceeds the tolerance.
func CriterionSpread(cfg Config, jurors []JurorScore) bool {
	if len(jurors) == 0 {
		return false
	}

	for _, criterion := range cfg.Criteria {
		lowest, highest := jurors[0].Parts[criterion.ID], jurors[0].Parts[criterion.ID]
		for _, score := range jurors[1:] {
			value := score.Parts[criterion.ID]
			if value < lowest {
				lowest = value
			}
			if value > highest {
				highest = value
			}
		}
		if highest-lowest > cfg.Tolerance {
			return true
		}
	}
	return false
}
