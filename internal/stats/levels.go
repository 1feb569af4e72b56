package stats

import "fmt"

// Tier maps WPM values below a threshold to a label. Below == 0 means unbounded.
type Tier struct {
	Below int
	Label string
}

// LevelTable derives a performance label from WPM and accuracy.
type LevelTable struct {
	// LowAccuracy is the accuracy below which only Low is awarded.
	LowAccuracy int
	// HighAccuracy is the accuracy at which the High ladder applies.
	HighAccuracy int
	Low          string
	Standard     []Tier
	High         []Tier
}

// DefaultLevels is the built-in performance ladder.
var DefaultLevels = LevelTable{
	LowAccuracy:  60,
	HighAccuracy: 90,
	Low:          "Below Average",
	Standard: []Tier{
		{Below: 20, Label: "Beginner"},
		{Below: 30, Label: "Improving"},
		{Below: 40, Label: "Good"},
		{Below: 50, Label: "Great"},
		{Label: "Excellent"},
	},
	High: []Tier{
		{Below: 20, Label: "Beginner"},
		{Below: 30, Label: "Learning"},
		{Below: 40, Label: "Improving"},
		{Below: 50, Label: "Good"},
		{Below: 60, Label: "Great"},
		{Below: 80, Label: "Excellent"},
		{Label: "Master"},
	},
}

// Level returns the label for the given WPM and accuracy.
func (t LevelTable) Level(wpm, accuracy int) string {
	if accuracy < t.LowAccuracy {
		return t.Low
	}
	ladder := t.Standard
	if accuracy >= t.HighAccuracy {
		ladder = t.High
	}
	for _, tier := range ladder {
		if tier.Below == 0 || wpm < tier.Below {
			return tier.Label
		}
	}
	if len(ladder) == 0 {
		return t.Low
	}
	return ladder[len(ladder)-1].Label
}

// WithLabels returns a copy with labels replaced. Thresholds are kept; nil or
// empty arguments leave the corresponding labels unchanged.
func (t LevelTable) WithLabels(low string, standard, high []string) (LevelTable, error) {
	out := t
	if low != "" {
		out.Low = low
	}
	var err error
	if out.Standard, err = relabel(t.Standard, standard); err != nil {
		return LevelTable{}, fmt.Errorf("standard levels: %w", err)
	}
	if out.High, err = relabel(t.High, high); err != nil {
		return LevelTable{}, fmt.Errorf("high levels: %w", err)
	}
	return out, nil
}

func relabel(tiers []Tier, labels []string) ([]Tier, error) {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	if len(labels) == 0 {
		return out, nil
	}
	if len(labels) != len(tiers) {
		return nil, fmt.Errorf("expected %d labels, got %d", len(tiers), len(labels))
	}
	for i, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("label %d is empty", i+1)
		}
		out[i].Label = label
	}
	return out, nil
}
