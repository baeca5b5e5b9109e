package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type HighLow struct {
	High int `yaml:"high"`
	Low  int `yaml:"low"`
}

type Points struct {
	Validation HighLow `yaml:"validation"`
	Coherence  HighLow `yaml:"coherence"`
	Pricing    int     `yaml:"pricing"`
	Contact    HighLow `yaml:"contact"`
	Seasonal   HighLow `yaml:"seasonal"`
	Allergy    HighLow `yaml:"allergy"`
	MarginHigh int     `yaml:"margin_high"`
	MarginMid  int     `yaml:"margin_mid"`
	MarginLow  int     `yaml:"margin_low"`
}

type RiskConfig struct {
	MediumHeadcount int    `yaml:"medium_headcount"`
	HighHeadcount   int    `yaml:"high_headcount"`
	MediumDays      int    `yaml:"medium_days"`
	HighDays        int    `yaml:"high_days"`
	SevereKeyword   string `yaml:"severe_keyword"`
}

type UpsellConfig struct {
	PremiumPerHead      float64  `yaml:"premium_per_head"`
	PremiumMinGuests    int      `yaml:"premium_min_guests"`
	BeveragePerHead     float64  `yaml:"beverage_per_head"`
	BeverageKeywords    []string `yaml:"beverage_keywords"`
	SeasonalSidePerHead float64  `yaml:"seasonal_side_per_head"`
	DessertPerHead      float64  `yaml:"dessert_per_head"`
	DessertMinGuests    int      `yaml:"dessert_min_guests"`
}

type CostConfig struct {
	Steak   float64 `yaml:"steak"`
	Seafood float64 `yaml:"seafood"`
	Default float64 `yaml:"default"`
}

type CloseConfig struct {
	HighCount int     `yaml:"high_count"`
	MidCount  int     `yaml:"mid_count"`
	High      float64 `yaml:"high"`
	Mid       float64 `yaml:"mid"`
	Base      float64 `yaml:"base"`
}

// Config holds every tunable of the analysis heuristics.
type Config struct {
	ValidationThreshold float64      `yaml:"validation_threshold"`
	MarginHigh          float64      `yaml:"margin_high"`
	MarginMid           float64      `yaml:"margin_mid"`
	SimilarTolerance    float64      `yaml:"similar_tolerance"`
	Points              Points       `yaml:"points"`
	Risk                RiskConfig   `yaml:"risk"`
	Upsell              UpsellConfig `yaml:"upsell"`
	CostPerPerson       CostConfig   `yaml:"cost_per_person"`
	Close               CloseConfig  `yaml:"close"`
}

func DefaultConfig() Config {
	return Config{
		ValidationThreshold: 90,
		MarginHigh:          40,
		MarginMid:           25,
		SimilarTolerance:    0.20,
		Points: Points{
			Validation: HighLow{20, 10},
			Coherence:  HighLow{15, 5},
			Pricing:    15,
			Contact:    HighLow{10, 5},
			Seasonal:   HighLow{10, 5},
			Allergy:    HighLow{15, 5},
			MarginHigh: 15,
			MarginMid:  10,
			MarginLow:  5,
		},
		Risk: RiskConfig{
			MediumHeadcount: 100,
			HighHeadcount:   200,
			MediumDays:      14,
			HighDays:        7,
			SevereKeyword:   "severe",
		},
		Upsell: UpsellConfig{
			PremiumPerHead:      8,
			PremiumMinGuests:    100,
			BeveragePerHead:     6,
			BeverageKeywords:    []string{"corporate", "office", "convention"},
			SeasonalSidePerHead: 3,
			DessertPerHead:      5,
			DessertMinGuests:    150,
		},
		CostPerPerson: CostConfig{Steak: 18, Seafood: 16, Default: 12},
		Close:         CloseConfig{HighCount: 5, MidCount: 2, High: 0.78, Mid: 0.65, Base: 0.50},
	}
}

// LoadConfig overlays the YAML file at path on the defaults. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read analysis config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse analysis config: %w", err)
	}
	return cfg, nil
}
