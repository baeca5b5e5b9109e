package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"catering/pkg/pricing"
)

const (
	Low    = "LOW"
	Medium = "MEDIUM"
	High   = "HIGH"
)

func rank(level string) int {
	switch level {
	case High:
		return 3
	case Medium:
		return 2
	}
	return 1
}

// Input is everything the heuristics look at. It is filled from one proposal,
// its request and a count of similar-sized requests.
type Input struct {
	ProposalID      string
	Content         string
	EstimatedCost   float64
	ValidationScore *float64
	Email           string
	Phone           string
	EventDate       *time.Time
	EventLocation   string
	EventType       string
	GuestCount      int
	Proteins        []string
	Preparation     string
	Sides           []string
	Allergies       string
	SimilarCount    int
	Now             time.Time
}

type Risk struct {
	Level   string   `json:"level"`
	Factors []string `json:"factors"`
}

type Upsell struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Revenue     float64 `json:"potentialRevenue"`
}

type Recommendation struct {
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

type Report struct {
	ProposalID          string           `json:"proposalId"`
	QualityScore        int              `json:"qualityScore"`
	QualityBreakdown    map[string]int   `json:"qualityBreakdown"`
	Risk                Risk             `json:"risk"`
	Upsells             []Upsell         `json:"upsells"`
	MenuCoherent        bool             `json:"menuCoherent"`
	SeasonalAppropriate bool             `json:"seasonalAppropriate"`
	ProfitMargin        float64          `json:"profitMargin"`
	CloseProbability    float64          `json:"closeProbability"`
	SimilarCount        int              `json:"similarCount"`
	Recommendations     []Recommendation `json:"recommendations"`
}

func Analyze(in Input, cfg Config) Report {
	r := Report{
		ProposalID:          in.ProposalID,
		MenuCoherent:        MenuCoherent(in.Preparation, in.Sides),
		SeasonalAppropriate: SeasonalAppropriate(in.EventDate, in.Proteins),
		ProfitMargin:        ProfitMargin(in.EstimatedCost, in.GuestCount, in.Proteins, cfg),
		CloseProbability:    CloseProbability(in.SimilarCount, cfg),
		SimilarCount:        in.SimilarCount,
		Risk:                AssessRisk(in, cfg),
		Upsells:             Upsells(in, cfg),
	}
	r.QualityScore, r.QualityBreakdown = quality(in, r, cfg)
	r.Recommendations = recommend(r)
	return r
}

func quality(in Input, r Report, cfg Config) (int, map[string]int) {
	p := cfg.Points
	b := map[string]int{}
	b["validation"] = pick(in.ValidationScore != nil && *in.ValidationScore > cfg.ValidationThreshold, p.Validation)
	b["coherence"] = pick(r.MenuCoherent, p.Coherence)
	b["pricing"] = p.Pricing
	b["contact"] = pick(strings.TrimSpace(in.Email) != "" && strings.TrimSpace(in.Phone) != "", p.Contact)
	b["seasonal"] = pick(r.SeasonalAppropriate, p.Seasonal)
	b["allergy"] = pick(AllergiesHandled(in.Allergies, in.Content), p.Allergy)
	switch {
	case r.ProfitMargin >= cfg.MarginHigh:
		b["margin"] = p.MarginHigh
	case r.ProfitMargin >= cfg.MarginMid:
		b["margin"] = p.MarginMid
	default:
		b["margin"] = p.MarginLow
	}
	total := 0
	for _, v := range b {
		total += v
	}
	if total > 100 {
		total = 100
	}
	return total, b
}

func pick(ok bool, hl HighLow) int {
	if ok {
		return hl.High
	}
	return hl.Low
}

// AssessRisk returns the highest severity triggered and every factor behind it.
func AssessRisk(in Input, cfg Config) Risk {
	level := Low
	factors := []string{}
	raise := func(l, factor string) {
		factors = append(factors, factor)
		if rank(l) > rank(level) {
			level = l
		}
	}
	rc := cfg.Risk
	switch {
	case in.GuestCount > rc.HighHeadcount:
		raise(High, fmt.Sprintf("Very large event (%d guests)", in.GuestCount))
	case in.GuestCount > rc.MediumHeadcount:
		raise(Medium, fmt.Sprintf("Large event (%d guests)", in.GuestCount))
	}
	if rc.SevereKeyword != "" && strings.Contains(strings.ToLower(in.Allergies), strings.ToLower(rc.SevereKeyword)) {
		raise(High, "Severe allergy declared: "+strings.TrimSpace(in.Allergies))
	}
	if in.EventDate != nil {
		days := int(math.Floor(in.EventDate.Sub(in.Now).Hours() / 24))
		switch {
		case days < rc.HighDays:
			raise(High, fmt.Sprintf("Event in %d days", days))
		case days < rc.MediumDays:
			raise(Medium, fmt.Sprintf("Event in %d days", days))
		}
	}
	return Risk{Level: level, Factors: factors}
}

func Upsells(in Input, cfg Config) []Upsell {
	uc := cfg.Upsell
	g := float64(in.GuestCount)
	out := []Upsell{}
	if in.GuestCount >= uc.PremiumMinGuests && !pricing.HasPremium(in.Proteins) {
		out = append(out, Upsell{"Premium protein upgrade", "Offer a steak or seafood option", uc.PremiumPerHead * g})
	}
	venue := strings.ToLower(in.EventLocation + " " + in.EventType)
	for _, k := range uc.BeverageKeywords {
		if strings.Contains(venue, strings.ToLower(k)) {
			out = append(out, Upsell{"Beverage service", "Add coffee, tea and soft drink service", uc.BeveragePerHead * g})
			break
		}
	}
	if in.EventDate != nil {
		if m := in.EventDate.Month(); m >= time.March && m <= time.May {
			out = append(out, Upsell{"Seasonal side", "Add a spring vegetable side", uc.SeasonalSidePerHead * g})
		}
	}
	if in.GuestCount >= uc.DessertMinGuests {
		out = append(out, Upsell{"Dessert bar", "Add a self-serve dessert bar", uc.DessertPerHead * g})
	}
	return out
}

var pairings = []struct {
	styles []string
	sides  []string
}{
	{[]string{"bbq", "barbecue", "smoked"}, []string{"coleslaw", "slaw", "beans", "mac", "corn"}},
	{[]string{"herb"}, []string{"rice", "potato", "brussels", "asparagus"}},
}

// MenuCoherent checks the sides suit the preparation style. Styles without a
// pairing rule are always coherent.
func MenuCoherent(preparation string, sides []string) bool {
	prep := strings.ToLower(preparation)
	for _, p := range pairings {
		for _, s := range p.styles {
			if strings.Contains(prep, s) {
				return hasAny(sides, p.sides...)
			}
		}
	}
	return true
}

// SeasonalAppropriate requires a hearty protein for winter events.
func SeasonalAppropriate(eventDate *time.Time, proteins []string) bool {
	if eventDate == nil {
		return true
	}
	switch eventDate.Month() {
	case time.December, time.January, time.February:
		return hasAny(proteins, "beef", "pork", "steak", "brisket")
	}
	return true
}

func AllergiesHandled(allergies, content string) bool {
	a := strings.ToLower(strings.TrimSpace(allergies))
	if a == "" || a == "none" || a == "n/a" || a == "no" {
		return true
	}
	c := strings.ToLower(content)
	for _, part := range strings.FieldsFunc(a, func(r rune) bool { return r == ',' || r == ';' || r == '/' }) {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "severe"))
		if part != "" && strings.Contains(c, part) {
			return true
		}
	}
	return strings.Contains(c, "allerg")
}

func CostPerPerson(proteins []string, cfg Config) float64 {
	switch {
	case hasAny(proteins, "steak", "filet"):
		return cfg.CostPerPerson.Steak
	case hasAny(proteins, "seafood", "shrimp"):
		return cfg.CostPerPerson.Seafood
	}
	return cfg.CostPerPerson.Default
}

// ProfitMargin is (revenue - food cost) / revenue as a percentage.
func ProfitMargin(revenue float64, guests int, proteins []string, cfg Config) float64 {
	if revenue <= 0 {
		return 0
	}
	cost := CostPerPerson(proteins, cfg) * float64(guests)
	return math.Round((revenue-cost)/revenue*10000) / 100
}

func CloseProbability(similar int, cfg Config) float64 {
	switch {
	case similar > cfg.Close.HighCount:
		return cfg.Close.High
	case similar > cfg.Close.MidCount:
		return cfg.Close.Mid
	}
	return cfg.Close.Base
}

// SimilarRange is the inclusive guest-count window considered comparable.
func SimilarRange(guests int, cfg Config) (int, int) {
	lo := int(math.Ceil(float64(guests) * (1 - cfg.SimilarTolerance)))
	hi := int(math.Floor(float64(guests) * (1 + cfg.SimilarTolerance)))
	return lo, hi
}

func recommend(r Report) []Recommendation {
	var out []Recommendation
	for _, f := range r.Risk.Factors {
		out = append(out, Recommendation{Priority: r.Risk.Level, Message: "Risk: " + f})
	}
	if r.QualityScore < 70 {
		out = append(out, Recommendation{Medium, fmt.Sprintf("Quality score %d is below 70; review the proposal before sending", r.QualityScore)})
	}
	if !r.MenuCoherent {
		out = append(out, Recommendation{Medium, "Sides do not match the preparation style; suggest pairing sides"})
	}
	if !r.SeasonalAppropriate {
		out = append(out, Recommendation{Low, "Winter event without a hearty protein; consider beef or pork"})
	}
	if r.ProfitMargin < 25 {
		out = append(out, Recommendation{Medium, fmt.Sprintf("Profit margin %.1f%% is thin; revisit pricing", r.ProfitMargin)})
	}
	for _, u := range r.Upsells {
		out = append(out, Recommendation{Low, fmt.Sprintf("Upsell: %s (+$%.0f)", u.Name, u.Revenue)})
	}
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i].Priority) > rank(out[j].Priority) })
	return out
}

func hasAny(items []string, keywords ...string) bool {
	for _, it := range items {
		l := strings.ToLower(it)
		for _, k := range keywords {
			if strings.Contains(l, k) {
				return true
			}
		}
	}
	return false
}
