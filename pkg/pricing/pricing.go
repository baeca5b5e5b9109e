package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultHeadcount = 50
	StandardRate     = 25
	PremiumRate      = 30
)

var (
	premiumKeywords = []string{"steak", "seafood", "fish", "shrimp"}
	taxMultiplier   = decimal.RequireFromString("1.0725")
)

// HasPremium reports whether any protein names a premium item.
func HasPremium(proteins []string) bool {
	for _, p := range proteins {
		lp := strings.ToLower(p)
		for _, k := range premiumKeywords {
			if strings.Contains(lp, k) {
				return true
			}
		}
	}
	return false
}

func RateFor(proteins []string) int {
	if HasPremium(proteins) {
		return PremiumRate
	}
	return StandardRate
}

// EstimateCost is the intake estimate: per-head rate times headcount.
func EstimateCost(headcount int, proteins []string) float64 {
	if headcount <= 0 {
		headcount = DefaultHeadcount
	}
	total := decimal.NewFromInt(int64(RateFor(proteins))).Mul(decimal.NewFromInt(int64(headcount)))
	f, _ := total.Float64()
	return f
}

// ModifiedCost prices an admin edit including 7.25% tax, rounded to cents.
func ModifiedCost(rate float64, headcount int) float64 {
	r := decimal.NewFromFloat(rate)
	if rate <= 0 {
		r = decimal.NewFromInt(StandardRate)
	}
	total := r.Mul(decimal.NewFromInt(int64(headcount))).Mul(taxMultiplier).Round(2)
	f, _ := total.Float64()
	return f
}

// Deposit is the share collected at contract signing.
func Deposit(total float64) float64 {
	f, _ := decimal.NewFromFloat(total).Mul(decimal.NewFromFloat(0.5)).Round(2).Float64()
	return f
}
