package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"catering/entities"
	"catering/pkg/pricing"
)

// transitions lists the allowed next states for each contract status.
var transitions = map[string][]string{
	entities.ContractDraft: {entities.ContractSent, entities.ContractCancelled},
	entities.ContractSent:  {entities.ContractSigned, entities.ContractCancelled},
}

func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Draft builds the contract issued when a proposal is approved.
func Draft(r *entities.CateringRequest, p *entities.Proposal, now time.Time) *entities.Contract {
	id := uuid.NewString()
	return &entities.Contract{
		ID:             id,
		ProposalID:     p.ID,
		ContractNumber: Number(id, now),
		Content:        body(r, p, now),
		TotalAmount:    p.EstimatedCost,
		DepositAmount:  pricing.Deposit(p.EstimatedCost),
		Status:         entities.ContractDraft,
	}
}

func Number(id string, now time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(short) > 6 {
		short = short[:6]
	}
	return fmt.Sprintf("CT-%s-%s", now.Format("20060102"), short)
}

func body(r *entities.CateringRequest, p *entities.Proposal, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Catering Services Agreement\n\nDate: %s\nClient: %s <%s>\n", now.Format("January 2, 2006"), r.Name, r.Email)
	if r.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", r.Company)
	}
	if r.EventDate != nil {
		fmt.Fprintf(&b, "Event date: %s\n", r.EventDate.Format("January 2, 2006"))
	}
	if r.EventLocation != "" {
		fmt.Fprintf(&b, "Location: %s\n", r.EventLocation)
	}
	fmt.Fprintf(&b, "Guests: %d\n\nProposal version %d\n\n", r.GuestCount, p.Version)
	fmt.Fprintf(&b, "Total: $%.2f\nDeposit due at signing: $%.2f\n", p.EstimatedCost, pricing.Deposit(p.EstimatedCost))
	b.WriteString("\nThe balance is due seven days before the event. Final guest count is due ten days before the event.\n")
	return b.String()
}
