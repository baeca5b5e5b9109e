package contract

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"catering/entities"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(entities.ContractDraft, entities.ContractSent))
	assert.True(t, CanTransition(entities.ContractSent, entities.ContractSigned))
	assert.True(t, CanTransition(entities.ContractSent, entities.ContractCancelled))
	assert.False(t, CanTransition(entities.ContractDraft, entities.ContractSigned))
	assert.False(t, CanTransition(entities.ContractSigned, entities.ContractCancelled))
}

func TestDraft(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	r := &entities.CateringRequest{Name: "Jane", Email: "jane@example.com", GuestCount: 80}
	p := &entities.Proposal{ID: "p1", Version: 2, EstimatedCost: 2000}

	c := Draft(r, p, now)

	assert.Equal(t, "p1", c.ProposalID)
	assert.Equal(t, entities.ContractDraft, c.Status)
	assert.Equal(t, 2000.0, c.TotalAmount)
	assert.Equal(t, 1000.0, c.DepositAmount)
	assert.Regexp(t, regexp.MustCompile(`^CT-20260304-[0-9A-F]{6}$`), c.ContractNumber)
	assert.Contains(t, c.Content, "Proposal version 2")
}
