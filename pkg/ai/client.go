package ai

import (
	"context"
	"time"

	"catering/entities"
)

// Generator produces free-form text for a prompt. An empty reply is an error.
type Generator interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Selections is the customer's menu request as the generators see it.
type Selections struct {
	Name            string
	Company         string
	EventType       string
	EventDate       *time.Time
	EventLocation   string
	GuestCount      int
	Proteins        []string
	Preparation     string
	Sides           []string
	Bread           string
	Allergies       string
	SpecialRequests string
}

type Result struct {
	Content   string `json:"content"`
	Generator string `json:"generator"`
}

func SelectionsOf(r *entities.CateringRequest) Selections {
	return Selections{
		Name:            r.Name,
		Company:         r.Company,
		EventType:       r.EventType,
		EventDate:       r.EventDate,
		EventLocation:   r.EventLocation,
		GuestCount:      r.GuestCount,
		Proteins:        r.Proteins,
		Preparation:     r.Preparation,
		Sides:           r.Sides,
		Bread:           r.Bread,
		Allergies:       r.Allergies,
		SpecialRequests: r.SpecialRequests,
	}
}
