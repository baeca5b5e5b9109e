package service

import (
	"context"

	"catering/entities"
)

type SubmitInput struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Company         string   `json:"company"`
	EventDate       string   `json:"eventDate"`
	EventLocation   string   `json:"eventLocation"`
	EventType       string   `json:"eventType"`
	GuestCount      int      `json:"guestCount"`
	Headcount       int      `json:"headcount"`
	Proteins        []string `json:"proteins"`
	Preparation     string   `json:"preparation"`
	Sides           []string `json:"sides"`
	Bread           string   `json:"bread"`
	Allergies       string   `json:"allergies"`
	SpecialRequests string   `json:"specialRequests"`
}

type SubmitResult struct {
	RequestID     string  `json:"requestId"`
	ProposalID    string  `json:"proposalId"`
	ProposalRef   string  `json:"proposalRef"`
	EstimatedCost float64 `json:"estimatedCost"`
	Generator     string  `json:"generator"`
}

type CateringService interface {
	Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error)
	CreateRequest(ctx context.Context, in SubmitInput) (*entities.CateringRequest, error)
	ListRequests(ctx context.Context, status string) ([]entities.CateringRequest, error)
	GetRequest(ctx context.Context, id string) (*entities.CateringRequest, error)
	GenerateMenu(ctx context.Context, requestID string) (*entities.Menu, error)
}
