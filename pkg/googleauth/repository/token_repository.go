package repository

import (
	"context"

	"catering/entities"
)

type TokenRepository interface {
	// Activate stores t as the only active token of its service.
	Activate(ctx context.Context, t *entities.GoogleToken) error
	Active(ctx context.Context, service string) (*entities.GoogleToken, error)
}
