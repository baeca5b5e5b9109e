package analysis

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"catering/entities"
	"catering/pkg/apierr"
	"catering/pkg/httpx"
)

type ProposalFinder interface {
	FindByID(ctx context.Context, id string) (*entities.Proposal, error)
}

type SimilarCounter interface {
	CountGuestRange(ctx context.Context, excludeID string, min, max int) (int64, error)
}

// Service runs the heuristics for a stored proposal. It never writes.
type Service struct {
	proposals ProposalFinder
	similar   SimilarCounter
	cfg       Config
	now       func() time.Time
}

func NewService(proposals ProposalFinder, similar SimilarCounter, cfg Config) *Service {
	return &Service{proposals: proposals, similar: similar, cfg: cfg, now: time.Now}
}

func (s *Service) Analyze(ctx context.Context, proposalID string) (*Report, error) {
	p, err := s.proposals.FindByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("proposal")
		}
		return nil, err
	}
	if p.Request == nil {
		return nil, apierr.NotFound("request")
	}
	r := p.Request
	lo, hi := SimilarRange(r.GuestCount, s.cfg)
	similar, err := s.similar.CountGuestRange(ctx, r.ID, lo, hi)
	if err != nil {
		return nil, err
	}
	rep := Analyze(Input{
		ProposalID:      p.ID,
		Content:         p.Content,
		EstimatedCost:   p.EstimatedCost,
		ValidationScore: p.ValidationScore,
		Email:           r.Email,
		Phone:           r.Phone,
		EventDate:       r.EventDate,
		EventLocation:   r.EventLocation,
		EventType:       r.EventType,
		GuestCount:      r.GuestCount,
		Proteins:        r.Proteins,
		Preparation:     r.Preparation,
		Sides:           r.Sides,
		Allergies:       r.Allergies,
		SimilarCount:    int(similar),
		Now:             s.now(),
	}, s.cfg)
	return &rep, nil
}

// Handle serves POST /agent2/analyze.
func (s *Service) Handle(c echo.Context) error {
	var body struct {
		ProposalID string `json:"proposalId"`
	}
	if err := c.Bind(&body); err != nil {
		return apierr.Validation("bad json", nil)
	}
	if strings.TrimSpace(body.ProposalID) == "" {
		return apierr.Validation("proposalId is required", nil)
	}
	rep, err := s.Analyze(c.Request().Context(), body.ProposalID)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"analysis": rep})
}
