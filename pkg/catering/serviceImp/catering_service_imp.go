package serviceImp

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catering/entities"
	"catering/pkg/ai"
	"catering/pkg/apierr"
	repo "catering/pkg/catering/repository"
	"catering/pkg/catering/service"
	"catering/pkg/logger"
	"catering/pkg/notify"
	"catering/pkg/pricing"
	proposalRepo "catering/pkg/proposal/repository"
)

const msgMissingFields = "Missing required fields: name, email, and at least one protein"

type Generator interface {
	GenerateProposal(ctx context.Context, s ai.Selections) ai.Result
	GenerateMenu(ctx context.Context, s ai.Selections) ai.Result
}

type Notifier interface {
	RequestReceived(ctx context.Context, r *entities.CateringRequest, p *entities.Proposal, ref string)
}

type cateringSvc struct {
	db        *gorm.DB
	requests  repo.CateringRepository
	proposals proposalRepo.ProposalRepository
	gen       Generator
	notifier  Notifier
	log       *logger.Logger
}

func NewCateringService(db *gorm.DB, requests repo.CateringRepository, proposals proposalRepo.ProposalRepository,
	gen Generator, notifier Notifier, log *logger.Logger) service.CateringService {
	if log == nil {
		log = logger.Nop()
	}
	return &cateringSvc{db: db, requests: requests, proposals: proposals, gen: gen, notifier: notifier, log: log.With("service", "catering")}
}

func (s *cateringSvc) Submit(ctx context.Context, in service.SubmitInput) (*service.SubmitResult, error) {
	req, err := s.buildRequest(in)
	if err != nil {
		return nil, err
	}
	result := s.gen.GenerateProposal(ctx, ai.SelectionsOf(req))
	prop := &entities.Proposal{
		ID:            uuid.NewString(),
		RequestID:     req.ID,
		Version:       1,
		Content:       result.Content,
		EstimatedCost: pricing.EstimateCost(req.GuestCount, req.Proteins),
		Status:        entities.ProposalDraft,
		Generator:     result.Generator,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requests.WithTx(tx).Create(ctx, req); err != nil {
			return fmt.Errorf("save request: %w", err)
		}
		if err := s.proposals.WithTx(tx).Create(ctx, prop); err != nil {
			return fmt.Errorf("save proposal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ref := notify.Ref(req.ID)
	s.log.Info("request submitted", "request_id", req.ID, "ref", ref, "generator", prop.Generator, "estimate", prop.EstimatedCost)
	if s.notifier != nil {
		s.notifier.RequestReceived(ctx, req, prop, ref)
	}
	return &service.SubmitResult{
		RequestID:     req.ID,
		ProposalID:    prop.ID,
		ProposalRef:   ref,
		EstimatedCost: prop.EstimatedCost,
		Generator:     prop.Generator,
	}, nil
}

func (s *cateringSvc) CreateRequest(ctx context.Context, in service.SubmitInput) (*entities.CateringRequest, error) {
	req, err := s.buildRequest(in)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *cateringSvc) ListRequests(ctx context.Context, status string) ([]entities.CateringRequest, error) {
	return s.requests.List(ctx, strings.ToUpper(strings.TrimSpace(status)))
}

func (s *cateringSvc) GetRequest(ctx context.Context, id string) (*entities.CateringRequest, error) {
	r, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "request")
	}
	return r, nil
}

func (s *cateringSvc) GenerateMenu(ctx context.Context, requestID string) (*entities.Menu, error) {
	req, err := s.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	res := s.gen.GenerateMenu(ctx, ai.SelectionsOf(req))
	m := &entities.Menu{RequestID: req.ID, Content: res.Content, Generator: res.Generator}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rr := s.requests.WithTx(tx)
		if err := rr.UpsertMenu(ctx, m); err != nil {
			return err
		}
		return rr.UpdateStatus(ctx, req.ID, entities.RequestGenerated)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *cateringSvc) buildRequest(in service.SubmitInput) (*entities.CateringRequest, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	proteins := clean(in.Proteins)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if len(proteins) == 0 {
		missing = append(missing, "proteins")
	}
	if len(missing) > 0 {
		return nil, apierr.Validation(msgMissingFields, map[string]any{"missing": missing})
	}
	// odd addresses are kept so staff can still follow up by phone
	if _, err := mail.ParseAddress(email); err != nil {
		s.log.Warn("intake email does not parse", "email", email)
	}

	guests := in.GuestCount
	if guests <= 0 {
		guests = in.Headcount
	}
	if guests <= 0 {
		guests = pricing.DefaultHeadcount
	}
	eventDate, err := ParseDate(in.EventDate)
	if err != nil {
		s.log.Warn("intake event date ignored", "event_date", in.EventDate)
		eventDate = nil
	}
	return &entities.CateringRequest{
		ID:              uuid.NewString(),
		Name:            name,
		Email:           email,
		Phone:           strings.TrimSpace(in.Phone),
		Company:         strings.TrimSpace(in.Company),
		EventDate:       eventDate,
		EventLocation:   strings.TrimSpace(in.EventLocation),
		EventType:       strings.TrimSpace(in.EventType),
		GuestCount:      guests,
		Proteins:        proteins,
		Preparation:     strings.TrimSpace(in.Preparation),
		Sides:           clean(in.Sides),
		Bread:           strings.TrimSpace(in.Bread),
		Allergies:       strings.TrimSpace(in.Allergies),
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		Status:          entities.RequestPending,
	}, nil
}

// ParseDate accepts YYYY-MM-DD or RFC 3339. Blank means no date.
func ParseDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func notFound(err error, what string) error {
	if apierr.StatusOf(err) == 404 {
		return apierr.NotFound(what)
	}
	return err
}
