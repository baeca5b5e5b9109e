package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"catering/entities"
	"catering/pkg/ai"
	"catering/pkg/apierr"
	auditRepo "catering/pkg/audit/repository"
	cateringRepo "catering/pkg/catering/repository"
	"catering/pkg/contract"
	contractRepo "catering/pkg/contract/repository"
	"catering/pkg/logger"
	"catering/pkg/pricing"
	repo "catering/pkg/proposal/repository"
	"catering/pkg/proposal/service"
	taskRepo "catering/pkg/task/repository"
)

type Generator interface {
	GenerateProposal(ctx context.Context, s ai.Selections) ai.Result
}

type Notifier interface {
	SendProposal(ctx context.Context, r *entities.CateringRequest, p *entities.Proposal) error
}

type ErrorRecorder interface {
	Record(ctx context.Context, e *entities.ErrorLog) error
}

type Deps struct {
	DB        *gorm.DB
	Requests  cateringRepo.CateringRepository
	Proposals repo.ProposalRepository
	Tasks     taskRepo.TaskRepository
	Contracts contractRepo.ContractRepository
	Audit     auditRepo.AuditRepository
	Generator Generator
	Notifier  Notifier
	Errors    ErrorRecorder
	Log       *logger.Logger
	Now       func() time.Time
}

type proposalSvc struct {
	Deps
}

// reviewable statuses can still be approved or denied.
var reviewable = []string{entities.ProposalDraft, entities.ProposalPendingReview, entities.ProposalModifiedPendingSend}

func NewProposalService(d Deps) service.ProposalService {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	d.Log = d.Log.With("service", "proposal")
	if d.Now == nil {
		d.Now = time.Now
	}
	return &proposalSvc{d}
}

func (s *proposalSvc) Get(ctx context.Context, id string) (*entities.Proposal, error) {
	p, err := s.Proposals.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("proposal")
		}
		return nil, err
	}
	return p, nil
}

func (s *proposalSvc) List(ctx context.Context, status string) ([]entities.Proposal, error) {
	return s.Proposals.List(ctx, strings.ToUpper(strings.TrimSpace(status)))
}

func (s *proposalSvc) ListVersions(ctx context.Context, requestID string) ([]entities.Proposal, error) {
	return s.Proposals.ListVersions(ctx, requestID)
}

// History returns change logs across every version of the proposal's request.
func (s *proposalSvc) History(ctx context.Context, id string) ([]entities.ChangeLog, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	versions, err := s.Proposals.ListVersions(ctx, p.RequestID)
	if err != nil {
		return nil, err
	}
	var out []entities.ChangeLog
	for _, v := range versions {
		cs, err := s.Audit.ChangesFor(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	return out, nil
}

func (s *proposalSvc) Create(ctx context.Context, requestID, adminID string) (*entities.Proposal, error) {
	req, err := s.Requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("request")
		}
		return nil, err
	}
	res := s.Generator.GenerateProposal(ctx, ai.SelectionsOf(req))
	next := &entities.Proposal{
		ID:            uuid.NewString(),
		RequestID:     req.ID,
		Version:       1,
		Content:       res.Content,
		EstimatedCost: pricing.EstimateCost(req.GuestCount, req.Proteins),
		Status:        entities.ProposalDraft,
		Generator:     res.Generator,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if latest, err := s.Proposals.WithTx(tx).Latest(ctx, req.ID); err == nil {
			next.Version = latest.Version + 1
			next.PreviousID = latest.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := s.Proposals.WithTx(tx).Create(ctx, next); err != nil {
			return err
		}
		return s.Audit.WithTx(tx).AddAdmin(ctx, adminLog("proposal.create", next.ID, adminID, datatypes.JSONMap{
			"version": next.Version, "generator": next.Generator,
		}))
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

func (s *proposalSvc) CreateVersion(ctx context.Context, id string, in service.VersionInput) (*entities.Proposal, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := successor(cur, entities.ProposalPendingReview)
	var changes []entities.ChangeLog
	if in.Content != nil && *in.Content != cur.Content {
		next.Content = *in.Content
		changes = append(changes, changeLog("content", cur.Content, next.Content))
	}
	guests := 0
	if in.GuestCount != nil && cur.Request != nil && *in.GuestCount != cur.Request.GuestCount {
		if *in.GuestCount <= 0 {
			return nil, apierr.Validation("guestCount must be positive", nil)
		}
		guests = *in.GuestCount
		changes = append(changes, changeLog("guestCount", strconv.Itoa(cur.Request.GuestCount), strconv.Itoa(guests)))
	}
	if in.EstimatedCost != nil && *in.EstimatedCost != cur.EstimatedCost {
		next.EstimatedCost = *in.EstimatedCost
		changes = append(changes, changeLog("estimatedCost", money(cur.EstimatedCost), money(next.EstimatedCost)))
	}
	if len(changes) == 0 {
		return nil, apierr.Validation("No changes provided", nil)
	}
	for i := range changes {
		changes[i].Reason = in.Reason
		changes[i].ChangedBy = in.ChangedBy
	}
	if err := s.saveVersion(ctx, next, changes, guests, "proposal.version", in.ChangedBy); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *proposalSvc) Resend(ctx context.Context, id string) (*entities.Proposal, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == entities.ProposalDenied {
		return nil, apierr.Conflict("denied proposals cannot be sent")
	}
	if p.Request == nil {
		return nil, apierr.NotFound("request")
	}
	if err := s.Notifier.SendProposal(ctx, p.Request, p); err != nil {
		s.recordError(ctx, "proposal.resend", err)
		return nil, apierr.Upstream("email", err)
	}
	now := s.Now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Proposals.WithTx(tx).Update(ctx, p.ID, map[string]any{"status": entities.ProposalSent, "sent_at": now}); err != nil {
			return err
		}
		return s.Requests.WithTx(tx).UpdateStatus(ctx, p.RequestID, entities.RequestProposalSent)
	})
	if err != nil {
		return nil, err
	}
	p.Status, p.SentAt = entities.ProposalSent, &now
	return p, nil
}

func (s *proposalSvc) Approve(ctx context.Context, id, adminID string) (*service.ApproveResult, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Finalized() {
		return nil, apierr.Conflict("proposal already " + strings.ToLower(p.Status))
	}
	if p.Request == nil {
		return nil, apierr.NotFound("request")
	}
	now := s.Now()
	ct := contract.Draft(p.Request, p, now)
	tasks := []entities.Task{
		{ProposalID: p.ID, Title: "Follow up with client", Description: "Confirm the client received the proposal and answer questions.",
			DueDate: now.Add(24 * time.Hour), Priority: entities.PriorityHigh, Status: entities.TaskPending},
		{ProposalID: p.ID, Title: "Schedule tasting", Description: "Offer tasting dates to the client.",
			DueDate: now.Add(72 * time.Hour), Priority: entities.PriorityMedium, Status: entities.TaskPending},
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureCurrent(ctx, tx, p); err != nil {
			return err
		}
		ok, err := s.Proposals.WithTx(tx).UpdateIf(ctx, p.ID, reviewable, map[string]any{
			"status": entities.ProposalApproved, "approved_at": now, "approved_by": adminID,
		})
		if err != nil {
			return err
		}
		if !ok {
			return apierr.Conflict("proposal is no longer awaiting review")
		}
		if err := s.Requests.WithTx(tx).UpdateStatus(ctx, p.RequestID, entities.RequestApproved); err != nil {
			return err
		}
		if err := s.Contracts.WithTx(tx).Create(ctx, ct); err != nil {
			return fmt.Errorf("create contract: %w", err)
		}
		if err := s.Tasks.WithTx(tx).BulkInsert(ctx, tasks); err != nil {
			return fmt.Errorf("create tasks: %w", err)
		}
		return s.Audit.WithTx(tx).AddAdmin(ctx, adminLog("proposal.approve", p.ID, adminID, datatypes.JSONMap{
			"version": p.Version, "contract": ct.ContractNumber,
		}))
	})
	if err != nil {
		return nil, err
	}
	p.Status, p.ApprovedAt, p.ApprovedBy = entities.ProposalApproved, &now, adminID
	s.Log.Info("proposal approved", "proposal_id", p.ID, "admin", adminID, "contract", ct.ContractNumber)

	out := &service.ApproveResult{Proposal: p, Contract: ct, Tasks: tasks}
	if err := s.Notifier.SendProposal(ctx, p.Request, p); err != nil {
		s.Log.Warn("approved proposal not emailed", "proposal_id", p.ID, "error", err)
		s.recordError(ctx, "proposal.approve.email", err)
		return out, nil
	}
	sent := s.Now()
	if err := s.Proposals.Update(ctx, p.ID, map[string]any{"status": entities.ProposalSent, "sent_at": sent}); err != nil {
		return nil, err
	}
	p.Status, p.SentAt = entities.ProposalSent, &sent
	out.EmailSent = true
	return out, nil
}

func (s *proposalSvc) Deny(ctx context.Context, id, adminID, reason string) (*entities.Proposal, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Finalized() {
		return nil, apierr.Conflict("proposal already " + strings.ToLower(p.Status))
	}
	reason = strings.TrimSpace(reason)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureCurrent(ctx, tx, p); err != nil {
			return err
		}
		ok, err := s.Proposals.WithTx(tx).UpdateIf(ctx, p.ID, reviewable, map[string]any{
			"status": entities.ProposalDenied, "denial_reason": reason,
		})
		if err != nil {
			return err
		}
		if !ok {
			return apierr.Conflict("proposal is no longer awaiting review")
		}
		return s.Audit.WithTx(tx).AddAdmin(ctx, adminLog("proposal.deny", p.ID, adminID, datatypes.JSONMap{"reason": reason}))
	})
	if err != nil {
		return nil, err
	}
	p.Status, p.DenialReason = entities.ProposalDenied, reason
	return p, nil
}

func (s *proposalSvc) Modify(ctx context.Context, id string, in service.ModifyInput) (*entities.Proposal, error) {
	if strings.TrimSpace(in.AdminID) == "" {
		return nil, apierr.Unauthorized("admin session required")
	}
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := successor(cur, entities.ProposalModifiedPendingSend)
	var (
		changes     []entities.ChangeLog
		guests      int
		costChanged bool
	)
	for _, c := range in.Changes {
		field := strings.TrimSpace(c.Field)
		if field == "" || c.OldValue == c.NewValue {
			continue
		}
		switch canonicalField(field) {
		case "guestCount":
			n, err := strconv.Atoi(strings.TrimSpace(c.NewValue))
			if err != nil || n <= 0 {
				return nil, apierr.Validation("guestCount must be a positive integer", map[string]any{"field": field})
			}
			guests = n
			field = "guestCount"
		case "content":
			next.Content = c.NewValue
		case "estimatedCost":
			v, err := strconv.ParseFloat(strings.TrimSpace(c.NewValue), 64)
			if err != nil || v < 0 {
				return nil, apierr.Validation("estimatedCost must be a number", map[string]any{"field": field})
			}
			next.EstimatedCost = v
			costChanged = true
		}
		cl := changeLog(field, c.OldValue, c.NewValue)
		cl.Reason, cl.ChangedBy = in.Reason, in.AdminID
		changes = append(changes, cl)
	}
	if len(changes) == 0 {
		return nil, apierr.Validation("No changes provided", nil)
	}
	if guests > 0 && !costChanged {
		newCost := pricing.ModifiedCost(in.Rate, guests)
		if newCost != cur.EstimatedCost {
			cl := changeLog("estimatedCost", money(cur.EstimatedCost), money(newCost))
			cl.Reason, cl.ChangedBy = "guest count changed", in.AdminID
			changes = append(changes, cl)
		}
		next.EstimatedCost = newCost
	}
	if err := s.saveVersion(ctx, next, changes, guests, "proposal.modify", in.AdminID); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *proposalSvc) SetPrice(ctx context.Context, id, adminID string, rate float64) (*entities.Proposal, error) {
	if rate <= 0 {
		return nil, apierr.Validation("rate must be positive", nil)
	}
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	guests := pricing.DefaultHeadcount
	if cur.Request != nil && cur.Request.GuestCount > 0 {
		guests = cur.Request.GuestCount
	}
	next := successor(cur, entities.ProposalModifiedPendingSend)
	next.EstimatedCost = pricing.ModifiedCost(rate, guests)
	cl := changeLog("estimatedCost", money(cur.EstimatedCost), money(next.EstimatedCost))
	cl.Reason, cl.ChangedBy = fmt.Sprintf("rate set to $%.2f per guest", rate), adminID
	if err := s.saveVersion(ctx, next, []entities.ChangeLog{cl}, 0, "proposal.set_price", adminID); err != nil {
		return nil, err
	}
	return next, nil
}

// ensureCurrent rejects review of a superseded version, and of any version
// once another version of the same request has been approved.
func (s *proposalSvc) ensureCurrent(ctx context.Context, tx *gorm.DB, p *entities.Proposal) error {
	latest, err := s.Proposals.WithTx(tx).Latest(ctx, p.RequestID)
	if err != nil {
		return err
	}
	if latest.ID != p.ID {
		return apierr.Conflict(fmt.Sprintf("proposal superseded by version %d", latest.Version))
	}
	n, err := s.Proposals.WithTx(tx).CountApproved(ctx, p.RequestID)
	if err != nil {
		return err
	}
	if n > 0 {
		return apierr.Conflict("request already has an approved proposal")
	}
	return nil
}

// saveVersion inserts next as the newest version of its request together with its audit rows.
func (s *proposalSvc) saveVersion(ctx context.Context, next *entities.Proposal, changes []entities.ChangeLog, guests int, action, actor string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		latest, err := s.Proposals.WithTx(tx).Latest(ctx, next.RequestID)
		if err != nil {
			return err
		}
		next.Version = latest.Version + 1
		if err := s.Proposals.WithTx(tx).Create(ctx, next); err != nil {
			return err
		}
		for i := range changes {
			changes[i].ProposalID = next.ID
		}
		if err := s.Audit.WithTx(tx).AddChanges(ctx, changes); err != nil {
			return err
		}
		if guests > 0 {
			if err := s.Requests.WithTx(tx).UpdateGuestCount(ctx, next.RequestID, guests); err != nil {
				return err
			}
		}
		fields := make([]string, 0, len(changes))
		for _, c := range changes {
			fields = append(fields, c.Field)
		}
		return s.Audit.WithTx(tx).AddAdmin(ctx, adminLog(action, next.ID, actor, datatypes.JSONMap{
			"previous_id": next.PreviousID, "version": next.Version, "fields": fields,
		}))
	})
	if err != nil {
		return err
	}
	if guests > 0 && next.Request != nil {
		next.Request.GuestCount = guests
	}
	s.Log.Info("proposal version saved", "proposal_id", next.ID, "version", next.Version, "action", action)
	return nil
}

func (s *proposalSvc) recordError(ctx context.Context, source string, err error) {
	if s.Errors == nil {
		return
	}
	if rerr := s.Errors.Record(ctx, &entities.ErrorLog{Message: err.Error(), Source: source, Method: http.MethodPost}); rerr != nil {
		s.Log.Warn("persist error log", "error", rerr)
	}
}

func successor(cur *entities.Proposal, status string) *entities.Proposal {
	return &entities.Proposal{
		ID:               uuid.NewString(),
		RequestID:        cur.RequestID,
		PreviousID:       cur.ID,
		Version:          cur.Version + 1,
		Content:          cur.Content,
		EstimatedCost:    cur.EstimatedCost,
		Status:           status,
		Generator:        cur.Generator,
		TastingScheduled: cur.TastingScheduled,
		Request:          cur.Request,
	}
}

func canonicalField(f string) string {
	switch strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(f)) {
	case "guestcount", "headcount", "guests":
		return "guestCount"
	case "content", "menu", "proposal":
		return "content"
	case "estimatedcost", "cost", "price", "total":
		return "estimatedCost"
	}
	return f
}

func changeLog(field, oldV, newV string) entities.ChangeLog {
	return entities.ChangeLog{Field: field, OldValue: oldV, NewValue: newV}
}

func adminLog(action, proposalID, actor string, meta datatypes.JSONMap) *entities.AdminLog {
	return &entities.AdminLog{Action: action, EntityType: "proposal", EntityID: proposalID, ActorID: actor, Metadata: meta}
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
