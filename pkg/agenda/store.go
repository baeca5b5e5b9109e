package agenda

import (
	"context"
	"net/http"
	"slices"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"catering/entities"
	contractRepo "catering/pkg/contract/repository"
	"catering/pkg/httpx"
)

type LatestLister interface {
	// ListLatest returns the newest version of every request's proposal.
	ListLatest(ctx context.Context) ([]entities.Proposal, error)
}

// Store loads snapshots straight from the database. Every query is a read.
type Store struct {
	db        *gorm.DB
	proposals LatestLister
	contracts contractRepo.ContractRepository
	cfg       Config
	now       func() time.Time
}

func NewStore(db *gorm.DB, proposals LatestLister, contracts contractRepo.ContractRepository, cfg Config) *Store {
	return &Store{db: db, proposals: proposals, contracts: contracts, cfg: cfg, now: time.Now}
}

var awaitingReview = []string{entities.ProposalDraft, entities.ProposalPendingReview, entities.ProposalModifiedPendingSend}

func (s *Store) Snapshot(ctx context.Context, now time.Time) (Snapshot, error) {
	db := s.db.WithContext(ctx)
	var snap Snapshot

	latest, err := s.proposals.ListLatest(ctx)
	if err != nil {
		return snap, err
	}
	followUpBy := now.Add(-s.cfg.FollowUpAfter)
	for _, p := range latest {
		switch {
		case slices.Contains(awaitingReview, p.Status):
			snap.Pending = append(snap.Pending, p)
		case p.Status == entities.ProposalSent && !p.FollowUpSent && p.SentAt != nil && p.SentAt.Before(followUpBy):
			snap.Sent = append(snap.Sent, p)
		}
	}
	sort.SliceStable(snap.Pending, func(i, j int) bool { return snap.Pending[i].CreatedAt.Before(snap.Pending[j].CreatedAt) })
	sort.SliceStable(snap.Sent, func(i, j int) bool { return snap.Sent[i].SentAt.Before(*snap.Sent[j].SentAt) })

	err = db.Where("type = ? AND start_time BETWEEN ? AND ?", entities.EventDay, now, now.AddDate(0, 0, s.cfg.HorizonDays)).
		Order("start_time ASC").Find(&snap.Events).Error
	if err != nil {
		return snap, err
	}
	if snap.Contracts, err = s.contracts.UnsignedBefore(ctx, now.AddDate(0, 0, -s.cfg.ContractStaleDays)); err != nil {
		return snap, err
	}

	since := now.AddDate(0, 0, -30)
	if err := db.Model(&entities.CateringRequest{}).Where("created_at >= ?", since).Count(&snap.Requests30).Error; err != nil {
		return snap, err
	}
	// one request counts once however many versions it went through
	err = db.Model(&entities.Proposal{}).Where("created_at >= ?", since).Distinct("request_id").Count(&snap.Proposals30).Error
	if err != nil {
		return snap, err
	}
	err = db.Where("approved_at >= ? AND status IN ?", since, []string{entities.ProposalApproved, entities.ProposalSent}).
		Find(&snap.Approved).Error
	return snap, err
}

// Initialize serves GET /agent2/initialize.
func (s *Store) Initialize(c echo.Context) error {
	now := s.now()
	snap, err := s.Snapshot(c.Request().Context(), now)
	if err != nil {
		return err
	}
	a := Build(snap, now, s.cfg)
	return httpx.OK(c, http.StatusOK, map[string]any{
		"suggestions": a.Suggestions,
		"capacity":    a.Capacity,
		"metrics":     a.Metrics,
		"generatedAt": a.GeneratedAt,
	})
}
