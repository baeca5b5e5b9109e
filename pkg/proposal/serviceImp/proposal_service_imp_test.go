package serviceImp

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"catering/database"
	"catering/entities"
	"catering/pkg/ai"
	"catering/pkg/apierr"
	auditRepoImp "catering/pkg/audit/repositoryImp"
	cateringRepoImp "catering/pkg/catering/repositoryImp"
	contractRepoImp "catering/pkg/contract/repositoryImp"
	errorLogRepoImp "catering/pkg/errorlog/repositoryImp"
	"catering/pkg/proposal/repositoryImp"
	"catering/pkg/proposal/service"
	taskRepoImp "catering/pkg/task/repositoryImp"
)

type fakeNotifier struct {
	err  error
	sent []string
}

func (f *fakeNotifier) SendProposal(_ context.Context, _ *entities.CateringRequest, p *entities.Proposal) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, p.ID)
	return nil
}

var fixedNow = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc      service.ProposalService
	db       *gorm.DB
	notifier *fakeNotifier
	req      *entities.CateringRequest
	prop     *entities.Proposal
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	req := &entities.CateringRequest{ID: "req-0001-aaaa-bbbb-cccc1234abcd", Name: "Jane Doe", Email: "jane@x.com",
		GuestCount: 80, Proteins: []string{"Chicken"}, Status: entities.RequestPending}
	require.NoError(t, db.Create(req).Error)
	prop := &entities.Proposal{ID: "prop-1", RequestID: req.ID, Version: 1, Content: "Menu", EstimatedCost: 2000,
		Status: entities.ProposalDraft, Generator: "template"}
	require.NoError(t, db.Create(prop).Error)

	n := &fakeNotifier{}
	svc := NewProposalService(Deps{
		DB:        db,
		Requests:  cateringRepoImp.New(db),
		Proposals: repositoryImp.New(db),
		Tasks:     taskRepoImp.New(db),
		Contracts: contractRepoImp.New(db),
		Audit:     auditRepoImp.New(db),
		Generator: ai.NewChain(nil, &ai.Mock{ID: "anthropic", Reply: "Fresh proposal"}),
		Notifier:  n,
		Errors:    errorLogRepoImp.New(db),
		Now:       func() time.Time { return fixedNow },
	})
	return &fixture{svc: svc, db: db, notifier: n, req: req, prop: prop}
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestGetNotFound(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Get(context.Background(), "nope")
	assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))

	p, err := f.svc.Get(context.Background(), f.prop.ID)
	require.NoError(t, err)
	require.NotNil(t, p.Request)
	assert.Equal(t, "Jane Doe", p.Request.Name)
}

func TestApproveCreatesContractTasksAndSends(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.svc.Approve(ctx, f.prop.ID, "7")
	require.NoError(t, err)
	assert.True(t, res.EmailSent)
	assert.Equal(t, entities.ProposalSent, res.Proposal.Status)
	assert.Equal(t, []string{f.prop.ID}, f.notifier.sent)

	var p entities.Proposal
	require.NoError(t, f.db.First(&p, "id = ?", f.prop.ID).Error)
	assert.Equal(t, entities.ProposalSent, p.Status)
	assert.Equal(t, "7", p.ApprovedBy)
	require.NotNil(t, p.ApprovedAt)
	require.NotNil(t, p.SentAt)

	var r entities.CateringRequest
	require.NoError(t, f.db.First(&r, "id = ?", f.req.ID).Error)
	assert.Equal(t, entities.RequestApproved, r.Status)

	var tasks []entities.Task
	require.NoError(t, f.db.Order("due_date ASC").Find(&tasks).Error)
	require.Len(t, tasks, 2)
	assert.Equal(t, entities.PriorityHigh, tasks[0].Priority)
	assert.True(t, tasks[0].DueDate.Equal(fixedNow.Add(24*time.Hour)))
	assert.Equal(t, entities.PriorityMedium, tasks[1].Priority)
	assert.True(t, tasks[1].DueDate.Equal(fixedNow.Add(72*time.Hour)))

	assert.Equal(t, int64(1), count(t, f.db, &entities.Contract{}))
	assert.Equal(t, int64(1), count(t, f.db, &entities.AdminLog{}))
}

func TestReapproveIsConflictWithoutDuplicates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.svc.Approve(ctx, f.prop.ID, "7")
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, f.prop.ID, "7")
	assert.Equal(t, http.StatusConflict, apierr.StatusOf(err))

	assert.Equal(t, int64(2), count(t, f.db, &entities.Task{}))
	assert.Equal(t, int64(1), count(t, f.db, &entities.Contract{}))
	assert.Len(t, f.notifier.sent, 1)
}

func TestApproveOnlyLatestVersionOncePerRequest(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	v2, err := f.svc.Modify(ctx, f.prop.ID, service.ModifyInput{
		AdminID: "7",
		Changes: []service.Change{{Field: "guestCount", OldValue: "80", NewValue: "120"}},
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, f.prop.ID, "7")
	assert.Equal(t, http.StatusConflict, apierr.StatusOf(err))
	_, err = f.svc.Deny(ctx, f.prop.ID, "7", "stale")
	assert.Equal(t, http.StatusConflict, apierr.StatusOf(err))

	res, err := f.svc.Approve(ctx, v2.ID, "7")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Proposal.Version)
	assert.Equal(t, v2.EstimatedCost, res.Contract.TotalAmount)

	// a newer draft after approval cannot be approved into a second contract
	v3, err := f.svc.SetPrice(ctx, v2.ID, "7", 40)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, v3.ID, "7")
	assert.Equal(t, http.StatusConflict, apierr.StatusOf(err))

	assert.Equal(t, int64(1), count(t, f.db, &entities.Contract{}))
	assert.Equal(t, int64(2), count(t, f.db, &entities.Task{}))
	assert.Equal(t, []string{v2.ID}, f.notifier.sent)
}

func TestApproveEmailFailureKeepsApproved(t *testing.T) {
	f := setup(t)
	f.notifier.err = errors.New("sendgrid down")

	res, err := f.svc.Approve(context.Background(), f.prop.ID, "7")
	require.NoError(t, err)
	assert.False(t, res.EmailSent)

	var p entities.Proposal
	require.NoError(t, f.db.First(&p, "id = ?", f.prop.ID).Error)
	assert.Equal(t, entities.ProposalApproved, p.Status)
	assert.Nil(t, p.SentAt)
	assert.Equal(t, int64(1), count(t, f.db, &entities.ErrorLog{}))
}

func TestDeny(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.svc.Deny(ctx, f.prop.ID, "7", " budget ")
	require.NoError(t, err)
	assert.Equal(t, entities.ProposalDenied, p.Status)
	assert.Equal(t, "budget", p.DenialReason)

	_, err = f.svc.Deny(ctx, f.prop.ID, "7", "again")
	assert.Equal(t, http.StatusConflict, apierr.StatusOf(err))
	_, err = f.svc.Approve(ctx, f.prop.ID, "7")
	assert.Equal(t, http.StatusConflict, apierr.StatusOf(err))
	_, err = f.svc.Resend(ctx, f.prop.ID)
	assert.Equal(t, http.StatusConflict, apierr.StatusOf(err))
}

func TestModifyRequiresAdmin(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Modify(context.Background(), f.prop.ID, service.ModifyInput{
		Changes: []service.Change{{Field: "guestCount", OldValue: "80", NewValue: "100"}},
	})
	assert.Equal(t, http.StatusUnauthorized, apierr.StatusOf(err))
	assert.Equal(t, int64(1), count(t, f.db, &entities.Proposal{}))
}

func TestModifyHeadcountRecomputesCostWithTax(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	next, err := f.svc.Modify(ctx, f.prop.ID, service.ModifyInput{
		AdminID: "7",
		Reason:  "client called",
		Changes: []service.Change{
			{Field: "guestCount", OldValue: "80", NewValue: "100"},
			{Field: "content", OldValue: "Menu", NewValue: "Menu"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, next.Version)
	assert.Equal(t, f.prop.ID, next.PreviousID)
	assert.Equal(t, entities.ProposalModifiedPendingSend, next.Status)
	assert.Equal(t, 2681.25, next.EstimatedCost)

	// original row untouched
	var orig entities.Proposal
	require.NoError(t, f.db.First(&orig, "id = ?", f.prop.ID).Error)
	assert.Equal(t, 2000.0, orig.EstimatedCost)
	assert.Equal(t, entities.ProposalDraft, orig.Status)

	var r entities.CateringRequest
	require.NoError(t, f.db.First(&r, "id = ?", f.req.ID).Error)
	assert.Equal(t, 100, r.GuestCount)

	var changes []entities.ChangeLog
	require.NoError(t, f.db.Where("proposal_id = ?", next.ID).Order("id").Find(&changes).Error)
	require.Len(t, changes, 2)
	assert.Equal(t, "guestCount", changes[0].Field)
	assert.Equal(t, "7", changes[0].ChangedBy)
	assert.Equal(t, "estimatedCost", changes[1].Field)
	assert.Equal(t, "2681.25", changes[1].NewValue)
	assert.Equal(t, int64(1), count(t, f.db, &entities.AdminLog{}))
}

func TestModifyWithCallerRate(t *testing.T) {
	f := setup(t)
	next, err := f.svc.Modify(context.Background(), f.prop.ID, service.ModifyInput{
		AdminID: "7",
		Rate:    30,
		Changes: []service.Change{{Field: "headcount", OldValue: "80", NewValue: "100"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3217.5, next.EstimatedCost)
}

func TestModifyRejectsEmptyOrInvalid(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.svc.Modify(ctx, f.prop.ID, service.ModifyInput{AdminID: "7", Changes: []service.Change{{Field: "content", OldValue: "a", NewValue: "a"}}})
	assert.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))
	_, err = f.svc.Modify(ctx, f.prop.ID, service.ModifyInput{AdminID: "7", Changes: []service.Change{{Field: "guestCount", OldValue: "80", NewValue: "lots"}}})
	assert.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))
	assert.Equal(t, int64(1), count(t, f.db, &entities.Proposal{}))
}

func TestCreateVersionIsAppendOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	content := "Updated menu"

	v2, err := f.svc.CreateVersion(ctx, f.prop.ID, service.VersionInput{Content: &content, ChangedBy: "7"})
	require.NoError(t, err)
	assert.Equal(t, 2, v2.Version)
	assert.Equal(t, entities.ProposalPendingReview, v2.Status)

	// editing the old row again still produces the next number
	cost := 2500.0
	v3, err := f.svc.CreateVersion(ctx, f.prop.ID, service.VersionInput{EstimatedCost: &cost})
	require.NoError(t, err)
	assert.Equal(t, 3, v3.Version)

	versions, err := f.svc.ListVersions(ctx, f.req.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, "Menu", versions[0].Content)
	assert.Equal(t, []int{1, 2, 3}, []int{versions[0].Version, versions[1].Version, versions[2].Version})

	hist, err := f.svc.History(ctx, v3.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 2)

	_, err = f.svc.CreateVersion(ctx, f.prop.ID, service.VersionInput{})
	assert.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))
}

func TestResend(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.notifier.err = errors.New("smtp refused")
	_, err := f.svc.Resend(ctx, f.prop.ID)
	assert.Equal(t, http.StatusBadGateway, apierr.StatusOf(err))

	f.notifier.err = nil
	p, err := f.svc.Resend(ctx, f.prop.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ProposalSent, p.Status)

	var r entities.CateringRequest
	require.NoError(t, f.db.First(&r, "id = ?", f.req.ID).Error)
	assert.Equal(t, entities.RequestProposalSent, r.Status)
}

func TestCreateAndSetPrice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.req.ID, "7")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Version)
	assert.Equal(t, "anthropic", p.Generator)
	assert.Equal(t, "Fresh proposal", p.Content)

	priced, err := f.svc.SetPrice(ctx, p.ID, "7", 40)
	require.NoError(t, err)
	assert.Equal(t, 3, priced.Version)
	assert.Equal(t, 3432.0, priced.EstimatedCost)

	_, err = f.svc.Create(ctx, "missing", "7")
	assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
}

func TestExportWritesLatestVersions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	content := "v2"
	_, err := f.svc.CreateVersion(ctx, f.prop.ID, service.VersionInput{Content: &content})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.Export(ctx, &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ref", rows[0][0])
	assert.Equal(t, "EA-1234ABCD", rows[1][0])
	assert.Equal(t, "2", rows[1][6])
}
