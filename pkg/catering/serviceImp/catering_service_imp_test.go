package serviceImp

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"catering/database"
	"catering/entities"
	"catering/pkg/ai"
	"catering/pkg/apierr"
	repoImp "catering/pkg/catering/repositoryImp"
	"catering/pkg/catering/service"
	proposalRepoImp "catering/pkg/proposal/repositoryImp"
)

type recordingNotifier struct {
	refs []string
}

func (n *recordingNotifier) RequestReceived(_ context.Context, _ *entities.CateringRequest, _ *entities.Proposal, ref string) {
	n.refs = append(n.refs, ref)
}

func newSvc(t *testing.T, gens ...ai.Generator) (service.CateringService, *gorm.DB, *recordingNotifier) {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	n := &recordingNotifier{}
	svc := NewCateringService(db, repoImp.New(db), proposalRepoImp.New(db), ai.NewChain(nil, gens...), n, nil)
	return svc, db, n
}

func TestSubmitEndToEnd(t *testing.T) {
	svc, db, n := newSvc(t, &ai.Mock{ID: "anthropic", Err: errors.New("down")}, &ai.Mock{ID: "gemini", Reply: "Lovely menu"})

	res, err := svc.Submit(context.Background(), service.SubmitInput{
		Name:      " Jane Doe ",
		Email:     "jane@x.com",
		Proteins:  []string{"Chicken", "Tofu"},
		Headcount: 50,
	})
	require.NoError(t, err)

	assert.Regexp(t, `^EA-[A-Z0-9]{8}$`, res.ProposalRef)
	assert.Equal(t, 1250.0, res.EstimatedCost)
	assert.Equal(t, "gemini", res.Generator)
	assert.Equal(t, []string{res.ProposalRef}, n.refs)

	var p entities.Proposal
	require.NoError(t, db.First(&p, "id = ?", res.ProposalID).Error)
	assert.Equal(t, 1, p.Version)
	assert.Equal(t, entities.ProposalDraft, p.Status)
	assert.Equal(t, 1250.0, p.EstimatedCost)
	assert.Equal(t, "Lovely menu", p.Content)

	var r entities.CateringRequest
	require.NoError(t, db.First(&r, "id = ?", res.RequestID).Error)
	assert.Equal(t, "Jane Doe", r.Name)
	assert.Equal(t, entities.RequestPending, r.Status)
	assert.Equal(t, []string{"Chicken", "Tofu"}, r.Proteins)
}

func TestSubmitFallsBackToTemplate(t *testing.T) {
	svc, _, _ := newSvc(t, &ai.Mock{ID: "anthropic", Reply: ""})

	res, err := svc.Submit(context.Background(), service.SubmitInput{
		Name: "Jane", Email: "jane@x.com", Proteins: []string{"Steak"}, GuestCount: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, ai.TemplateName, res.Generator)
	assert.Equal(t, 2400.0, res.EstimatedCost)
}

func TestSubmitValidationCreatesNothing(t *testing.T) {
	cases := []struct {
		name string
		in   service.SubmitInput
	}{
		{"missing_name", service.SubmitInput{Email: "jane@x.com", Proteins: []string{"Chicken"}}},
		{"missing_email", service.SubmitInput{Name: "Jane", Proteins: []string{"Chicken"}}},
		{"blank_proteins", service.SubmitInput{Name: "Jane", Email: "jane@x.com", Proteins: []string{" ", ""}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, db, n := newSvc(t)
			_, err := svc.Submit(context.Background(), tc.in)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))

			var reqs, props int64
			db.Model(&entities.CateringRequest{}).Count(&reqs)
			db.Model(&entities.Proposal{}).Count(&props)
			assert.Zero(t, reqs)
			assert.Zero(t, props)
			assert.Empty(t, n.refs)
		})
	}
}

func TestSubmitAcceptsAnyNonEmptyContact(t *testing.T) {
	svc, db, _ := newSvc(t)
	ctx := context.Background()

	for _, in := range []service.SubmitInput{
		{Name: "Jane", Email: "jane", Proteins: []string{"Chicken"}},
		{Name: "Sam", Email: "sam@x.com", Proteins: []string{"Tofu"}, EventDate: "next friday"},
	} {
		res, err := svc.Submit(ctx, in)
		require.NoError(t, err, in.Email)
		assert.NotEmpty(t, res.ProposalID)

		var r entities.CateringRequest
		require.NoError(t, db.First(&r, "id = ?", res.RequestID).Error)
		assert.Nil(t, r.EventDate)
	}
}

func TestGenerateMenuUpsertsAndMarksGenerated(t *testing.T) {
	svc, db, _ := newSvc(t, &ai.Mock{ID: "anthropic", Reply: "Menu v1"})
	ctx := context.Background()

	r, err := svc.CreateRequest(ctx, service.SubmitInput{Name: "Jane", Email: "jane@x.com", Proteins: []string{"Chicken"}, EventDate: "2026-05-02"})
	require.NoError(t, err)
	require.NotNil(t, r.EventDate)

	_, err = svc.GenerateMenu(ctx, r.ID)
	require.NoError(t, err)
	m, err := svc.GenerateMenu(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Menu v1", m.Content)

	var menus int64
	db.Model(&entities.Menu{}).Count(&menus)
	assert.Equal(t, int64(1), menus)

	got, err := svc.GetRequest(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RequestGenerated, got.Status)
	require.NotNil(t, got.Menu)
}

func TestGetRequestNotFound(t *testing.T) {
	svc, _, _ := newSvc(t)
	_, err := svc.GetRequest(context.Background(), "missing")
	assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
}

func TestListRequestsFiltersByStatus(t *testing.T) {
	svc, _, _ := newSvc(t)
	ctx := context.Background()
	_, err := svc.Submit(ctx, service.SubmitInput{Name: "A", Email: "a@x.com", Proteins: []string{"Chicken"}})
	require.NoError(t, err)

	all, err := svc.ListRequests(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Proposals, 1)

	none, err := svc.ListRequests(ctx, "approved")
	require.NoError(t, err)
	assert.Empty(t, none)
}
