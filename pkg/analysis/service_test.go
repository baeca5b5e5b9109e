package analysis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catering/database"
	"catering/entities"
	"catering/pkg/apierr"
	cateringRepoImp "catering/pkg/catering/repositoryImp"
	proposalRepoImp "catering/pkg/proposal/repositoryImp"
)

func seed(t *testing.T) *Service {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	guests := []int{100, 85, 120, 121, 79}
	for i, g := range guests {
		id := "req-" + string(rune('a'+i))
		require.NoError(t, db.Create(&entities.CateringRequest{ID: id, Name: "N", Email: "n@x.com", GuestCount: g,
			Proteins: []string{"Chicken"}, EventDate: date(2026, 7, 1)}).Error)
		require.NoError(t, db.Create(&entities.Proposal{ID: "prop-" + id, RequestID: id, Version: 1,
			Content: "menu", EstimatedCost: 2500, Status: entities.ProposalDraft}).Error)
	}
	svc := NewService(proposalRepoImp.New(db), cateringRepoImp.New(db), DefaultConfig())
	svc.now = func() time.Time { return now }
	return svc
}

func TestServiceAnalyzeCountsSimilarRequests(t *testing.T) {
	svc := seed(t)
	rep, err := svc.Analyze(context.Background(), "prop-req-a")
	require.NoError(t, err)
	// 85 and 120 are inside 80..120, the request itself is excluded
	assert.Equal(t, 2, rep.SimilarCount)
	assert.Equal(t, 0.50, rep.CloseProbability)
	assert.Equal(t, "prop-req-a", rep.ProposalID)
}

func TestServiceAnalyzeMissingProposal(t *testing.T) {
	svc := seed(t)
	_, err := svc.Analyze(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
}

func TestHandleRequiresProposalID(t *testing.T) {
	svc := seed(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/agent2/analyze", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	err := svc.Handle(e.NewContext(req, httptest.NewRecorder()))
	assert.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))

	req = httptest.NewRequest(http.MethodPost, "/agent2/analyze", strings.NewReader(`{"proposalId":"prop-req-b"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, svc.Handle(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"qualityScore"`)
}
