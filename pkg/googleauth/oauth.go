package googleauth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"gorm.io/gorm"

	"catering/entities"
	"catering/pkg/apierr"
	"catering/pkg/googleauth/repository"
	"catering/pkg/httpx"
	"catering/pkg/logger"
)

const (
	ServiceCalendar = "calendar"
	stateCookie     = "google_oauth_state"
)

var ErrNotConnected = errors.New("google calendar is not connected")

// OAuth owns the consent flow and hands out token sources backed by the
// active stored token.
type OAuth struct {
	conf *oauth2.Config
	repo repository.TokenRepository
	log  *logger.Logger
}

func New(clientID, clientSecret, redirectURL string, repo repository.TokenRepository, log *logger.Logger) *OAuth {
	if log == nil {
		log = logger.Nop()
	}
	return &OAuth{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{calendar.CalendarScope},
		},
		repo: repo,
		log:  log,
	}
}

func (o *OAuth) Configured() bool { return o.conf.ClientID != "" && o.conf.ClientSecret != "" }

func (o *OAuth) AuthURL(state string) string {
	return o.conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (o *OAuth) Exchange(ctx context.Context, code string) (*entities.GoogleToken, error) {
	tok, err := o.conf.Exchange(ctx, code)
	if err != nil {
		return nil, apierr.Upstream("google oauth", err)
	}
	return o.Store(ctx, tok)
}

// Store activates tok for the calendar service.
func (o *OAuth) Store(ctx context.Context, tok *oauth2.Token) (*entities.GoogleToken, error) {
	row := &entities.GoogleToken{
		Service:      ServiceCalendar,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
	if err := o.repo.Activate(ctx, row); err != nil {
		return nil, err
	}
	o.log.Info("google token activated", "service", row.Service, "expiry", row.Expiry)
	return row, nil
}

// TokenSource returns a source for the active calendar token. Refreshed
// tokens are written back as a new active row.
func (o *OAuth) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	row, err := o.repo.Active(ctx, ServiceCalendar)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotConnected
	}
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{
		AccessToken:  row.AccessToken,
		RefreshToken: row.RefreshToken,
		TokenType:    row.TokenType,
		Expiry:       row.Expiry,
	}
	return &persisting{ctx: context.WithoutCancel(ctx), base: o.conf.TokenSource(ctx, tok), last: tok.AccessToken, o: o}, nil
}

type persisting struct {
	ctx  context.Context
	base oauth2.TokenSource
	last string
	o    *OAuth
}

func (p *persisting) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if _, err := p.o.Store(p.ctx, tok); err != nil {
			p.o.log.Warn("persist refreshed google token failed", "error", err)
		}
	}
	return tok, nil
}

// Start serves GET /auth/google.
func (o *OAuth) Start(c echo.Context) error {
	if !o.Configured() {
		return apierr.Validation("google oauth is not configured", nil)
	}
	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/google",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})
	return c.Redirect(http.StatusFound, o.AuthURL(state))
}

// Callback serves GET /auth/google/callback.
func (o *OAuth) Callback(c echo.Context) error {
	if msg := c.QueryParam("error"); msg != "" {
		return apierr.Validation("google consent failed: "+msg, nil)
	}
	code := c.QueryParam("code")
	if code == "" {
		return apierr.Validation("missing code", nil)
	}
	ck, err := c.Cookie(stateCookie)
	if err != nil || ck.Value == "" || ck.Value != c.QueryParam("state") {
		return apierr.Validation("oauth state mismatch", nil)
	}
	row, err := o.Exchange(c.Request().Context(), code)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{Name: stateCookie, Value: "", Path: "/auth/google", MaxAge: -1})
	return httpx.OK(c, http.StatusOK, map[string]any{"connected": true, "expiry": row.Expiry})
}

// Save serves POST /auth/google with a token pair obtained elsewhere.
func (o *OAuth) Save(c echo.Context) error {
	var body struct {
		AccessToken  string     `json:"accessToken" validate:"required"`
		RefreshToken string     `json:"refreshToken"`
		TokenType    string     `json:"tokenType"`
		Expiry       *time.Time `json:"expiry"`
	}
	if err := httpx.Bind(c, &body); err != nil {
		return err
	}
	tok := &oauth2.Token{
		AccessToken:  strings.TrimSpace(body.AccessToken),
		RefreshToken: strings.TrimSpace(body.RefreshToken),
		TokenType:    body.TokenType,
	}
	if tok.TokenType == "" {
		tok.TokenType = "Bearer"
	}
	if body.Expiry != nil {
		tok.Expiry = *body.Expiry
	}
	row, err := o.Store(c.Request().Context(), tok)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, map[string]any{"connected": true, "expiry": row.Expiry})
}
