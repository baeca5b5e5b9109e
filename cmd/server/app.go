package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"catering/config"
	"catering/pkg/agenda"
	"catering/pkg/ai"
	"catering/pkg/analysis"
	"catering/pkg/httpx"
	"catering/pkg/logger"
	"catering/pkg/metrics"
	"catering/pkg/middleware"
	"catering/pkg/notify"
	"catering/pkg/voice"
	"catering/router"

	// Auth
	authCtrlImp "catering/pkg/auth/controllerImp"
	authSvcImp "catering/pkg/auth/serviceImp"

	// Catering / proposals
	cateringCtrlImp "catering/pkg/catering/controllerImp"
	cateringRepoImp "catering/pkg/catering/repositoryImp"
	cateringSvcImp "catering/pkg/catering/serviceImp"
	proposalCtrlImp "catering/pkg/proposal/controllerImp"
	proposalRepoImp "catering/pkg/proposal/repositoryImp"
	proposalSvcImp "catering/pkg/proposal/serviceImp"

	// Back office
	auditCtrlImp "catering/pkg/audit/controllerImp"
	auditRepoImp "catering/pkg/audit/repositoryImp"
	contractCtrlImp "catering/pkg/contract/controllerImp"
	contractRepoImp "catering/pkg/contract/repositoryImp"
	errorLogCtrlImp "catering/pkg/errorlog/controllerImp"
	errorLogRepoImp "catering/pkg/errorlog/repositoryImp"
	taskCtrlImp "catering/pkg/task/controllerImp"
	taskRepoImp "catering/pkg/task/repositoryImp"

	// Scheduling
	"catering/pkg/calendar"
	calendarCtrlImp "catering/pkg/calendar/controllerImp"
	calendarRepoImp "catering/pkg/calendar/repositoryImp"
	"catering/pkg/googleauth"
	tokenRepoImp "catering/pkg/googleauth/repositoryImp"

	// Health
	healthCtrlImp "catering/pkg/health/controllerImp"
)

const sessionTTL = 12 * time.Hour

// generators builds the configured text providers in priority order.
func generators(ctx context.Context, cfg config.AppConfig, log *logger.Logger) []ai.Generator {
	var out []ai.Generator
	add := func(g ai.Generator, err error) {
		if err != nil {
			log.Warn("generator disabled", "error", err)
			return
		}
		out = append(out, g)
	}
	if cfg.AnthropicKey != "" {
		add(ai.NewAnthropic(cfg.AnthropicKey, cfg.AnthropicModel))
	}
	if cfg.GeminiKey != "" {
		add(ai.NewGemini(ctx, cfg.GeminiKey, cfg.GeminiModel))
	}
	if cfg.LLMEndpoint != "" && cfg.LLMAPIKey != "" {
		add(ai.NewOpenAICompatible(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel))
	}
	return out
}

func notifier(cfg config.AppConfig, log *logger.Logger) *notify.Dispatcher {
	var mailers []notify.Mailer
	if cfg.SendGridKey != "" {
		if m, err := notify.NewSendGrid(log, notify.SendGridConfig{APIKey: cfg.SendGridKey, FromEmail: cfg.MailFromEmail, FromName: cfg.MailFromName}); err != nil {
			log.Warn("sendgrid disabled", "error", err)
		} else {
			mailers = append(mailers, m)
		}
	}
	if cfg.SMTPHost != "" {
		m, err := notify.NewSMTP(notify.SMTPConfig{Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser,
			Password: cfg.SMTPPassword, FromEmail: cfg.MailFromEmail, FromName: cfg.MailFromName})
		if err != nil {
			log.Warn("smtp disabled", "error", err)
		} else {
			mailers = append(mailers, m)
		}
	}
	var sms notify.Texter
	if cfg.TwilioSID != "" {
		t, err := notify.NewTwilio(log, notify.TwilioConfig{AccountSID: cfg.TwilioSID, AuthToken: cfg.TwilioToken, From: cfg.TwilioFrom})
		if err != nil {
			log.Warn("twilio disabled", "error", err)
		} else {
			sms = t
		}
	}
	return notify.NewDispatcher(log, notify.Fallback(mailers...), sms, cfg.AdminNotifyEmail)
}

// build wires every component onto a fresh echo instance.
func build(ctx context.Context, cfg config.AppConfig, log *logger.Logger, db *gorm.DB) (*echo.Echo, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn("unknown timezone, using local", "tz", cfg.Timezone)
		loc = time.Local
	}
	analysisCfg, err := analysis.LoadConfig(cfg.AnalysisConfigPath)
	if err != nil {
		return nil, err
	}

	// repos
	requests := cateringRepoImp.New(db)
	proposals := proposalRepoImp.New(db)
	tasks := taskRepoImp.New(db)
	contracts := contractRepoImp.New(db)
	audit := auditRepoImp.New(db)
	errorLogs := errorLogRepoImp.New(db)

	chain := ai.NewChain(log, generators(ctx, cfg, log)...)
	dispatcher := notifier(cfg, log)

	cateringSvc := cateringSvcImp.NewCateringService(db, requests, proposals, chain, dispatcher, log)
	proposalSvc := proposalSvcImp.NewProposalService(proposalSvcImp.Deps{
		DB:        db,
		Requests:  requests,
		Proposals: proposals,
		Tasks:     tasks,
		Contracts: contracts,
		Audit:     audit,
		Generator: chain,
		Notifier:  dispatcher,
		Errors:    errorLogs,
		Log:       log,
	})
	authSvc := authSvcImp.NewAuthService(db, log, cfg.JWTSecret, sessionTTL)

	oauth := googleauth.New(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, tokenRepoImp.New(db), log)
	var provider calendar.Provider
	if oauth.Configured() {
		provider = calendar.NewGoogle(oauth, cfg.GoogleCalendarID)
	}
	scheduler := calendar.NewScheduler(calendarRepoImp.New(db), proposals, provider, loc, log)

	var caller voice.Caller
	if cfg.VapiKey != "" {
		if caller, err = voice.NewVapi(log, voice.VapiConfig{APIKey: cfg.VapiKey, AssistantID: cfg.VapiAssistantID,
			PhoneNumberID: cfg.VapiPhoneNumberID}); err != nil {
			log.Warn("vapi disabled", "error", err)
			caller = nil
		}
	}
	voiceSvc := voice.NewService(requests, audit, caller, cfg.VapiWebhookSecret, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpx.NewValidator()
	e.HTTPErrorHandler = httpx.ErrorHandler(log, errorLogs, cfg.Development())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLog(log))
	e.Use(metrics.Middleware())

	providers := map[string]bool{
		"anthropic": cfg.AnthropicKey != "",
		"gemini":    cfg.GeminiKey != "",
		"llm":       cfg.LLMEndpoint != "",
		"sendgrid":  cfg.SendGridKey != "",
		"smtp":      cfg.SMTPHost != "",
		"twilio":    cfg.TwilioSID != "",
		"vapi":      caller != nil,
		"google":    oauth.Configured(),
	}

	router.New(e, router.Handlers{
		Auth:       authCtrlImp.NewAuthController(authSvc, !cfg.Development()),
		Catering:   cateringCtrlImp.New(cateringSvc),
		Proposal:   proposalCtrlImp.New(proposalSvc),
		Contract:   contractCtrlImp.New(contracts),
		Task:       taskCtrlImp.New(tasks),
		ErrorLog:   errorLogCtrlImp.New(errorLogs),
		Audit:      auditCtrlImp.New(audit),
		Health:     healthCtrlImp.NewHealthCtrl(db, providers),
		Calendar:   calendarCtrlImp.New(scheduler, loc),
		Google:     oauth,
		Voice:      voiceSvc,
		Analyze:    analysis.NewService(proposals, requests, analysisCfg).Handle,
		Initialize: agenda.NewStore(db, proposals, contracts, agenda.DefaultConfig()).Initialize,
		Metrics:    metrics.NewRegistry().Handler(),
	}, middleware.RequireAdmin(authSvc), middleware.IdentifyAdmin(authSvc))

	log.Info("generators ready", "chain", chain.Names())
	return e, nil
}
