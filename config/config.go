package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port        string
	Timezone    string
	Env         string
	DBPath      string
	DatabaseURL string

	JWTSecret     string
	AdminEmail    string
	AdminPassword string

	AnthropicKey   string
	AnthropicModel string
	GeminiKey      string
	GeminiModel    string
	LLMEndpoint    string
	LLMAPIKey      string
	LLMModel       string

	SendGridKey      string
	MailFromEmail    string
	MailFromName     string
	AdminNotifyEmail string
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPassword     string

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	VapiKey           string
	VapiAssistantID   string
	VapiPhoneNumberID string
	VapiWebhookSecret string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	GoogleCalendarID   string

	AnalysisConfigPath string
}

// DevJWTSecret signs sessions on a development machine only.
const DevJWTSecret = "dev-secret-change-me"

func (c AppConfig) Development() bool { return c.Env == "development" }

// Validate rejects settings that are only safe on a development machine.
func (c AppConfig) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTSecret == DevJWTSecret && !c.Development() {
		return errors.New("JWT_SECRET must be changed outside development")
	}
	return nil
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	get := func(k, def string) string {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
		return def
	}
	getInt := func(k string, def int) int {
		v, err := strconv.Atoi(get(k, ""))
		if err != nil {
			return def
		}
		return v
	}
	env := get("APP_ENV", "production")
	devSecret := ""
	if env == "development" {
		devSecret = DevJWTSecret
	}
	cfg := AppConfig{
		Port:        get("PORT", "8080"),
		Timezone:    get("TZ", "America/New_York"),
		Env:         env,
		DBPath:      get("DB_PATH", "catering.db"),
		DatabaseURL: get("DATABASE_URL", ""),

		JWTSecret:     get("JWT_SECRET", devSecret),
		AdminEmail:    get("ADMIN_EMAIL", ""),
		AdminPassword: get("ADMIN_PASSWORD", ""),

		AnthropicKey:   get("ANTHROPIC_API_KEY", ""),
		AnthropicModel: get("ANTHROPIC_MODEL", "claude-3-5-sonnet-latest"),
		GeminiKey:      get("GEMINI_API_KEY", ""),
		GeminiModel:    get("GEMINI_MODEL", "gemini-1.5-flash"),
		LLMEndpoint:    get("LLM_ENDPOINT", ""),
		LLMAPIKey:      get("LLM_API_KEY", ""),
		LLMModel:       get("LLM_MODEL", "gpt-4o-mini"),

		SendGridKey:      get("SENDGRID_API_KEY", ""),
		MailFromEmail:    get("MAIL_FROM_EMAIL", "events@example.com"),
		MailFromName:     get("MAIL_FROM_NAME", "Catering Team"),
		AdminNotifyEmail: get("ADMIN_NOTIFY_EMAIL", ""),
		SMTPHost:         get("SMTP_HOST", ""),
		SMTPPort:         getInt("SMTP_PORT", 587),
		SMTPUser:         get("SMTP_USER", ""),
		SMTPPassword:     get("SMTP_PASSWORD", ""),

		TwilioSID:   get("TWILIO_ACCOUNT_SID", ""),
		TwilioToken: get("TWILIO_AUTH_TOKEN", ""),
		TwilioFrom:  get("TWILIO_FROM_NUMBER", ""),

		VapiKey:           get("VAPI_API_KEY", ""),
		VapiAssistantID:   get("VAPI_ASSISTANT_ID", ""),
		VapiPhoneNumberID: get("VAPI_PHONE_NUMBER_ID", ""),
		VapiWebhookSecret: get("VAPI_WEBHOOK_SECRET", ""),

		GoogleClientID:     get("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  get("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		GoogleCalendarID:   get("GOOGLE_CALENDAR_ID", "primary"),

		AnalysisConfigPath: get("ANALYSIS_CONFIG", ""),
	}
	log.Printf("[cfg] port=%s env=%s db=%s anthropic=%t gemini=%t llm=%t",
		cfg.Port, cfg.Env, cfg.DBPath, cfg.AnthropicKey != "", cfg.GeminiKey != "", cfg.LLMEndpoint != "")
	return cfg
}
