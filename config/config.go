package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string
	// Static site
	SiteDir      string
	GalleryDir   string
	HeroImages   []string
	HeroInterval time.Duration
	// Facility details used in email bodies and user-facing messages
	FacilityName  string
	FacilityPhone string
	// Mail transport: "smtp", "resend" or "log"
	MailTransport        string
	SMTPHost             string
	SMTPPort             string
	SMTPUsername         string
	SMTPPassword         string
	ResendAPIKey         string
	ContactEmailTo       string
	MailFromAddress      string
	MailFromName         string
	ConfirmationFromName string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds    int
	RateLimitContactThreshold int
	// Honour X-Forwarded-For when resolving the client IP
	TrustProxy bool
	// Submission dispatch (client side)
	RelayURL           string
	FormspreeFormID    string
	FormspreeURL       string
	Web3FormsAccessKey string
	Web3FormsURL       string
	DispatchTimeout    time.Duration
}

func LoadConfig() (*Config, error) {
	// Load .env file when present; real environment variables take precedence
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		GinMode:      getEnv("GIN_MODE", "debug"),
		SiteDir:      getEnv("SITE_DIR", "./site"),
		GalleryDir:   getEnv("GALLERY_DIR", "./site/images"),
		HeroImages:   getEnvList("HERO_IMAGES", []string{"seaview (1).jpeg", "seaview (2).jpeg", "seaview (3).jpeg", "seaview (4).jpeg"}),
		HeroInterval: time.Duration(getEnvInt("HERO_INTERVAL_SECONDS", 8)) * time.Second,
		// Facility
		FacilityName:  getEnv("FACILITY_NAME", "Seaview Aged Care"),
		FacilityPhone: getEnv("FACILITY_PHONE", "035736027"),
		// Mail
		MailTransport:        strings.ToLower(getEnv("MAIL_TRANSPORT", "smtp")),
		SMTPHost:             getEnv("SMTP_HOST", "localhost"),
		SMTPPort:             getEnv("SMTP_PORT", "25"),
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		ResendAPIKey:         getEnv("RESEND_API_KEY", ""),
		ContactEmailTo:       getEnv("CONTACT_EMAIL_TO", "admin@seaviewhome.co.nz"),
		MailFromAddress:      getEnv("MAIL_FROM_ADDRESS", "noreply@seaviewhome.co.nz"),
		MailFromName:         getEnv("MAIL_FROM_NAME", "Seaview Website"),
		ConfirmationFromName: getEnv("CONFIRMATION_FROM_NAME", "Seaview Aged Care"),
		// Redis/Upstash
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate limiting (contact form only)
		RateLimitWindowSeconds:    getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitContactThreshold: getEnvInt("RATE_LIMIT_CONTACT_THRESHOLD", 5),
		TrustProxy:                getEnvBool("TRUST_PROXY", false),
		// Dispatch chain
		RelayURL:           getEnv("RELAY_URL", "http://localhost:8080/contact"),
		FormspreeFormID:    getEnv("FORMSPREE_FORM_ID", ""),
		FormspreeURL:       strings.TrimRight(getEnv("FORMSPREE_URL", "https://formspree.io/f"), "/"),
		Web3FormsAccessKey: getEnv("WEB3FORMS_ACCESS_KEY", ""),
		Web3FormsURL:       getEnv("WEB3FORMS_URL", "https://api.web3forms.com/submit"),
		DispatchTimeout:    time.Duration(getEnvInt("DISPATCH_TIMEOUT_SECONDS", 0)) * time.Second,
	}

	if cfg.MailTransport == "smtp" && cfg.SMTPHost == "" {
		log.Println("WARNING: SMTP_HOST is empty. Contact form emails will fail to send.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// SMTPPortInt returns the SMTP port as an integer, or 0 when it is not numeric.
func (c *Config) SMTPPortInt() int {
	port, err := strconv.Atoi(c.SMTPPort)
	if err != nil {
		return 0
	}
	return port
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma-separated environment variable, dropping blank entries
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
