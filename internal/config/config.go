package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"
)

type Config struct {
	// Database
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Sessions
	SessionSecret string
	SessionExpiry time.Duration

	// Azure AD SSO
	OIDCTenant       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURI  string
	SSORequired      bool
	AllowedDomains   []string

	// Admin
	AdminPassword string

	// Sites
	Sites       map[string]string
	DefaultSite string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "checkin_db"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionExpiry: parseDuration(getEnv("SESSION_EXPIRY", "8h")),

		OIDCTenant:       getEnv("OIDC_TENANT", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURI:  getEnv("OIDC_REDIRECT_URI", ""),
		SSORequired:      parseBool(getEnv("SSO_REQUIRED", "true")),
		AllowedDomains:   parseCSV(getEnv("ALLOWED_DOMAINS", "")),

		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		Sites:       parseSites(getEnv("SITES", "")),
		DefaultSite: getEnv("DEFAULT_SITE", "greensboro"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

// DSN returns the Postgres connection string. DATABASE_URL wins when set,
// with the heroku-style postgres:// scheme normalized.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		if strings.HasPrefix(c.DatabaseURL, "postgres://") {
			return "postgresql://" + strings.TrimPrefix(c.DatabaseURL, "postgres://")
		}
		return c.DatabaseURL
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// DomainAllowed reports whether the email's domain passes the allow-list.
// An empty allow-list admits everyone.
func (c *Config) DomainAllowed(email string) bool {
	if len(c.AllowedDomains) == 0 {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, d := range c.AllowedDomains {
		if strings.ToLower(d) == domain {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 8 * time.Hour
	}
	return d
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseSites(s string) map[string]string {
	sites := map[string]string{"greensboro": "Greensboro", "remote": "Remote"}
	if s == "" {
		return sites
	}
	var parsed map[string]string
	if err := json.Unmarshal([]byte(s), &parsed); err != nil || len(parsed) == 0 {
		return sites
	}
	return parsed
}
