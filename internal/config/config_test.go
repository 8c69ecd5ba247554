package config

import (
	"testing"
	"time"
)

func TestDSNPrefersDatabaseURL(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://u:p@host:5432/db",
		DBHost:      "ignored",
	}
	want := "postgresql://u:p@host:5432/db"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestDSNFromParts(t *testing.T) {
	cfg := &Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBPassword: "secret",
		DBName:     "checkin_db",
		DBSSLMode:  "disable",
	}
	want := "host=localhost user=postgres password=secret dbname=checkin_db port=5432 sslmode=disable TimeZone=UTC"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestDomainAllowed(t *testing.T) {
	open := &Config{}
	if !open.DomainAllowed("anyone@anywhere.com") {
		t.Error("empty allow-list should admit everyone")
	}

	cfg := &Config{AllowedDomains: []string{"sebridge.com"}}
	cases := []struct {
		email string
		want  bool
	}{
		{"alice@sebridge.com", true},
		{"alice@SEBRIDGE.COM", true},
		{"alice@gmail.com", false},
		{"no-at-sign", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := cfg.DomainAllowed(tc.email); got != tc.want {
			t.Errorf("DomainAllowed(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestParseSitesFallsBackOnBadJSON(t *testing.T) {
	sites := parseSites("not json")
	if _, ok := sites["greensboro"]; !ok {
		t.Error("bad JSON should fall back to defaults")
	}

	sites = parseSites(`{"hq":"Headquarters"}`)
	if sites["hq"] != "Headquarters" || len(sites) != 1 {
		t.Errorf("parseSites = %v", sites)
	}
}

func TestParseDurationFallback(t *testing.T) {
	if d := parseDuration("bogus"); d != 8*time.Hour {
		t.Errorf("parseDuration(bogus) = %v, want 8h", d)
	}
	if d := parseDuration("30m"); d != 30*time.Minute {
		t.Errorf("parseDuration(30m) = %v", d)
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", "yes", " on "} {
		if !parseBool(s) {
			t.Errorf("parseBool(%q) = false", s)
		}
	}
	for _, s := range []string{"0", "false", "", "nope"} {
		if parseBool(s) {
			t.Errorf("parseBool(%q) = true", s)
		}
	}
}
