package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_ISSUER", "my-svc")
	t.Setenv("JWT_AUDIENCE", "my-aud")
}

func TestLoad_Success(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_TTL", "2m")
	t.Setenv("REFRESH_TOKEN_TTL", "72h")
	t.Setenv("OTP_TTL", "5m")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("PASSWORD_PEPPER", "pepper")
	t.Setenv("EMAIL_PROVIDER", "mailgun")
	t.Setenv("MAILGUN_DOMAIN", "mg.example.com")
	t.Setenv("MAILGUN_KEY", "key")
	t.Setenv("EMAIL_FROM", "noreply@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AccessTokenTTL != 2*time.Minute {
		t.Fatalf("AccessTokenTTL want 2m, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 72*time.Hour {
		t.Fatalf("RefreshTokenTTL want 72h, got %v", cfg.RefreshTokenTTL)
	}
	if cfg.OTPTTL != 5*time.Minute {
		t.Fatalf("OTPTTL want 5m, got %v", cfg.OTPTTL)
	}
	if cfg.EmailProvider != "mailgun" {
		t.Fatalf("EmailProvider want mailgun, got %s", cfg.EmailProvider)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OTPTTL != 5*time.Minute {
		t.Fatalf("default OTP_TTL want 5m, got %v", cfg.OTPTTL)
	}
	if cfg.OTPResendCooldown != time.Minute {
		t.Fatalf("default OTP_RESEND_COOLDOWN want 1m, got %v", cfg.OTPResendCooldown)
	}
	if cfg.HTTPAddress != ":8080" {
		t.Fatalf("default HTTP_ADDRESS want :8080, got %s", cfg.HTTPAddress)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	// задаём всё, КРОМЕ JWT_SECRET
	t.Setenv("DATABASE_URL", "db")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_ISSUER", "my-svc")
	t.Setenv("JWT_AUDIENCE", "my-aud")

	if _, err := Load(); err == nil {
		t.Fatal("expected error due to missing JWT_SECRET, got nil")
	}
}
