package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	JWTIssuer       string
	JWTAudience     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	OTPTTL            time.Duration
	OTPResendCooldown time.Duration

	PasswordPepper string

	EmailProvider string // "smtp" | "mailgun"
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	EmailFrom     string
	MailgunDomain string
	MailgunKey    string
	NotifyTimeout time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	HTTPAddress      string
	AllowedOrigins   []string
	AllowCredentials bool
}

var envKeys = []string{
	"DATABASE_URL",
	"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB",
	"JWT_SECRET", "JWT_ISSUER", "JWT_AUDIENCE",
	"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL",
	"OTP_TTL", "OTP_RESEND_COOLDOWN",
	"PASSWORD_PEPPER",
	"EMAIL_PROVIDER", "SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD",
	"EMAIL_FROM", "MAILGUN_DOMAIN", "MAILGUN_KEY", "NOTIFY_TIMEOUT",
	"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URL",
	"HTTP_ADDRESS", "ALLOWED_ORIGINS", "ALLOW_CREDENTIALS",
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	for _, key := range envKeys {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	viper.SetDefault("ACCESS_TOKEN_TTL", "15m")
	viper.SetDefault("REFRESH_TOKEN_TTL", "168h")
	viper.SetDefault("OTP_TTL", "5m")
	viper.SetDefault("OTP_RESEND_COOLDOWN", "1m")
	viper.SetDefault("NOTIFY_TIMEOUT", "10s")
	viper.SetDefault("EMAIL_PROVIDER", "smtp")
	viper.SetDefault("HTTP_ADDRESS", ":8080")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:        viper.GetString("DATABASE_URL"),
		RedisAddress:       viper.GetString("REDIS_ADDRESS"),
		RedisPassword:      viper.GetString("REDIS_PASSWORD"),
		RedisDB:            viper.GetInt("REDIS_DB"),
		JWTSecret:          viper.GetString("JWT_SECRET"),
		JWTIssuer:          viper.GetString("JWT_ISSUER"),
		JWTAudience:        viper.GetString("JWT_AUDIENCE"),
		AccessTokenTTL:     viper.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:    viper.GetDuration("REFRESH_TOKEN_TTL"),
		OTPTTL:             viper.GetDuration("OTP_TTL"),
		OTPResendCooldown:  viper.GetDuration("OTP_RESEND_COOLDOWN"),
		PasswordPepper:     viper.GetString("PASSWORD_PEPPER"),
		EmailProvider:      viper.GetString("EMAIL_PROVIDER"),
		SMTPHost:           viper.GetString("SMTP_HOST"),
		SMTPPort:           viper.GetString("SMTP_PORT"),
		SMTPUsername:       viper.GetString("SMTP_USERNAME"),
		SMTPPassword:       viper.GetString("SMTP_PASSWORD"),
		EmailFrom:          viper.GetString("EMAIL_FROM"),
		MailgunDomain:      viper.GetString("MAILGUN_DOMAIN"),
		MailgunKey:         viper.GetString("MAILGUN_KEY"),
		NotifyTimeout:      viper.GetDuration("NOTIFY_TIMEOUT"),
		GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		HTTPAddress:        viper.GetString("HTTP_ADDRESS"),
		AllowedOrigins:     viper.GetStringSlice("ALLOWED_ORIGINS"),
		AllowCredentials:   viper.GetBool("ALLOW_CREDENTIALS"),
	}

	for name, val := range map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"JWT_SECRET":   cfg.JWTSecret,
		"JWT_ISSUER":   cfg.JWTIssuer,
		"JWT_AUDIENCE": cfg.JWTAudience,
	} {
		if val == "" {
			return nil, fmt.Errorf("%s is required", name)
		}
	}

	return cfg, nil
}
