package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "SHEET_BACKEND", "ACCESS_TTL", "RATE_LIMIT_PER_MIN", "ALLOWED_ORIGINS", "SCHOOL_TIMEZONE"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.HTTPPort != "8081" || cfg.SheetBackend != "google" || cfg.AccessTTL != 15*time.Minute || cfg.RateLimitPerMin != 120 {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.SchoolTimezone != "Asia/Jakarta" {
		t.Errorf("SchoolTimezone = %q", cfg.SchoolTimezone)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SHEET_BACKEND", "memory")
	t.Setenv("ACCESS_TTL", "1h")
	t.Setenv("REFRESH_TTL", "soon")
	t.Setenv("RATE_LIMIT_PER_MIN", "30")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	if cfg.SheetBackend != "memory" || cfg.AccessTTL != time.Hour || cfg.RateLimitPerMin != 30 {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.RefreshTTL != 24*time.Hour {
		t.Errorf("RefreshTTL = %s, want fallback on a bad duration", cfg.RefreshTTL)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		zone string
		want string
	}{
		{zone: "UTC", want: "UTC"},
		{zone: "Not/AZone", want: "UTC"},
	}
	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			if got := (App{SchoolTimezone: tt.zone}).Location().String(); got != tt.want {
				t.Errorf("Location() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCloudinaryEnabled(t *testing.T) {
	if (App{CloudinaryCloudName: "demo"}).CloudinaryEnabled() {
		t.Error("CloudinaryEnabled() without key and secret")
	}
	if !(App{CloudinaryCloudName: "demo", CloudinaryAPIKey: "k", CloudinaryAPISecret: "s"}).CloudinaryEnabled() {
		t.Error("CloudinaryEnabled() = false with full credentials")
	}
}

func TestSigningKeyInProduction(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		key     string
		wantKey string
		wantErr bool
	}{
		{name: "dev default", env: "dev", wantKey: DevSigningKey},
		{name: "production unset", env: "production", wantKey: "", wantErr: true},
		{name: "production dev key", env: "prod", key: DevSigningKey, wantKey: DevSigningKey, wantErr: true},
		{name: "production real key", env: "production", key: "s3cr3t-from-vault", wantKey: "s3cr3t-from-vault"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.env)
			t.Setenv("JWT_SIGNING_KEY", tt.key)
			cfg := Load()
			if cfg.JWTSigningKey != tt.wantKey {
				t.Errorf("JWTSigningKey = %q, want %q", cfg.JWTSigningKey, tt.wantKey)
			}
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
