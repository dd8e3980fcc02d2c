package internal

import (
	"strings"
	"testing"
)

func validAuth() AuthConfig {
	return AuthConfig{JWTSecret: "secret", TokenTTLHours: 72}
}

func TestAuthConfig_Valid(t *testing.T) {
	cfg := validAuth()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid auth config should pass: %v", err)
	}
}

func TestAuthConfig_MissingSecret(t *testing.T) {
	cfg := AuthConfig{TokenTTLHours: 72}
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing jwt_secret should fail")
	}
}

func TestAuthConfig_AdminBootstrapPair(t *testing.T) {
	cfg := validAuth()
	cfg.AdminUsername = "admin"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("admin_username without admin_password should fail")
	}
	if !strings.Contains(err.Error(), "set together") {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.AdminPassword = "123456"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("paired admin credentials should pass: %v", err)
	}
}

func TestShareConfig_TTLRequired(t *testing.T) {
	cfg := ShareConfig{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero default_ttl_days should fail")
	}
	cfg.DefaultTTLDays = 7
	if err := cfg.Validate(); err != nil {
		t.Fatalf("ttl 7 should pass: %v", err)
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	// Defaults carry no JWT secret on purpose; Validate must catch it.
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch missing jwt_secret")
	}
	cfg.Auth.JWTSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config with secret should pass: %v", err)
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := HTTPConfig{Port: port}
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d should fail validation", port)
		}
	}
	ok := HTTPConfig{Port: 8080}
	if err := ok.Validate(); err != nil {
		t.Errorf("port 8080 should pass: %v", err)
	}
}
