package credentials

import "testing"

// TestNormalizeGatewayName tests env variable name derivation
func TestNormalizeGatewayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example", "EXAMPLE"},
		{"example-staging", "EXAMPLE_STAGING"},
		{"Already_Upper", "ALREADY_UPPER"},
	}

	for _, tt := range tests {
		if got := normalizeGatewayName(tt.in); got != tt.want {
			t.Errorf("normalizeGatewayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestGetEnvVarName tests full variable names
func TestGetEnvVarName(t *testing.T) {
	if got := getEnvVarName("example-staging", "TOKEN"); got != "NEXUSSYNC_EXAMPLE_STAGING_TOKEN" {
		t.Errorf("getEnvVarName = %q", got)
	}
}

// TestGetToken tests token lookup from the environment
func TestGetToken(t *testing.T) {
	t.Setenv("NEXUSSYNC_EXAMPLE_TOKEN", "secret")

	if got := GetToken("example"); got != "secret" {
		t.Errorf("GetToken = %q, want secret", got)
	}
	if got := GetToken("other"); got != "" {
		t.Errorf("Expected no token for an unrelated gateway, got %q", got)
	}
	if got := GetToken(""); got != "" {
		t.Errorf("Expected no token for an empty name, got %q", got)
	}
	if !HasToken("example") {
		t.Error("Expected HasToken true")
	}
	if HasToken("other") {
		t.Error("Expected HasToken false")
	}
}

// TestGetURL tests URL override lookup
func TestGetURL(t *testing.T) {
	t.Setenv("NEXUSSYNC_EXAMPLE_URL", "https://staging.example.com")

	if got := GetURL("example"); got != "https://staging.example.com" {
		t.Errorf("GetURL = %q", got)
	}
	if got := GetURL(""); got != "" {
		t.Errorf("Expected no URL for an empty name, got %q", got)
	}
}

// TestResolvePrefersEnvOverNothing tests the resolver fallback chain when
// the keyring is unavailable or empty
func TestResolvePrefersEnvOverNothing(t *testing.T) {
	t.Setenv("NEXUSSYNC_RESOLVER_TEST_TOKEN", "env-token")

	token, err := Resolve("resolver-test")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	// Keyring state is machine-dependent; env must win only when the
	// keyring has nothing for this gateway
	if token.Source == SourceEnv && token.Value != "env-token" {
		t.Errorf("Env token = %q, want env-token", token.Value)
	}
	if token.Source == SourceNone {
		t.Error("Expected the env token found")
	}
}

// TestResolveEmptyGateway tests the resolver precondition
func TestResolveEmptyGateway(t *testing.T) {
	if _, err := Resolve(""); err == nil {
		t.Error("Expected an empty gateway name to error")
	}
}

// TestResolveNoCredentials tests that an absent token is not an error
func TestResolveNoCredentials(t *testing.T) {
	token, err := Resolve("definitely-unconfigured-gateway")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if token.Source == SourceNone && token.Value != "" {
		t.Errorf("SourceNone must carry no value, got %q", token.Value)
	}
}
