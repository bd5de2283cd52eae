package credentials

import "fmt"

// Source indicates where a token was found
type Source string

const (
	SourceKeyring Source = "keyring"
	SourceEnv     Source = "env"
	SourceNone    Source = "none"
)

// Token represents a resolved gateway token
type Token struct {
	Value  string
	Source Source
}

// Resolve attempts to find a token for the gateway using the priority
// order keyring > environment variables. An empty token with SourceNone is
// not an error: anonymous gateways are legitimate.
func Resolve(gatewayName string) (*Token, error) {
	if gatewayName == "" {
		return nil, fmt.Errorf("gateway name is required for token resolution")
	}

	if IsAvailable() {
		if value, err := Get(gatewayName); err == nil && value != "" {
			return &Token{Value: value, Source: SourceKeyring}, nil
		}
	}

	if value := GetToken(gatewayName); value != "" {
		return &Token{Value: value, Source: SourceEnv}, nil
	}

	return &Token{Source: SourceNone}, nil
}
