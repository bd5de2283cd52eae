package credentials

import (
	"os"
	"strings"
)

// normalizeGatewayName converts a gateway name to the format used in
// environment variables. Example: "example-staging" becomes
// "EXAMPLE_STAGING".
func normalizeGatewayName(gatewayName string) string {
	normalized := strings.ToUpper(gatewayName)
	normalized = strings.ReplaceAll(normalized, "-", "_")
	return normalized
}

// getEnvVarName returns the environment variable name for a gateway field
func getEnvVarName(gatewayName, field string) string {
	return "NEXUSSYNC_" + normalizeGatewayName(gatewayName) + "_" + strings.ToUpper(field)
}

// GetToken retrieves the token from environment variables.
// Looks for: NEXUSSYNC_{GATEWAY_NAME}_TOKEN
func GetToken(gatewayName string) string {
	if gatewayName == "" {
		return ""
	}
	return os.Getenv(getEnvVarName(gatewayName, "TOKEN"))
}

// GetURL retrieves a gateway URL override from environment variables.
// Looks for: NEXUSSYNC_{GATEWAY_NAME}_URL
func GetURL(gatewayName string) string {
	if gatewayName == "" {
		return ""
	}
	return os.Getenv(getEnvVarName(gatewayName, "URL"))
}

// HasToken checks if a token exists in environment variables
func HasToken(gatewayName string) bool {
	return GetToken(gatewayName) != ""
}
