package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// CSRFGenerator generates and validates CSRF tokens using HMAC-SHA256.
// Tokens are derived from the device id and a secret key, so no token state
// is kept on the server.
type CSRFGenerator struct {
	secret []byte
}

// NewCSRFGenerator creates a new stateless HMAC-based CSRF generator.
func NewCSRFGenerator(secret string) *CSRFGenerator {
	return &CSRFGenerator{secret: []byte("csrf:" + secret)}
}

// GenerateToken returns the CSRF token for a device.
func (g *CSRFGenerator) GenerateToken(deviceID string) (string, error) {
	if deviceID == "" {
		return "", fmt.Errorf("device ID is required")
	}
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(deviceID))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// ValidateToken reports whether token is the valid CSRF token for deviceID.
func (g *CSRFGenerator) ValidateToken(deviceID, token string) bool {
	if deviceID == "" || token == "" {
		return false
	}
	expected, err := g.GenerateToken(deviceID)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(token))
}
