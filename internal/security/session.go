package security

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DeviceCookieName is the cookie identifying a browser device.
const DeviceCookieName = "brinle_device"

const deviceIssuer = "brinleneuro"

var ErrInvalidDevice = errors.New("invalid device token")

// DeviceTokens issues and verifies the signed device cookie. The token is an
// HS256 JWT whose subject is the device UUID.
type DeviceTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewDeviceTokens(secret string, ttl time.Duration) *DeviceTokens {
	return &DeviceTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a new device id and its token.
func (d *DeviceTokens) Issue() (deviceID, token string, err error) {
	deviceID = uuid.NewString()
	token, err = d.Sign(deviceID)
	return deviceID, token, err
}

// Sign creates a token for an existing device id.
func (d *DeviceTokens) Sign(deviceID string) (string, error) {
	now := d.now()
	claims := jwt.RegisteredClaims{
		Issuer:    deviceIssuer,
		Subject:   deviceID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(d.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.secret)
}

// Parse verifies token and returns its device id.
func (d *DeviceTokens) Parse(token string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(deviceIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(d.now),
	)
	claims := &jwt.RegisteredClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return d.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidDevice
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", ErrInvalidDevice
	}
	return id.String(), nil
}

// Expiry is when a token signed now stops being valid.
func (d *DeviceTokens) Expiry() time.Time {
	return d.now().Add(d.ttl)
}

// IsSecureRequest determines if the request is over HTTPS
// Checks TLS connection, X-Forwarded-Proto header (for reverse proxies), and URL scheme
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	return r.URL.Scheme == "https"
}

// CreateSessionCookie creates a cookie with proper security flags
// The Secure flag is automatically set based on the request scheme (HTTPS detection)
func CreateSessionCookie(r *http.Request, name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}
