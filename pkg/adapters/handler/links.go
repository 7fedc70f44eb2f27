package handler

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const linkTTL = 90 * 24 * time.Hour

// ErrLinksDisabled is returned when no signing secret is configured
var ErrLinksDisabled = errors.New("share links are disabled")

// LinkClaims identifies the influencer and network a share link belongs to
type LinkClaims struct {
	Network string `json:"net"`
	jwt.RegisteredClaims
}

// LinkSigner issues and verifies HS256 share-link tokens
type LinkSigner struct {
	secret []byte
	now    func() time.Time
}

func NewLinkSigner(secret string) *LinkSigner {
	return &LinkSigner{secret: []byte(secret), now: time.Now}
}

// Enabled reports whether a signing secret is configured
func (s *LinkSigner) Enabled() bool {
	return len(s.secret) > 0
}

func (s *LinkSigner) Sign(influencerID, network string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrLinksDisabled
	}
	expires := s.now().Add(linkTTL)
	claims := &LinkClaims{
		Network: network,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   influencerID,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// Verify returns the influencer id and network carried by a valid token
func (s *LinkSigner) Verify(token string) (string, string, error) {
	if !s.Enabled() {
		return "", "", ErrLinksDisabled
	}
	claims := &LinkClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", "", err
	}
	if !parsed.Valid || claims.Subject == "" || claims.Network == "" {
		return "", "", errors.New("incomplete link token")
	}
	return claims.Subject, claims.Network, nil
}
