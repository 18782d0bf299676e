package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/kaira_store/internal/config"
	"github.com/GTDGit/kaira_store/internal/utils"
)

const tokenIssuer = "kaira_store"

// AdminGate checks the single admin credential pair and issues and verifies
// the signed token kept in the admin's session.
type AdminGate struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewAdminGate hashes the configured password once and returns a gate that
// signs session tokens with secret.
func NewAdminGate(admin *config.AdminConfig, session *config.SessionConfig) (*AdminGate, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &AdminGate{
		username:     admin.Username,
		passwordHash: hash,
		secret:       []byte(session.Secret),
		ttl:          session.TTL,
		now:          time.Now,
	}, nil
}

// Authenticate returns a fresh session token when username and password
// match the configured credentials, else utils.ErrInvalidCredentials.
func (g *AdminGate) Authenticate(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		log.Warn().Str("username", username).Msg("Admin login failed")
		return "", utils.ErrInvalidCredentials
	}

	now := g.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   g.username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
	})
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}

	log.Info().Str("username", username).Msg("Admin login successful")
	return signed, nil
}

// Verify returns the admin name carried by token, or utils.ErrUnauthorized
// when the token is missing, forged, expired or issued for another user.
func (g *AdminGate) Verify(token string) (string, error) {
	if token == "" {
		return "", utils.ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug().Err(err).Msg("rejected admin token")
		}
		return "", utils.ErrUnauthorized
	}
	if claims.Subject != g.username {
		return "", utils.ErrUnauthorized
	}
	return claims.Subject, nil
}
