package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/okovalenko/bloglist/internal/common/clock"
	"github.com/okovalenko/bloglist/internal/observability/metrics"
)

var ErrInvalidToken = errors.New("token is not valid")

const bearerPrefix = "Bearer "

// Claims is the full claim set of an issued token. Authorization decisions
// use only the subject; the username rides along for logging.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"usr,omitempty"`
}

// Subject is the outcome of extracting and verifying a bearer credential:
// either a known subject id, or nothing. Absent and invalid credentials are
// both collapsed into the zero value here; the resolver treats them
// identically by design.
type Subject struct {
	id    string
	known bool
}

func NoSubject() Subject {
	return Subject{}
}

func KnownSubject(id string) Subject {
	return Subject{id: id, known: true}
}

func (s Subject) ID() (string, bool) {
	return s.id, s.known
}

// Extract pulls the raw token out of an Authorization header value. Only a
// case-insensitive "Bearer " scheme is recognized; anything else is the
// ordinary unauthenticated state, not an error.
func Extract(rawHeaderValue string) (string, bool) {
	if len(rawHeaderValue) <= len(bearerPrefix) {
		return "", false
	}
	if !strings.EqualFold(rawHeaderValue[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	return rawHeaderValue[len(bearerPrefix):], true
}

// Verifier validates token signatures against the process-wide signing
// secret injected at construction.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify checks signature and structure and returns the embedded subject
// id. A malformed token, a bad signature and a missing subject claim all
// fail the same way.
func (v *Verifier) Verify(tokenString string) (string, error) {
	metrics.TokenVerificationsTotal.Inc()

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		metrics.TokenVerificationsFailed.Inc()
		if err == nil {
			err = ErrInvalidToken
		}
		return "", err
	}

	if claims.Subject == "" {
		metrics.TokenVerificationsFailed.Inc()
		return "", errors.New("missing subject claim")
	}

	return claims.Subject, nil
}

// VerifyHeader runs extract and verify in one step, collapsing both failure
// modes into NoSubject.
func (v *Verifier) VerifyHeader(rawHeaderValue string) Subject {
	raw, ok := Extract(rawHeaderValue)
	if !ok {
		return NoSubject()
	}

	sub, err := v.Verify(raw)
	if err != nil {
		return NoSubject()
	}

	return KnownSubject(sub)
}

// Issuer signs tokens for the login operation.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewIssuer(secret string, ttl time.Duration, clk clock.Clock) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, clock: clk}
}

func (i *Issuer) Issue(subjectID, username string) (string, error) {
	now := i.clock.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Username: username,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", err
	}

	metrics.TokensIssued.Inc()
	return signed, nil
}
