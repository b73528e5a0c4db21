package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// PurposePasswordReset marks a token as usable only to redeem a password
// reset. Tokens without a purpose claim are regular access tokens.
const PurposePasswordReset = "password_reset"

// BearerScheme is the auth scheme prefix clients send in the
// Authorization header.
const BearerScheme = "Bearer"

const (
	defaultAccessTTL = 24 * time.Hour
	defaultResetTTL  = time.Hour
)

// Claims are the signed claims carried by every token the service issues.
type Claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// TokenService issues and verifies signed bearer tokens. It is stateless;
// expiry and identity live inside the token itself.
type TokenService struct {
	signingKey []byte
	issuer     string
	audience   jwt.ClaimStrings
	accessTTL  time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

// NewTokenService creates a TokenService signing with the given process-wide
// secret and stamping the given issuer and audience on every token.
func NewTokenService(signingKey []byte, issuer string, audience []string) *TokenService {
	return &TokenService{
		signingKey: signingKey,
		issuer:     issuer,
		audience:   jwt.ClaimStrings(audience),
		accessTTL:  defaultAccessTTL,
		resetTTL:   defaultResetTTL,
		now:        time.Now,
	}
}

// WithClock overrides the time source, used by tests to move tokens past
// their expiry.
func (ts *TokenService) WithClock(now func() time.Time) *TokenService {
	ts.now = now
	return ts
}

// IssueAccessToken produces a signed login token for the given user.
func (ts *TokenService) IssueAccessToken(userID, email string) (string, error) {
	return ts.sign(userID, email, "", ts.accessTTL)
}

// IssueResetToken produces a short-lived single-purpose token authorizing a
// password reset for the given user.
func (ts *TokenService) IssueResetToken(userID, email string) (string, error) {
	return ts.sign(userID, email, PurposePasswordReset, ts.resetTTL)
}

func (ts *TokenService) sign(userID, email, purpose string, ttl time.Duration) (string, error) {
	now := ts.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   userID,
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:   email,
		Purpose: purpose,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Verify validates signature, issuer, audience, and expiry of a token and
// returns its claims. An optional "Bearer " prefix is stripped before
// verification. When expectedPurpose is non-empty the purpose claim must
// match it exactly; access tokens carry no purpose.
func (ts *TokenService) Verify(tokenString, expectedPurpose string) (*Claims, error) {
	tokenString = StripBearer(tokenString)

	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.now),
		jwt.WithIssuedAt(),
	}
	if ts.issuer != "" {
		opts = append(opts, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		opts = append(opts, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, opts...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Purpose != expectedPurpose {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// StripBearer removes a leading "Bearer " scheme from a credential if
// present. Tokens arriving without the prefix pass through unchanged.
func StripBearer(token string) string {
	if len(token) > len(BearerScheme) && strings.EqualFold(token[:len(BearerScheme)], BearerScheme) {
		return strings.TrimSpace(token[len(BearerScheme):])
	}
	return token
}
