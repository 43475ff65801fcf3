package jwt

import (
	"Fridge-Keeper/domain"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const ScopeSendNotifications = "notifications:send"

type (
	// JWTService issues and checks the bearer tokens an external scheduler
	// presents to trigger the batch expiry scan.
	JWTService interface {
		Enabled() bool
		GenerateTriggerToken(subject string, duration time.Duration) (string, error)
		ValidateTriggerToken(token string) (string, error)
	}

	jwtTriggerClaim struct {
		Scope string `json:"scope"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		clock     func() time.Time
	}
)

// NewJWTService with an empty secret disables trigger authentication.
func NewJWTService(secretKey string) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    "FRIDGE-KEEPER",
		clock:     time.Now,
	}
}

func (j *jwtService) Enabled() bool {
	return j.secretKey != ""
}

func (j *jwtService) GenerateTriggerToken(subject string, duration time.Duration) (string, error) {
	if !j.Enabled() {
		return "", domain.ErrTriggerUnauthorized
	}

	now := j.clock()
	claims := jwtTriggerClaim{
		ScopeSendNotifications,
		jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

// ValidateTriggerToken returns the token subject.
func (j *jwtService) ValidateTriggerToken(token string) (string, error) {
	if token == "" {
		return "", domain.ErrTokenNotFound
	}

	t_Token, err := jwt.ParseWithClaims(token, &jwtTriggerClaim{}, j.parseToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return "", domain.ErrTokenInvalid
	}

	claims := t_Token.Claims.(*jwtTriggerClaim)
	if claims.Scope != ScopeSendNotifications || claims.Issuer != j.issuer {
		return "", domain.ErrTokenInvalid
	}
	return claims.Subject, nil
}
