package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const resetClaim = "reset_password"

// SignResetToken issues a time-boxed token authorizing a password reset for
// userID. There is no revocation list: the token stays valid until expiry.
func SignResetToken(secret []byte, userID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		resetClaim: userID,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyResetToken returns the user id a reset token was issued for. It fails
// closed: any decode error, including expiry or a bad signature, yields an
// error and no user id.
func VerifyResetToken(secret []byte, tokenStr string) (string, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return "", errors.New("invalid token")
	}
	mapc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	uid, _ := mapc[resetClaim].(string)
	if uid == "" {
		return "", errors.New("invalid claims")
	}
	return uid, nil
}
