package user

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// normalizeEmail lower-cases and trims an address so lookups and unique
// constraints behave case-insensitively.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword uses bcrypt to generate a hash from a plaintext password.
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// checkPasswordHash compares a plaintext password with a bcrypt hash.
func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// generateJWT creates a new access token for a given user ID. The session ID
// is embedded as the "sid" claim so the session record can be revoked later.
func generateJWT(secret, userID, sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"sid": sessionID,
		"exp": time.Now().Add(time.Hour * 72).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// generateNumericCode returns a random code of the given number of digits,
// e.g. "042319" for length 6. Leading zeros are kept.
func generateNumericCode(length int) (string, error) {
	const digits = "0123456789"
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		b.WriteByte(digits[n.Int64()])
	}
	return b.String(), nil
}

// generateSecureToken creates a random, URL-safe string of a given byte length.
func generateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// encodeUID encodes a user's primary key for embedding in activation and
// reset URLs, unpadded base64url like the links our frontend already handles.
func encodeUID(userID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID))
}

// decodeUID reverses encodeUID. Any malformed input yields an error; callers
// are expected to fail closed rather than surface decoding details.
func decodeUID(uidB64 string) (string, error) {
	if uidB64 == "" {
		return "", errors.New("empty uid")
	}
	raw, err := base64.RawURLEncoding.DecodeString(uidB64)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
