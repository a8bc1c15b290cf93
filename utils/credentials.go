package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedToken is returned when a credential token is not valid Base64.
var ErrMalformedToken = errors.New("malformed credential token")

// EncodeCredential applies the storefront's reversible credential encoding
// (standard Base64). It is not a hash: anyone holding the token can recover
// the plaintext.
func EncodeCredential(plain string) string {
	return base64.StdEncoding.EncodeToString([]byte(plain))
}

// DecodeCredential reverses EncodeCredential. Unpadded tokens are accepted.
func DecodeCredential(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(token)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
	}
	return string(raw), nil
}

// PasswordCodec turns a plaintext password into its stored form and checks
// a candidate against a stored value.
type PasswordCodec interface {
	Encode(plain string) (string, error)
	Verify(stored, plain string) (bool, error)
}

// Base64Codec stores passwords with EncodeCredential.
type Base64Codec struct{}

func (Base64Codec) Encode(plain string) (string, error) {
	return EncodeCredential(plain), nil
}

func (Base64Codec) Verify(stored, plain string) (bool, error) {
	decoded, err := DecodeCredential(stored)
	if err != nil {
		return false, err
	}
	return decoded == plain, nil
}

// BcryptCodec stores salted one-way hashes. Stored values can no longer be
// decoded back to plaintext.
type BcryptCodec struct {
	Cost int
}

func (b BcryptCodec) Encode(plain string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (BcryptCodec) Verify(stored, plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// NewPasswordCodec resolves a PASSWORD_SCHEME value.
func NewPasswordCodec(scheme string) (PasswordCodec, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", "base64":
		return Base64Codec{}, nil
	case "bcrypt":
		return BcryptCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}
