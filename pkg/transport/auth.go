package transport

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// defaultIterations is used when the hub omits the PBKDF2 iteration count.
const defaultIterations = 10000

// tokenKeyLen is the PBKDF2 output length in bytes.
const tokenKeyLen = 32

// authChallenge is the hub's reply to "getkey".
type authChallenge struct {
	// Salt is the hex-encoded per-user PBKDF2 salt.
	Salt string `json:"salt"`

	// Challenge is the hex-encoded per-connection nonce.
	Challenge string `json:"challenge"`

	// Iterations is the PBKDF2 iteration count, 0 for the default.
	Iterations int `json:"iterations,omitempty"`
}

// deriveToken computes the authentication token: HMAC-SHA256 of
// "<user>:<challenge>" keyed with the PBKDF2-stretched password. The hub
// performs the same computation against its stored credential.
func deriveToken(user, password string, ch authChallenge) (string, error) {
	salt, err := hex.DecodeString(ch.Salt)
	if err != nil {
		return "", fmt.Errorf("invalid auth salt: %w", err)
	}
	challenge, err := hex.DecodeString(ch.Challenge)
	if err != nil {
		return "", fmt.Errorf("invalid auth challenge: %w", err)
	}

	iterations := ch.Iterations
	if iterations <= 0 {
		iterations = defaultIterations
	}

	secret := pbkdf2.Key([]byte(password), salt, iterations, tokenKeyLen, sha256.New)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(user))
	mac.Write([]byte{':'})
	mac.Write(challenge)

	return hex.EncodeToString(mac.Sum(nil)), nil
}
