package payme

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

// ExpectedLogin is the fixed identity the provider authenticates as.
const ExpectedLogin = "Paycom"

var errUnauthorized = errors.New("unauthorized")

// Authenticator validates the Basic credentials the provider sends on every
// webhook call. It runs before any method dispatch; nothing mutates state
// behind a failed gate.
type Authenticator struct {
	login []byte
	key   []byte
}

func NewAuthenticator(key string) *Authenticator {
	return &Authenticator{login: []byte(ExpectedLogin), key: []byte(key)}
}

// Authenticate checks the Authorization header. An absent or malformed header
// and a credential mismatch are both rejections; the comparison is
// constant-time on both halves.
func (a *Authenticator) Authenticate(r *http.Request) error {
	login, key, ok := r.BasicAuth()
	if !ok {
		return errUnauthorized
	}
	loginOK := subtle.ConstantTimeCompare([]byte(login), a.login)
	keyOK := subtle.ConstantTimeCompare([]byte(key), a.key)
	if loginOK&keyOK != 1 {
		return errUnauthorized
	}
	return nil
}
