package server

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
)

const (
	csrfFormField = "csrf_token"
	csrfHeader    = "X-CSRF-Token"
	csrfKeyBytes  = 32
)

// csrfSigner derives each session's form token from its session id, so a
// token copied from one session is useless in another. The key lives only
// for the process, as do the sessions it protects.
type csrfSigner struct {
	key []byte
}

func newCSRFSigner() *csrfSigner {
	key := make([]byte, csrfKeyBytes)
	if _, err := rand.Read(key); err != nil {
		panic("csrf: failed to generate key: " + err.Error())
	}
	return &csrfSigner{key: key}
}

// Token returns the form token for sessionID.
func (s *csrfSigner) Token(sessionID string) string {
	return hex.EncodeToString(s.mac(sessionID))
}

// Verify reports whether the post carries sessionID's token, in the
// X-CSRF-Token header or the csrf_token field. The form must already be
// parsed for multipart requests.
func (s *csrfSigner) Verify(r *http.Request, sessionID string) bool {
	token := r.Header.Get(csrfHeader)
	if token == "" {
		token = r.FormValue(csrfFormField)
	}
	got, err := hex.DecodeString(token)
	if err != nil || len(got) == 0 {
		return false
	}
	return hmac.Equal(got, s.mac(sessionID))
}

func (s *csrfSigner) mac(sessionID string) []byte {
	m := hmac.New(sha256.New, s.key)
	m.Write([]byte(sessionID))
	return m.Sum(nil)
}
