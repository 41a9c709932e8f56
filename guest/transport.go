package guest

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/authcore/pkg/session"
)

const sessionHeaderName = "X-Guest-Session"

// HeaderTransport implements session.Transport for the
// "X-Guest-Session: <id>:<token>" header of §4.F. Unlike
// session.HeaderTransport it carries no Bearer-style prefix: the token
// value it transports is the combined "<id>:<token>" string, split by
// splitSessionHeader before use.
type HeaderTransport struct{}

var _ session.Transport = (*HeaderTransport)(nil)

// NewHeaderTransport creates a new guest session header transport.
func NewHeaderTransport() *HeaderTransport {
	return &HeaderTransport{}
}

// GetToken returns the raw "<id>:<token>" header value, unparsed.
func (t *HeaderTransport) GetToken(r *http.Request) (string, error) {
	value := r.Header.Get(sessionHeaderName)
	if value == "" {
		return "", ErrSessionNotFound
	}
	return value, nil
}

// SetToken writes the combined session identifier back to the caller.
func (t *HeaderTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	w.Header().Set(sessionHeaderName, token)
	if ttl > 0 {
		w.Header().Set(sessionHeaderName+"-Expires", time.Now().Add(ttl).Format(time.RFC3339))
	}
	return nil
}

// ClearToken removes the guest session header from the response.
func (t *HeaderTransport) ClearToken(w http.ResponseWriter) error {
	w.Header().Del(sessionHeaderName)
	w.Header().Del(sessionHeaderName + "-Expires")
	return nil
}

// splitSessionHeader parses the "<id>:<token>" wire format. Both halves
// are opaque server-generated strings; only the separator has meaning.
func splitSessionHeader(value string) (id, token string, err error) {
	idPart, tokenPart, found := strings.Cut(value, ":")
	if !found || idPart == "" || tokenPart == "" {
		return "", "", ErrMalformedSessionHeader
	}
	return idPart, tokenPart, nil
}
