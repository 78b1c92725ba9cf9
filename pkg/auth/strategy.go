package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	authorizationHeader = "Authorization"
	bearerFormat        = "Bearer %s"
	basicFormat         = "Basic %s"
)

// Strategy attaches authentication material to an outgoing request.
// Implementations are immutable and safe for concurrent use.
type Strategy interface {
	Configure(req *http.Request)
}

type noneStrategy struct{}

func (noneStrategy) Configure(*http.Request) {}

// None returns a strategy that leaves the request unmodified.
func None() Strategy {
	return noneStrategy{}
}

type basicStrategy struct {
	header string
}

// Basic returns an HTTP basic auth strategy. If either credential is
// blank the strategy degrades to None, so a partial configuration never
// produces a broken Authorization header.
func Basic(username, password string) Strategy {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return noneStrategy{}
	}
	raw := fmt.Sprintf("%s:%s", username, password)
	enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	latin1, err := enc.String(raw)
	if err != nil {
		latin1 = raw
	}
	token := base64.StdEncoding.EncodeToString([]byte(latin1))
	return basicStrategy{header: fmt.Sprintf(basicFormat, token)}
}

func (s basicStrategy) Configure(req *http.Request) {
	req.Header.Set(authorizationHeader, s.header)
}

type bearerTokenStrategy struct {
	header string
}

// BearerToken returns a static bearer token strategy, degrading to None
// on a blank token.
func BearerToken(token string) Strategy {
	if strings.TrimSpace(token) == "" {
		return noneStrategy{}
	}
	return bearerTokenStrategy{header: fmt.Sprintf(bearerFormat, token)}
}

func (s bearerTokenStrategy) Configure(req *http.Request) {
	req.Header.Set(authorizationHeader, s.header)
}

type signedTokenStrategy struct {
	key     *rsa.PrivateKey
	subject string
}

// SignedToken returns a strategy that signs a fresh RS256 assertion on
// every call. The subject claim is bound at construction; if empty, the
// request URL is used instead.
func SignedToken(key *rsa.PrivateKey, subject string) Strategy {
	return signedTokenStrategy{key: key, subject: subject}
}

func (s signedTokenStrategy) Configure(req *http.Request) {
	subject := s.subject
	if subject == "" {
		subject = req.URL.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString(s.key)
	if err != nil {
		return
	}
	req.Header.Set(authorizationHeader, fmt.Sprintf(bearerFormat, signed))
}
