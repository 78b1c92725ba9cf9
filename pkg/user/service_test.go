package user

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/maximthomas/legacybridge/pkg/auth"
	"github.com/maximthomas/legacybridge/pkg/rest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestService(uri string, props map[string]string) Service {
	return NewService(uri, rest.NewClient(nil), auth.NewProvider(props))
}

func TestFindByUsernameCaseInsensitive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		_, _ = rw.Write([]byte(`{"username":"someUsername","email":"some@user.com","enabled":true,"roles":["admin"]}`))
	}))
	defer server.Close()

	s := newTestService(server.URL+"/users", nil)

	u, found, err := s.FindByUsername("SOMEUSERNAME")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "someUsername", u.Username)
	assert.True(t, u.Enabled)
	assert.Equal(t, []string{"admin"}, u.Roles)
}

func TestFindByUsernameMismatchedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		_, _ = rw.Write([]byte(`{"username":"someoneElse"}`))
	}))
	defer server.Close()

	s := newTestService(server.URL+"/users", nil)

	_, found, err := s.FindByUsername("alice")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestFindByEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		_, _ = rw.Write([]byte(`{"username":"alice","email":"Alice@Example.com"}`))
	}))
	defer server.Close()

	s := newTestService(server.URL+"/users", nil)

	u, found, err := s.FindByEmail("alice@example.com")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice", u.Username)
}

func TestFindByEmailAbsentEmailNeverMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		_, _ = rw.Write([]byte(`{"username":"alice"}`))
	}))
	defer server.Close()

	s := newTestService(server.URL+"/users", nil)

	_, found, err := s.FindByEmail("alice@example.com")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestFindByUsernameNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := newTestService(server.URL+"/users", nil)

	_, found, err := s.FindByUsername("missing")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestFindByUsernameMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		_, _ = rw.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	s := newTestService(server.URL+"/users", nil)

	_, _, err := s.FindByUsername("alice")
	assert.Error(t, err)
	var provErr *ProviderError
	assert.True(t, errors.As(err, &provErr))
	assert.Error(t, provErr.Cause())
}

func TestFindByUsernameTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {}))
	uri := server.URL
	server.Close()

	s := newTestService(uri+"/users", nil)

	_, _, err := s.FindByUsername("alice")
	assert.Error(t, err)
	var provErr *ProviderError
	assert.True(t, errors.As(err, &provErr))
	// transport failures keep their distinct cause internally
	var reqErr *rest.RequestError
	assert.True(t, errors.As(err, &reqErr))
}

func TestIsPasswordValid(t *testing.T) {
	var tests = []struct {
		test   string
		status int
		valid  bool
	}{
		{"accepted", http.StatusOK, true},
		{"rejected", http.StatusUnauthorized, false},
		{"unknown user", http.StatusNotFound, false},
		{"backend error", http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.test, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
				assert.Equal(t, http.MethodPost, req.Method)
				assert.Equal(t, "/users/alice", req.URL.Path)
				body, _ := io.ReadAll(req.Body)
				assert.Equal(t, `{"password":"secret"}`, string(body))
				rw.WriteHeader(tt.status)
			}))
			defer server.Close()

			s := newTestService(server.URL+"/users", nil)

			valid, err := s.IsPasswordValid("alice", "secret")
			assert.NoError(t, err)
			assert.Equal(t, tt.valid, valid)
		})
	}
}

func TestIsPasswordValidTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {}))
	uri := server.URL
	server.Close()

	s := newTestService(uri+"/users", nil)

	_, err := s.IsPasswordValid("alice", "secret")
	assert.Error(t, err)
	var provErr *ProviderError
	assert.True(t, errors.As(err, &provErr))
}

func TestFindByUsernameBearerTokenAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") != "Bearer abc" {
			rw.WriteHeader(http.StatusUnauthorized)
			return
		}
		if req.Method == http.MethodGet && req.URL.Path == "/users/alice" {
			_, _ = rw.Write([]byte(`{"username":"alice","email":"a@x.com"}`))
			return
		}
		rw.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := newTestService(server.URL+"/users", map[string]string{
		auth.PropBasicAuthEnabled: "false",
		auth.PropTokenAuthEnabled: "true",
		auth.PropToken:            "abc",
	})

	u, found, err := s.FindByUsername("alice")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice", u.Username)
}

func TestFindByUsernameSignedTokenSubject(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	assert.NoError(t, err)
	var pemBuf bytes.Buffer
	err = pem.Encode(&pemBuf, &pem.Block{Type: "PRIVATE KEY", Bytes: der})
	assert.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		header := req.Header.Get("Authorization")
		claims := jwt.MapClaims{}
		_, parseErr := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(token *jwt.Token) (interface{}, error) {
			return &key.PublicKey, nil
		})
		if parseErr != nil || claims["sub"] != "alice" {
			rw.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = rw.Write([]byte(`{"username":"alice"}`))
	}))
	defer server.Close()

	s := newTestService(server.URL+"/users", map[string]string{
		auth.PropJwtAuthEnabled: "true",
		auth.PropPrivateKeyPem:  pemBuf.String(),
	})

	_, found, err := s.FindByUsername("alice")
	assert.NoError(t, err)
	assert.True(t, found)
}

func TestInitUserService(t *testing.T) {
	err := InitUserService(Config{URI: "http://localhost:8090/users"})
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:8090/users", GetUserService().uri)

	err = InitUserService(Config{})
	assert.Error(t, err)
}
