package user

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/maximthomas/legacybridge/pkg/auth"
	"github.com/maximthomas/legacybridge/pkg/log"
	"github.com/maximthomas/legacybridge/pkg/rest"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config describes the legacy user store connection.
type Config struct {
	URI        string            `yaml:"uri"`
	Properties map[string]string `yaml:"properties,omitempty"`
}

// ProviderError is the single failure kind surfaced by the gateway.
// Transport, decode and serialization failures all wrap into it; the
// original failure stays reachable through Cause/Unwrap.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("legacy user provider: %v", e.Err)
}

func (e *ProviderError) Cause() error  { return e.Err }
func (e *ProviderError) Unwrap() error { return e.Err }

// Service resolves users against the legacy REST user store.
type Service struct {
	uri        string
	client     *rest.Client
	strategies *auth.Provider
	logger     logrus.FieldLogger
}

func NewService(uri string, client *rest.Client, strategies *auth.Provider) Service {
	return Service{
		uri:        uri,
		client:     client,
		strategies: strategies,
		logger:     log.WithField("module", "user"),
	}
}

// FindByUsername looks up a user and accepts the result only if the
// returned username matches the requested one, ignoring case. A fuzzy
// backend that resolves a partial match must never authenticate the
// wrong principal.
func (s Service) FindByUsername(username string) (LegacyUser, bool, error) {
	u, found, err := s.findLegacyUser(username)
	if err != nil || !found {
		return LegacyUser{}, false, err
	}
	if !equalsCaseInsensitive(username, u.Username) {
		s.logger.Debugf("legacy user store returned mismatched username for %q", username)
		return LegacyUser{}, false, nil
	}
	return u, true, nil
}

// FindByEmail is FindByUsername with the identity gate applied to the
// email field.
func (s Service) FindByEmail(email string) (LegacyUser, bool, error) {
	u, found, err := s.findLegacyUser(email)
	if err != nil || !found {
		return LegacyUser{}, false, err
	}
	if !equalsCaseInsensitive(email, u.Email) {
		s.logger.Debugf("legacy user store returned mismatched email for %q", email)
		return LegacyUser{}, false, nil
	}
	return u, true, nil
}

// IsPasswordValid posts the credential to the legacy store. Only a 200
// means the password was accepted; any other status is a plain negative
// result, never an error.
func (s Service) IsPasswordValid(username, password string) (bool, error) {
	uri := fmt.Sprintf("%s/%s", s.uri, username)
	body, err := json.Marshal(Password{Password: password})
	if err != nil {
		return false, &ProviderError{Err: errors.Wrap(err, "error serializing credentials")}
	}
	resp, err := s.client.Post(uri, string(body), s.strategies.Strategy(username))
	if err != nil {
		return false, &ProviderError{Err: err}
	}
	return resp.Code == http.StatusOK, nil
}

// findLegacyUser fetches {uri}/{identifier}. The identifier is inserted
// into the path verbatim, without percent-encoding, preserving the
// legacy API contract. A non-200 response means "no such user".
func (s Service) findLegacyUser(identifier string) (u LegacyUser, found bool, err error) {
	uri := fmt.Sprintf("%s/%s", s.uri, identifier)
	resp, err := s.client.Get(uri, s.strategies.Strategy(identifier))
	if err != nil {
		return u, false, &ProviderError{Err: err}
	}
	if resp.Code != http.StatusOK {
		return u, false, nil
	}
	if jsonErr := json.Unmarshal([]byte(resp.Body), &u); jsonErr != nil {
		s.logger.Debugf("error decoding legacy user store response: %v", jsonErr)
		return u, false, &ProviderError{Err: errors.Wrap(jsonErr, "error decoding user")}
	}
	return u, true, nil
}

// equalsCaseInsensitive upper-cases both values with a locale invariant
// rule. An absent value on either side never matches.
func equalsCaseInsensitive(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.ToUpper(a) == strings.ToUpper(b)
}
