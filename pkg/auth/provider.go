package auth

import (
	"crypto/rsa"
	"strconv"

	"github.com/maximthomas/legacybridge/pkg/crypt"
	"github.com/maximthomas/legacybridge/pkg/log"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

// Legacy API authentication property names.
const (
	PropBasicAuthEnabled  = "basicAuthEnabled"
	PropBasicAuthUsername = "basicAuthUsername"
	PropBasicAuthPassword = "basicAuthPassword"
	PropTokenAuthEnabled  = "tokenAuthEnabled"
	PropToken             = "token"
	PropJwtAuthEnabled    = "jwtAuthEnabled"
	PropPrivateKeyPem     = "privateKeyPem"
)

type properties struct {
	BasicAuthEnabled  string `mapstructure:"basicAuthEnabled"`
	BasicAuthUsername string `mapstructure:"basicAuthUsername"`
	BasicAuthPassword string `mapstructure:"basicAuthPassword"`
	TokenAuthEnabled  string `mapstructure:"tokenAuthEnabled"`
	Token             string `mapstructure:"token"`
	JwtAuthEnabled    string `mapstructure:"jwtAuthEnabled"`
	PrivateKeyPem     string `mapstructure:"privateKeyPem"`
}

// Provider selects the request authentication strategy once, from the
// configured properties, and hands out per-call strategy instances.
type Provider struct {
	strategy Strategy
	jwtKey   *rsa.PrivateKey
	logger   logrus.FieldLogger
}

// NewProvider builds a Provider from named string properties. The auth
// mechanisms are mutually exclusive, evaluated in a fixed order: basic,
// bearer token, signed token, none. A signing key that fails to parse
// degrades to the None strategy instead of failing construction.
func NewProvider(props map[string]string) *Provider {
	p := &Provider{
		strategy: None(),
		logger:   log.WithField("module", "auth"),
	}

	var ap properties
	if err := mapstructure.Decode(props, &ap); err != nil {
		p.logger.Warnf("error decoding legacy api auth properties: %v", err)
		return p
	}

	if parseBool(ap.BasicAuthEnabled) {
		p.strategy = Basic(ap.BasicAuthUsername, ap.BasicAuthPassword)
		return p
	}
	if parseBool(ap.TokenAuthEnabled) {
		p.strategy = BearerToken(ap.Token)
		return p
	}
	if parseBool(ap.JwtAuthEnabled) {
		key, err := crypt.ParsePrivateKey(ap.PrivateKeyPem)
		if err != nil {
			p.logger.Warnf("error parsing legacy api signing key, requests will be sent unauthenticated: %v", err)
			return p
		}
		p.jwtKey = key
	}
	return p
}

// Strategy returns the strategy for a single outbound call. For signed
// token auth a fresh immutable strategy is built with the subject bound
// to this call, so concurrent lookups never share mutable state.
func (p *Provider) Strategy(subject string) Strategy {
	if p.jwtKey != nil {
		return SignedToken(p.jwtKey, subject)
	}
	return p.strategy
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
