package user

// LegacyUser represents a user record returned by the legacy user store.
type LegacyUser struct {
	Username        string              `json:"username,omitempty"`
	Email           string              `json:"email,omitempty"`
	FirstName       string              `json:"firstName,omitempty"`
	LastName        string              `json:"lastName,omitempty"`
	Enabled         bool                `json:"enabled,omitempty"`
	EmailVerified   bool                `json:"emailVerified,omitempty"`
	Roles           []string            `json:"roles,omitempty"`
	Groups          []string            `json:"groups,omitempty"`
	RequiredActions []string            `json:"requiredActions,omitempty"`
	Attributes      map[string][]string `json:"attributes,omitempty"`
}

// Password is the credential payload sent for password validation.
type Password struct {
	Password string `json:"password"`
}

type ValidatePasswordResult struct {
	Valid bool `json:"valid"`
}
