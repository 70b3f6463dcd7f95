package auth

import "net/http"

// Credential attaches authentication material to an outgoing request.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Apply must not mutate the request on failure.
type Credential interface {
	// Apply sets the credential on the request.
	Apply(req *http.Request) error
}

// APIKey sends a static key in a configurable header.
type APIKey struct {
	// Key is the API key value.
	Key string

	// Header is the header name. Default: X-API-Key
	Header string
}

// Apply sets the API key header.
func (c *APIKey) Apply(req *http.Request) error {
	if c.Key == "" {
		return ErrMissingKey
	}
	header := c.Header
	if header == "" {
		header = "X-API-Key"
	}
	req.Header.Set(header, c.Key)
	return nil
}

// Bearer sends a static token as an Authorization bearer header.
type Bearer struct {
	// Token is the bearer token value.
	Token string
}

// Apply sets the Authorization header.
func (c *Bearer) Apply(req *http.Request) error {
	if c.Token == "" {
		return ErrMissingToken
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	return nil
}

// Ensure implementations satisfy Credential
var (
	_ Credential = (*APIKey)(nil)
	_ Credential = (*Bearer)(nil)
)
