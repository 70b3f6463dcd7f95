// Package auth provides outbound credentials for provider requests.
//
// A Credential attaches authentication material to an outgoing HTTP
// request. Hosted providers use API keys or static bearer tokens;
// self-hosted gateways fronted by JWT auth use short-lived minted
// tokens.
package auth
