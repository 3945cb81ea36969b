package proxy

import "strings"

// Injector attaches a credential to an upstream request. The style is
// fixed per integration.
type Injector interface {
	Inject(req *UpstreamRequest, cred Credential)
}

// BearerToken sets "Authorization: Bearer <token>".
type BearerToken struct{}

func (BearerToken) Inject(req *UpstreamRequest, cred Credential) {
	req.Header.Set("Authorization", "Bearer "+cred.Reveal())
}

// HeaderKey sets a dedicated API-key header.
type HeaderKey struct {
	Name string
}

func (h HeaderKey) Inject(req *UpstreamRequest, cred Credential) {
	req.Header.Set(h.Name, cred.Reveal())
}

// QueryKey adds the credential as a URL query parameter.
type QueryKey struct {
	Name string
}

func (q QueryKey) Inject(req *UpstreamRequest, cred Credential) {
	values := req.URL.Query()
	values.Set(q.Name, cred.Reveal())
	req.URL.RawQuery = values.Encode()
}

// RequireSecrets resolves a credential and fails closed when it, or any of
// the accompanying identifiers, is blank.
func RequireSecrets(message string, secret string, identifiers ...string) (Credential, error) {
	if strings.TrimSpace(secret) == "" {
		return "", ConfigurationError(message)
	}
	for _, id := range identifiers {
		if strings.TrimSpace(id) == "" {
			return "", ConfigurationError(message)
		}
	}
	return Credential(secret), nil
}
