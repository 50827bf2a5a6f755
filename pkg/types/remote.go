package types

import (
	"errors"
	"net/url"
)

// RemoteConfig validation errors.
var (
	ErrEndpointEmpty    = errors.New("sync endpoint must not be empty")
	ErrEndpointInvalid  = errors.New("sync endpoint is not a valid http(s) URL")
	ErrDocumentIDEmpty  = errors.New("sync document id must not be empty")
	ErrRemoteConfigNone = errors.New("no remote configuration stored")
)

// RemoteConfig describes the cloud mirror: the document-store endpoint, the
// fixed identifier of the single document holding the aggregate, and the
// API key sent with every request.
type RemoteConfig struct {
	Endpoint   string `json:"endpoint"`
	DocumentID string `json:"document_id"`
	APIKey     string `json:"api_key,omitempty"`
}

// Validate checks that the configuration is structurally usable before any
// network call is made. It returns a sentinel error from this package on
// failure.
func (c RemoteConfig) Validate() error {
	if c.Endpoint == "" {
		return ErrEndpointEmpty
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrEndpointInvalid
	}
	if c.DocumentID == "" {
		return ErrDocumentIDEmpty
	}
	return nil
}
