package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  RemoteConfig
		wantErr error
	}{
		{
			name:   "valid https config",
			config: RemoteConfig{Endpoint: "https://sync.example.com", DocumentID: "workspace-1", APIKey: "k"},
		},
		{
			name:   "valid http config without key",
			config: RemoteConfig{Endpoint: "http://localhost:8080", DocumentID: "doc"},
		},
		{
			name:    "empty endpoint",
			config:  RemoteConfig{DocumentID: "doc"},
			wantErr: ErrEndpointEmpty,
		},
		{
			name:    "non-http scheme",
			config:  RemoteConfig{Endpoint: "ftp://example.com", DocumentID: "doc"},
			wantErr: ErrEndpointInvalid,
		},
		{
			name:    "missing host",
			config:  RemoteConfig{Endpoint: "https://", DocumentID: "doc"},
			wantErr: ErrEndpointInvalid,
		},
		{
			name:    "missing document id",
			config:  RemoteConfig{Endpoint: "https://sync.example.com"},
			wantErr: ErrDocumentIDEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
