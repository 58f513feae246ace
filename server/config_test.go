package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "cert.pem")
	key := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(cert, []byte("cert"), 0o600))
	require.NoError(t, os.WriteFile(key, []byte("key"), 0o600))

	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "given default port when validated then ok", config: Config{Port: DefaultPort}},
		{name: "given port zero when validated then invalid port", config: Config{Port: 0}, wantErr: ErrInvalidPort},
		{name: "given port above range when validated then invalid port", config: Config{Port: 70000}, wantErr: ErrInvalidPort},
		{name: "given existing files when validated then ok", config: Config{Port: 443, CertFile: cert, KeyFile: key}},
		{name: "given missing cert when validated then invalid cert", config: Config{Port: 443, CertFile: filepath.Join(dir, "nope"), KeyFile: key}, wantErr: ErrInvalidCertFile},
		{name: "given missing key when validated then invalid key", config: Config{Port: 443, CertFile: cert, KeyFile: filepath.Join(dir, "nope")}, wantErr: ErrInvalidKeyFile},
		{name: "given only cert when validated then invalid key", config: Config{Port: 443, CertFile: cert}, wantErr: ErrInvalidKeyFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfigIsSame(t *testing.T) {
	a := Config{Port: 8000, CertFile: "c", KeyFile: "k"}
	assert.True(t, a.IsSame(Config{Port: 8000, CertFile: "c", KeyFile: "k", Debug: true}))
	assert.False(t, a.IsSame(Config{Port: 8001, CertFile: "c", KeyFile: "k"}))
	assert.True(t, a.TLS())
	assert.False(t, Config{CertFile: "c"}.TLS())
}
