package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/ssargent/pitkit/pkg/api"
	"github.com/ssargent/pitkit/pkg/config"
	"github.com/ssargent/pitkit/pkg/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStarter captures the configuration instead of listening
type recordingStarter struct {
	called bool
	config api.ServerConfig
	err    error
}

func (r *recordingStarter) StartServer(ctx context.Context, store api.SnapshotStore, config api.ServerConfig, logger *slog.Logger) error {
	r.called = true
	r.config = config
	if _, err := store.List(); err != nil {
		return err
	}
	return r.err
}

type recordingFactory struct {
	starter *recordingStarter
}

func (f *recordingFactory) CreateServerStarter() api.ServerStarter {
	return f.starter
}

func withRecordingServer(t *testing.T) *recordingStarter {
	t.Helper()
	starter := &recordingStarter{}
	container := di.NewContainer()
	container.SetServerFactory(&recordingFactory{starter: starter})
	SetContainer(container)
	t.Cleanup(func() { SetContainer(di.NewContainer()) })
	return starter
}

func TestRunServer(t *testing.T) {
	t.Run("generated key", func(t *testing.T) {
		starter := withRecordingServer(t)
		cfg := config.DefaultConfig()
		cfg.DataDir = t.TempDir()

		var out bytes.Buffer
		require.NoError(t, runServer(context.Background(), cfg, &out))

		assert.True(t, starter.called)
		assert.Len(t, starter.config.APIKey, 64)
		assert.Contains(t, out.String(), "Generated API key for this run: "+starter.config.APIKey)
		assert.Equal(t, cfg.Server.MaxUploadSize, starter.config.MaxUploadSize)
	})

	t.Run("configured key", func(t *testing.T) {
		starter := withRecordingServer(t)
		cfg := config.DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Server.APIKey = "configured-key"
		cfg.Server.Port = 9090
		cfg.Server.Bind = "0.0.0.0"

		var out bytes.Buffer
		require.NoError(t, runServer(context.Background(), cfg, &out))

		assert.Equal(t, api.ServerConfig{
			Bind:          "0.0.0.0",
			Port:          9090,
			APIKey:        "configured-key",
			MaxUploadSize: cfg.Server.MaxUploadSize,
		}, starter.config)
		assert.NotContains(t, out.String(), "Generated API key")
		assert.Contains(t, out.String(), "0.0.0.0:9090")
	})

	t.Run("server error is returned", func(t *testing.T) {
		starter := withRecordingServer(t)
		starter.err = errors.New("address in use")
		cfg := config.DefaultConfig()
		cfg.DataDir = t.TempDir()

		err := runServer(context.Background(), cfg, &bytes.Buffer{})
		assert.EqualError(t, err, "address in use")
	})

	t.Run("nil container", func(t *testing.T) {
		SetContainer(nil)
		defer SetContainer(di.NewContainer())

		err := runServer(context.Background(), config.DefaultConfig(), &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dependency container not initialized")
	})
}
