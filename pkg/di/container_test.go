package di

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/ssargent/pitkit/pkg/api"
	"github.com/ssargent/pitkit/pkg/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStarter struct{}

func (stubStarter) StartServer(ctx context.Context, store api.SnapshotStore, config api.ServerConfig, logger *slog.Logger) error {
	return nil
}

type stubFactory struct{}

func (stubFactory) CreateServerStarter() api.ServerStarter {
	return stubStarter{}
}

func TestContainer(t *testing.T) {
	c := NewContainer()
	require.NotNil(t, c.GetServerFactory())
	require.NotNil(t, c.GetArchiveOpener())

	t.Run("default archive opener", func(t *testing.T) {
		a, err := c.GetArchiveOpener()(filepath.Join(t.TempDir(), "archive"))
		require.NoError(t, err)
		assert.NoError(t, a.Close())
	})

	t.Run("overrides", func(t *testing.T) {
		c.SetServerFactory(stubFactory{})
		assert.IsType(t, stubStarter{}, c.GetServerFactory().CreateServerStarter())

		opened := ""
		c.SetArchiveOpener(func(dir string) (*archive.Archive, error) {
			opened = dir
			return archive.Open(dir)
		})
		dir := t.TempDir()
		a, err := c.GetArchiveOpener()(dir)
		require.NoError(t, err)
		defer a.Close()
		assert.Equal(t, dir, opened)
	})
}
