// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/pitkit/pkg/api"     //nolint:depguard
	"github.com/ssargent/pitkit/pkg/archive" //nolint:depguard
)

// ArchiveOpener opens the snapshot archive rooted at dir
type ArchiveOpener func(dir string) (*archive.Archive, error)

// Container holds all the dependencies for the application
type Container struct {
	serverFactory api.ServerFactory
	archiveOpener ArchiveOpener
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		serverFactory: api.NewServerFactory(),
		archiveOpener: archive.Open,
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// GetArchiveOpener returns the function used to open the archive
func (c *Container) GetArchiveOpener() ArchiveOpener {
	return c.archiveOpener
}

// SetArchiveOpener allows overriding the archive opener (for testing)
func (c *Container) SetArchiveOpener(opener ArchiveOpener) {
	c.archiveOpener = opener
}
