package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil runner returns error", func(t *testing.T) {
		ports := &Ports{Catalog: &mockCatalog{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingRunner)
	})

	t.Run("nil catalog returns error", func(t *testing.T) {
		ports := &Ports{Runner: &mockRunner{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingCatalog)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Runner:  &mockRunner{},
			Catalog: &mockCatalog{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("history is optional", func(t *testing.T) {
		ports := &Ports{
			Runner:  &mockRunner{},
			Catalog: &mockCatalog{},
		}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Runner:  &mockRunner{},
			Catalog: &mockCatalog{},
			History: &mockHistory{},
		}
		assert.NoError(t, ports.Validate())
	})
}
