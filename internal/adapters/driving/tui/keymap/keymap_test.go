package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDefaultKeyMap tests the default bindings
func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("esc", km.Back))
	assert.True(t, Matches("k", km.Up))
	assert.True(t, Matches("j", km.Down))
	assert.True(t, Matches("enter", km.Select))
	assert.True(t, Matches("tab", km.NextField))
	assert.True(t, Matches("t", km.Terminate))

	assert.False(t, Matches("x", km.Terminate))
}

// TestHelpGroups tests the help listings
func TestHelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 2)
	assert.Len(t, km.RunHelp(), 2)
	assert.Len(t, km.FullHelp(), 3)
}
