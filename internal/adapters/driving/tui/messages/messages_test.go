package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestViewType_String tests the view names
func TestViewType_String(t *testing.T) {
	assert.Equal(t, "menu", ViewMenu.String())
	assert.Equal(t, "repositories", ViewRepositories.String())
	assert.Equal(t, "setup", ViewSetup.String())
	assert.Equal(t, "run", ViewRun.String())
	assert.Equal(t, "help", ViewHelp.String())
	assert.Equal(t, "unknown", ViewType(99).String())
}
