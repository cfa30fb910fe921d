package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driving"
)

func setupAuthTest(creds *mockCredentials) func() {
	oldCreds := credentialStore
	oldCatalog := repositoryCatalog
	credentialStore = creds
	repositoryCatalog = &mockCatalog{infos: []driving.RepositoryInfo{
		{Name: "figshare", SupportsTerms: true},
	}}
	authSetToken = ""
	return func() {
		credentialStore = oldCreds
		repositoryCatalog = oldCatalog
	}
}

func TestAuthCmd_Short(t *testing.T) {
	assert.Equal(t, "Manage repository credentials", authCmd.Short)
}

func TestAuthSetCmd_WithTokenFlag(t *testing.T) {
	creds := newMockCredentials()
	cleanup := setupAuthTest(creds)
	defer cleanup()

	buf, err := execute("auth", "set", "figshare", "--token", "secret")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Stored credentials for figshare.")
	assert.Equal(t, "secret", creds.entries["figshare"].Token())
}

func TestAuthSetCmd_UnknownRepository(t *testing.T) {
	cleanup := setupAuthTest(newMockCredentials())
	defer cleanup()

	_, err := execute("auth", "set", "github", "--token", "secret")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown repository")
}

func TestAuthListCmd(t *testing.T) {
	creds := newMockCredentials()
	creds.entries["figshare"] = domain.Credentials{"token": "secret"}
	cleanup := setupAuthTest(creds)
	defer cleanup()

	buf, err := execute("auth", "list")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "figshare")
}

func TestAuthListCmd_Empty(t *testing.T) {
	cleanup := setupAuthTest(newMockCredentials())
	defer cleanup()

	buf, err := execute("auth", "list")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No credentials stored.")
}

func TestAuthRemoveCmd(t *testing.T) {
	creds := newMockCredentials()
	creds.entries["figshare"] = domain.Credentials{"token": "secret"}
	cleanup := setupAuthTest(creds)
	defer cleanup()

	buf, err := execute("auth", "remove", "figshare")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Removed credentials for figshare.")
	assert.Empty(t, creds.entries)
}

func TestAuthSetCmd_StoreNotConfigured(t *testing.T) {
	oldCreds := credentialStore
	credentialStore = nil
	defer func() {
		credentialStore = oldCreds
	}()

	_, err := execute("auth", "set", "figshare", "--token", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "credential store not configured")
}
