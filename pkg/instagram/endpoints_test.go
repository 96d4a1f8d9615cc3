package instagram

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountsURL(t *testing.T) {
	got := AccountsURL("https://graph.facebook.com", "v19.0", "tok-123")

	parsed, err := url.Parse(got)
	require.NoError(t, err)

	assert.Equal(t, "/v19.0/me/accounts", parsed.Path)
	assert.Equal(t, "tok-123", parsed.Query().Get("access_token"))
	assert.Contains(t, parsed.Query().Get("fields"), "instagram_business_account")
}

func TestMediaURL(t *testing.T) {
	got := MediaURL("https://graph.facebook.com", "v19.0", "ig-42", "tok", 25)

	parsed, err := url.Parse(got)
	require.NoError(t, err)

	assert.Equal(t, "/v19.0/ig-42/media", parsed.Path)
	assert.Equal(t, MediaFields, parsed.Query().Get("fields"))
	assert.Equal(t, "25", parsed.Query().Get("limit"))
	assert.Equal(t, "tok", parsed.Query().Get("access_token"))
}

func TestMediaURLDefaultLimit(t *testing.T) {
	got := MediaURL("https://graph.facebook.com", "v19.0", "ig-42", "tok", 0)

	parsed, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "25", parsed.Query().Get("limit"))
}

func TestChildrenURL(t *testing.T) {
	got := ChildrenURL("https://graph.facebook.com", "v19.0", "media-7", "tok")

	parsed, err := url.Parse(got)
	require.NoError(t, err)

	assert.Equal(t, "/v19.0/media-7/children", parsed.Path)
	assert.Equal(t, ChildFields, parsed.Query().Get("fields"))
	assert.Equal(t, "tok", parsed.Query().Get("access_token"))
}
