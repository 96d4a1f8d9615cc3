package instagram

import (
	"fmt"
	"net/url"
)

const (
	// DefaultBaseURL is the base URL for the Meta Graph API
	DefaultBaseURL = "https://graph.facebook.com"

	// DefaultAPIVersion is the Graph API version the client targets
	DefaultAPIVersion = "v19.0"

	// MediaFields are the post fields requested from the media edge
	MediaFields = "id,media_type,media_url,thumbnail_url,caption,permalink,timestamp"

	// ChildFields are the fields requested for album children
	ChildFields = "id,media_type,media_url,thumbnail_url"

	// DefaultMediaLimit is the default number of media items to fetch per request
	DefaultMediaLimit = 25
)

// AccountsURL constructs the URL listing pages linked to the access token,
// with their Instagram business accounts.
func AccountsURL(base, version, accessToken string) string {
	params := url.Values{}
	params.Set("fields", "id,name,instagram_business_account")
	params.Set("access_token", accessToken)
	return fmt.Sprintf("%s/%s/me/accounts?%s", base, version, params.Encode())
}

// MediaURL constructs the URL for an IG business account's media edge
func MediaURL(base, version, igUserID, accessToken string, limit int) string {
	if limit <= 0 {
		limit = DefaultMediaLimit
	}
	params := url.Values{}
	params.Set("fields", MediaFields)
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("access_token", accessToken)
	return fmt.Sprintf("%s/%s/%s/media?%s", base, version, igUserID, params.Encode())
}

// ChildrenURL constructs the URL for a carousel album's children edge
func ChildrenURL(base, version, mediaID, accessToken string) string {
	params := url.Values{}
	params.Set("fields", ChildFields)
	params.Set("access_token", accessToken)
	return fmt.Sprintf("%s/%s/%s/children?%s", base, version, mediaID, params.Encode())
}
