package instagram

import (
	"fmt"
	"strings"
	"time"
)

// MediaType identifies the kind of media attached to a post
type MediaType string

const (
	MediaTypeImage MediaType = "IMAGE"
	MediaTypeVideo MediaType = "VIDEO"
	MediaTypeAlbum MediaType = "CAROUSEL_ALBUM"
)

// Timestamp wraps time.Time to parse the Graph API timestamp format,
// which uses an offset without a colon (e.g. 2024-01-02T15:04:05+0000).
type Timestamp struct {
	time.Time
}

const graphTimeLayout = "2006-01-02T15:04:05-0700"

// UnmarshalJSON parses a Graph API timestamp string
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(graphTimeLayout, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
	}

	t.Time = parsed
	return nil
}

// MarshalJSON formats the timestamp in the Graph API format
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(graphTimeLayout) + `"`), nil
}

// Post represents one media post on an Instagram business account
type Post struct {
	ID           string    `json:"id"`
	MediaType    MediaType `json:"media_type"`
	MediaURL     string    `json:"media_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Caption      string    `json:"caption,omitempty"`
	Permalink    string    `json:"permalink,omitempty"`
	Timestamp    Timestamp `json:"timestamp"`
}

// Child represents one item inside a carousel album
type Child struct {
	ID           string    `json:"id"`
	MediaType    MediaType `json:"media_type"`
	MediaURL     string    `json:"media_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
}

// mediaResponse is the Graph API envelope for a media listing
type mediaResponse struct {
	Data   []Post `json:"data"`
	Paging paging `json:"paging"`
}

// childrenResponse is the Graph API envelope for album children
type childrenResponse struct {
	Data []Child `json:"data"`
}

// accountsResponse is the Graph API envelope for the pages linked to a token
type accountsResponse struct {
	Data []page `json:"data"`
}

// page is one Facebook page entry, optionally linked to an IG business account
type page struct {
	ID                       string           `json:"id"`
	Name                     string           `json:"name"`
	InstagramBusinessAccount *businessAccount `json:"instagram_business_account,omitempty"`
}

type businessAccount struct {
	ID string `json:"id"`
}

type paging struct {
	Cursors struct {
		Before string `json:"before"`
		After  string `json:"after"`
	} `json:"cursors"`
	Next string `json:"next,omitempty"`
}

// graphErrorEnvelope is the Graph API error body
type graphErrorEnvelope struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}
