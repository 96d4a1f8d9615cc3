package telegram

import "encoding/json"

// apiResponse is the envelope every Bot API method returns
type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Parameters  *responseParams `json:"parameters,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// responseParams carries extra error information such as throttling hints
type responseParams struct {
	RetryAfter int `json:"retry_after,omitempty"`
}

// Update represents one incoming update from getUpdates
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message represents a Telegram message
type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text,omitempty"`
	Chat      Chat   `json:"chat"`
}

// Chat identifies the conversation a message belongs to
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type,omitempty"`
}

// sendMessageRequest is the payload for sendMessage
type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// sendPhotoRequest is the payload for sendPhoto
type sendPhotoRequest struct {
	ChatID string `json:"chat_id"`
	Photo  string `json:"photo"`
}

// sendVideoRequest is the payload for sendVideo
type sendVideoRequest struct {
	ChatID    string `json:"chat_id"`
	Video     string `json:"video"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// inputMediaPhoto is one photo entry in a sendMediaGroup payload
type inputMediaPhoto struct {
	Type  string `json:"type"`
	Media string `json:"media"`
}

// sendMediaGroupRequest is the payload for sendMediaGroup
type sendMediaGroupRequest struct {
	ChatID string            `json:"chat_id"`
	Media  []inputMediaPhoto `json:"media"`
}

// getUpdatesRequest is the payload for getUpdates long polling
type getUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Timeout        int      `json:"timeout,omitempty"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}
