package dto

// StreamChatRequest starts (or continues) a chat turn. The uuid is the
// client-chosen conversation key; reusing it continues the conversation.
type StreamChatRequest struct {
	Uuid    string `json:"uuid" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// StreamChatResp is one SSE payload of the chat stream.
type StreamChatResp struct {
	Content            string `json:"content"`
	Role               string `json:"role"`
	Finished           bool   `json:"finished"`
	AggregationMessage string `json:"aggregationMessage"`
}
