package dto

// StartSessionRequest represents the request body for starting a session
type StartSessionRequest struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}
