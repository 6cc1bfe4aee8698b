package dto

// UpdateDocumentRequest carries the editor's change payload
type UpdateDocumentRequest struct {
	Changes map[string]any `json:"changes"`
}
