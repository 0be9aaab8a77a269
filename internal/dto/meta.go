package dto

// SetMetaRequest is the JSON body for POST /meta. A missing meta field
// stores an empty blob.
type SetMetaRequest struct {
	Meta map[string]any `json:"meta"`
}

// MetaResponse is the GET /meta payload.
type MetaResponse struct {
	Meta map[string]any `json:"meta"`
}
