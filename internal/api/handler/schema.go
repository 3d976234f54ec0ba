package handler

// errorResponse documents the error envelope rendered by the central HTTP
// error handler: {"error": "...", "fields": [...], "available": n, "required": n}.
// Only Error is always present.
type errorResponse struct {
	Error     string   `json:"error"`
	Fields    []string `json:"fields,omitempty"`
	Available *int     `json:"available,omitempty"`
	Required  *int     `json:"required,omitempty"`
}
