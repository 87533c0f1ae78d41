package dto

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body every portal endpoint uses
type ErrorResponse struct {
	Error string `json:"error"`
}
