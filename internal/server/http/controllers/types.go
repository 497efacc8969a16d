package controllers

// Common response types for HTTP controllers

// errorResponse is the body of every error response.
type errorResponse struct {
	Error string `json:"error"`
}

// healthResponse is the body of the health endpoint.
type healthResponse struct {
	Status string `json:"status"`
}
