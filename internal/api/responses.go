package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// WebhookResponse is the acknowledgement shape the payment provider expects.
type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
