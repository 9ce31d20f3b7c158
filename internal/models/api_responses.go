package models

// CounterResponse is returned by both visitor counter endpoints.
// Count is always present, including on failure where it is 0.
type CounterResponse struct {
	Success bool   `json:"success"`
	Count   int64  `json:"count"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// SendMailResponse is returned when the business notification was delivered.
type SendMailResponse struct {
	Success        bool    `json:"success"`
	Message        string  `json:"message"`
	UserEmailSent  bool    `json:"userEmailSent"`
	UserEmailError *string `json:"userEmailError"`
}

// ErrorResponse is the failure body of the mail endpoint.
type ErrorResponse struct {
	Error     string `json:"error"`
	Details   any    `json:"details,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status         string `json:"status"`
	CounterBackend string `json:"counterBackend"`
}
