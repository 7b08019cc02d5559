package responses

// SuccessEnvelope wraps payloads that have no envelope of their own.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the body of every non-inventory error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
