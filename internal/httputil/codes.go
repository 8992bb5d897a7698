package httputil

// Machine-readable error codes returned alongside error messages.
const (
	CodeInvalidRequestBody     = "invalid_request_body"
	CodeValidationFailed       = "validation_failed"
	CodeEmailAlreadyRegistered = "email_already_registered"
	CodeInvalidCredentials     = "invalid_credentials"
	CodeMissingAuth            = "missing_auth"
	CodeInvalidToken           = "invalid_token"
	CodeTaskNotFound           = "task_not_found"
	CodeTooManyRequests        = "too_many_requests"
	CodeInternalError          = "internal_error"
)
