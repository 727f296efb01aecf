package core

// Response codes returned on the engine's envelope. Tool-level codes
// (unknown_tool, invalid_arguments) also appear inside dispatcher result
// maps fed back to the model.
const (
	CodeOK                = "ok"
	CodeInvalidInput      = "invalid_input"
	CodeMissingCredential = "missing_credential"
	CodeProviderError     = "provider_error"
	CodeLoopExceeded      = "loop_exceeded"
	CodeUnknownTool       = "unknown_tool"
	CodeInvalidArguments  = "invalid_arguments"
)

// Response is the envelope every handler and the engine return. Success
// and Code describe the outcome, Message is user-facing text and Data
// carries structured payload (suggested tools, domain results).
type Response struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
	Code    string         `json:"code"`
}

// NewResponse builds a successful response.
func NewResponse(message string, data map[string]any) Response {
	return Response{Success: true, Message: message, Data: data, Code: CodeOK}
}

// NewErrorResponse builds a failed response with the given code.
func NewErrorResponse(message, code string) Response {
	return Response{Success: false, Message: message, Code: code}
}
