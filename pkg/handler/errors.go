package handler

// Error codes attached to every published job update
const (
	Success             = "success"
	InvalidRequest      = "invalid_request"
	InternalServerError = "internal_server_error"
	NoSpeech            = "no_speech"
	RenderFailed        = "render_failed"
)
