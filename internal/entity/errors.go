package entity

import "errors"

// Domain errors
var (
	// Session errors
	ErrSessionNotFound      = errors.New("session not found")
	ErrGenerationInProgress = errors.New("generation already in progress")
	ErrNoResult             = errors.New("generation result not available")

	// Input errors
	ErrBlankInput       = errors.New("content and purpose must not be blank")
	ErrContentTooLong   = errors.New("content is too long")
	ErrEmptySelection   = errors.New("no keywords selected")
	ErrUnknownProvider  = errors.New("unknown search provider")
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

const (
	// GenerationFailedMessage is shown to the user for any failure of the generative service.
	GenerationFailedMessage = "生成失败，请重试。"

	// UnexpectedErrorMessage is shown when a failure does not carry its own message.
	UnexpectedErrorMessage = "发生了一些错误，请稍后重试。"
)

// GenerationError is returned by generation clients when the call to the
// generative service fails. The cause is kept for logs; Error always
// returns the generic user-facing text.
type GenerationError struct {
	Cause error
}

func NewGenerationError(cause error) *GenerationError {
	return &GenerationError{Cause: cause}
}

func (e *GenerationError) Error() string {
	return GenerationFailedMessage
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the text to show the user for a failed generation.
func UserMessage(err error) string {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Error()
	}
	return UnexpectedErrorMessage
}
