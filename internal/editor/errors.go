package editor

import "fmt"

// OpError reports why an editor operation was rejected. Rejections leave
// the state untouched; callers may surface them or treat them as no-ops.
type OpError struct {
	Code    string
	Message string
}

func (e *OpError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

const (
	ErrRoomNotFound = "room_not_found"
	ErrMisaligned   = "misaligned"
	ErrOverlap      = "overlap"
	ErrInvalidSize  = "invalid_size"
)

func opErrorf(code, format string, args ...any) *OpError {
	return &OpError{Code: code, Message: fmt.Sprintf(format, args...)}
}
