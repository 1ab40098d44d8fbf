package rtex

import "errors"

var (
	// ErrNoContext is returned when an operation requires a painter with a
	// rendering context and none is attached.
	ErrNoContext = errors.New("rtex: no rendering context")

	// ErrDisposed is returned when a render texture is used after Dispose.
	ErrDisposed = errors.New("rtex: render texture disposed")
)
