package audiofile

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions with no decoder
	// (Open) or no encoder (Create).
	ErrUnsupportedFormat = errors.New("audiofile: unsupported format")

	// ErrInvalidFile is returned when a container header cannot be parsed.
	ErrInvalidFile = errors.New("audiofile: invalid file")

	// ErrInvalidOption is returned for conflicting or out-of-range options.
	ErrInvalidOption = errors.New("audiofile: invalid option")

	// ErrClosed is returned by Next and Write after Close.
	ErrClosed = errors.New("audiofile: closed")
)
