package viewsvc

import "errors"

var (
	// ErrInvalidStreamName means the requested name resolves to no stream.
	ErrInvalidStreamName = errors.New("stream name is invalid")
	// ErrInvalidFragmentation covers both unknown and disabled fragmentations.
	ErrInvalidFragmentation = errors.New("fragmentation name is invalid")
	// ErrInvalidCursor means the since parameter is not a timestamp.
	ErrInvalidCursor = errors.New("since is not a valid timestamp")
	// ErrOutOfOrder is returned when a source yields a decreasing timestamp.
	ErrOutOfOrder = errors.New("events out of timestamp order")
)
