package remote

import "errors"

var (
	// ErrTruncated marks a frame shorter than PacketSize.
	ErrTruncated = errors.New("remote: packet too short")
	// ErrQueueFull is returned by Receive when the consumer fell behind for
	// longer than the receive wait.
	ErrQueueFull = errors.New("remote: receive queue full")
	// ErrOversize is returned by Receive for payloads that do not fit an
	// envelope.
	ErrOversize = errors.New("remote: payload larger than envelope")
)
