package moodle

import (
	"errors"
	"fmt"
)

// TransportError is a failure to complete the round trip: network errors,
// timeouts and non-2xx statuses that survived the retry policy.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("moodle %s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is a response that arrived but cannot be used: invalid JSON,
// a Moodle exception envelope, or a missing expected key.
type ProtocolError struct {
	Op      string
	Code    string // Moodle errorcode, when the server sent one
	Message string
	Err     error
}

func (e *ProtocolError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Err != nil {
		if msg == "" {
			return fmt.Sprintf("moodle %s: protocol: %v", e.Op, e.Err)
		}
		return fmt.Sprintf("moodle %s: protocol: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("moodle %s: protocol: %s", e.Op, msg)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// IsTransport reports whether err (or something it wraps) is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsProtocol reports whether err (or something it wraps) is a ProtocolError.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
