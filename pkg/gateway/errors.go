package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/wentf9/cisco-mcp/pkg/cisco"
)

// Kind is the stable error category attached to every failed operation.
type Kind string

const (
	KindValidation    Kind = "validation_rejected"
	KindUnknownDevice Kind = "unknown_device"
	KindAuth          Kind = "authentication_failed"
	KindTransport     Kind = "transport_error"
	KindTimeout       Kind = "operation_timeout"
	KindUnclassified  Kind = "unclassified_failure"
)

// OpError is the only error type that leaves the gateway. The message is
// sanitized for the caller: classified reason plus the underlying transport
// text, never credentials.
type OpError struct {
	Kind   Kind
	Device string
	Op     string
	Err    error
}

func (e *OpError) Error() string {
	switch e.Kind {
	case KindValidation:
		// 校验拒绝的 reason 原样返回
		return e.Err.Error()
	case KindUnknownDevice:
		return fmt.Sprintf("Device '%s' not in inventory", e.Device)
	case KindAuth:
		return "Authentication failed: " + e.Err.Error()
	case KindTransport, KindTimeout:
		// 超时对外也归入连接错误一族，Kind 仍然区分两者
		return "Connection error: " + e.Err.Error()
	default:
		return "Operation failed: " + e.Err.Error()
	}
}

func (e *OpError) Unwrap() error { return e.Err }

// classify maps session-provider failures onto the taxonomy. Anything the
// provider did not classify is an unclassified failure.
func classify(err error) Kind {
	switch {
	case errors.Is(err, cisco.ErrAuthentication):
		return KindAuth
	case errors.Is(err, cisco.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, cisco.ErrConnection):
		return KindTransport
	default:
		return KindUnclassified
	}
}
