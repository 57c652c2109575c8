package cisco

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Classified open/execute failures. The gateway maps these to its error
// taxonomy; anything not wrapped in one of them is an unclassified failure.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrConnection     = errors.New("connection failed")
	ErrTimeout        = errors.New("operation timed out")
)

// classifyDialError wraps a TCP dial failure. Timeouts are distinguished
// from refusals and unreachable hosts.
func classifyDialError(addr string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: dial %s: %v", ErrTimeout, addr, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: dial %s: %v", ErrTimeout, addr, err)
	}
	return fmt.Errorf("%w: dial %s: %v", ErrConnection, addr, err)
}

// classifyHandshakeError wraps an SSH handshake failure. x/crypto/ssh does
// not export typed errors, so authentication failures are recognized by
// message.
func classifyHandshakeError(addr string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unable to authenticate") || strings.Contains(msg, "permission denied") {
		return fmt.Errorf("%w: %s: %v", ErrAuthentication, addr, err)
	}
	return fmt.Errorf("%w: ssh handshake with %s: %v", ErrConnection, addr, err)
}
