//go:build !unix

package relay

import (
	"fmt"
	"net"
	"strconv"
)

// Listen binds 127.0.0.1:port. The backlog is left to the platform.
func Listen(port uint16) (net.Listener, error) {
	ln, err := net.Listen("tcp4", net.JoinHostPort("127.0.0.1", strconv.Itoa(int(port))))
	if err != nil {
		return nil, fmt.Errorf("listen 127.0.0.1:%d: %w", port, err)
	}
	return ln, nil
}
