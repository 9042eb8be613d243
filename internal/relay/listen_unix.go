//go:build unix

package relay

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// Listen binds 127.0.0.1:port with a backlog of listenBacklog. The socket is
// built by hand because net.Listen always uses the system maximum backlog.
func Listen(port uint16) (net.Listener, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("create socket: %w", err)
	}
	unix.CloseOnExec(fd)

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set SO_REUSEADDR: %w", err)
	}
	sa := &unix.SockaddrInet4{Port: int(port), Addr: [4]byte{127, 0, 0, 1}}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind 127.0.0.1:%d: %w", port, err)
	}
	if err := unix.Listen(fd, listenBacklog); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("listen 127.0.0.1:%d: %w", port, err)
	}

	f := os.NewFile(uintptr(fd), fmt.Sprintf("tcp:127.0.0.1:%d", port))
	defer f.Close()
	ln, err := net.FileListener(f)
	if err != nil {
		return nil, fmt.Errorf("wrap listener: %w", err)
	}
	return ln, nil
}
