//go:build !unix

package discord

import (
	"context"
	"net"
)

func dialIPC(ctx context.Context) (net.Conn, error) {
	return nil, ErrUnsupportedPlatform
}
