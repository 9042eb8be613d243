//go:build unix

package discord

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

const maxPipes = 10

// socketPaths lists candidate discord-ipc-N sockets in the order Discord's
// own SDKs probe them, including snap and flatpak installs.
func socketPaths(getenv func(string) string) []string {
	var bases []string
	for _, key := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if v := getenv(key); v != "" {
			bases = append(bases, v)
		}
	}
	bases = append(bases, "/tmp")

	var paths []string
	for _, base := range bases {
		for _, dir := range []string{base, filepath.Join(base, "snap.discord"), filepath.Join(base, "app", "com.discordapp.Discord")} {
			for i := 0; i < maxPipes; i++ {
				paths = append(paths, filepath.Join(dir, fmt.Sprintf("discord-ipc-%d", i)))
			}
		}
	}
	return paths
}

func dialIPC(ctx context.Context) (net.Conn, error) {
	var d net.Dialer
	var lastErr error
	for _, path := range socketPaths(os.Getenv) {
		conn, err := d.DialContext(ctx, "unix", path)
		if err == nil {
			return conn, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrNoSocket, lastErr)
}
