package relay

import (
	"errors"
	"fmt"
)

// Stage names the point in a connection's life where it failed.
type Stage string

const (
	StageAccepting Stage = "AcceptingConnection"
	StageParsing   Stage = "ParsingMessage"
	StageUpdating  Stage = "SendingActivityUpdate"
	StageTransport Stage = "Transport"
)

// ConnError ends a single agent connection. It never affects other connections.
type ConnError struct {
	Stage Stage
	Err   error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ConnError) Unwrap() error { return e.Err }

func stageOf(err error) Stage {
	var connErr *ConnError
	if errors.As(err, &connErr) {
		return connErr.Stage
	}
	return ""
}
