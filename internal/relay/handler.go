package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
)

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	log := s.log.With("peer", r.RemoteAddr)
	if err := s.serveAgent(w, r, log); err != nil {
		log.Error("error handling connection", "stage", string(stageOf(err)), "error", err)
		return
	}
	log.Info("connection closed")
}

// serveAgent upgrades the request and processes messages in arrival order
// until the peer closes or a message fails.
func (s *Server) serveAgent(w http.ResponseWriter, r *http.Request, log *slog.Logger) error {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Agents are browser extensions with moz-extension:// or chrome-extension:// origins.
		InsecureSkipVerify: true,
	})
	if err != nil {
		return &ConnError{Stage: StageAccepting, Err: err}
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxMessageSize)
	log.Debug("websocket established")

	ctx := r.Context()
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if isNormalClose(err) || ctx.Err() != nil {
				return nil
			}
			return &ConnError{Stage: StageTransport, Err: err}
		}

		msg, err := decodeFrame(typ, data)
		if err != nil {
			conn.Close(websocket.StatusUnsupportedData, "malformed message")
			return &ConnError{Stage: StageParsing, Err: err}
		}

		switch m := msg.(type) {
		case SetTabCount:
			if err := s.setTabCount(ctx, log, m.Count); err != nil {
				conn.Close(websocket.StatusInternalError, "presence update failed")
				return &ConnError{Stage: StageUpdating, Err: err}
			}
		}
	}
}

func (s *Server) setTabCount(ctx context.Context, log *slog.Logger, count uint32) error {
	log.Debug("received new count", "count", count)
	s.State.SetLastSeen(count)

	if err := s.Presence.Update(ctx, count); err != nil {
		s.State.SetConnected(false)
		return err
	}
	s.State.SetConnected(true)
	log.Debug("activity updated", "count", count)
	return nil
}

// decodeFrame accepts Text and Binary payloads. Any other message type
// closes the connection.
func decodeFrame(typ websocket.MessageType, data []byte) (AgentMessage, error) {
	switch typ {
	case websocket.MessageText, websocket.MessageBinary:
		return DecodeAgentMessage(data)
	default:
		return nil, fmt.Errorf("unsupported message type %v", typ)
	}
}

func isNormalClose(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway, websocket.StatusNoStatusRcvd:
		return true
	}
	return errors.Is(err, context.Canceled)
}
