package discord

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by commands issued after the IPC pipe is gone.
	ErrClosed = errors.New("discord: connection closed")
	// ErrNoSocket is returned when no discord-ipc socket accepts a connection.
	ErrNoSocket = errors.New("discord: no ipc socket found")
	// ErrUnsupportedPlatform is returned by Dial where local IPC is not implemented.
	ErrUnsupportedPlatform = errors.New("discord: ipc not supported on this platform")
)

// RPC command and event names.
const (
	cmdDispatch    = "DISPATCH"
	cmdSubscribe   = "SUBSCRIBE"
	cmdSetActivity = "SET_ACTIVITY"

	evtReady            = "READY"
	evtError            = "ERROR"
	evtActivityJoin     = "ACTIVITY_JOIN"
	evtActivitySpectate = "ACTIVITY_SPECTATE"
	evtActivityJoinReq  = "ACTIVITY_JOIN_REQUEST"
)

const handshakeVersion = 1

// Subscriptions selects which event groups the client subscribes to once READY.
type Subscriptions uint32

const (
	SubscribeActivity Subscriptions = 1 << iota
)

func (s Subscriptions) events() []string {
	var evts []string
	if s&SubscribeActivity != 0 {
		evts = append(evts, evtActivityJoin, evtActivitySpectate, evtActivityJoinReq)
	}
	return evts
}

// User is the account Discord reports in the READY dispatch.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator,omitempty"`
	GlobalName    string `json:"global_name,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
	Bot           bool   `json:"bot,omitempty"`
}

// ActivityType is the kind marker of an activity.
type ActivityType int

const (
	ActivityPlaying ActivityType = iota
	ActivityStreaming
	ActivityListening
	ActivityWatching
	ActivityCustom
	ActivityCompeting
)

// Activity is the rich presence payload. Unset fields are omitted.
type Activity struct {
	State   string       `json:"state,omitempty"`
	Details string       `json:"details,omitempty"`
	Type    ActivityType `json:"type"`
}

// ActivityArgs are the SET_ACTIVITY arguments. A nil Activity clears presence.
type ActivityArgs struct {
	PID      int       `json:"pid"`
	Activity *Activity `json:"activity,omitempty"`
}

// Event is a subscribed dispatch delivered to Options.OnEvent.
type Event struct {
	Name string
	Data json.RawMessage
}

// RPCError is an ERROR response or dispatch.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("discord rpc error %d: %s", e.Code, e.Message)
}

// CloseError is the body of a CLOSE frame sent by Discord.
type CloseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("discord closed connection (%d): %s", e.Code, e.Message)
}

type handshake struct {
	V        int    `json:"v"`
	ClientID string `json:"client_id"`
}

type command struct {
	Cmd   string `json:"cmd"`
	Nonce string `json:"nonce"`
	Evt   string `json:"evt,omitempty"`
	Args  any    `json:"args,omitempty"`
}

type response struct {
	Cmd   string          `json:"cmd"`
	Evt   string          `json:"evt"`
	Nonce string          `json:"nonce"`
	Data  json.RawMessage `json:"data"`
}

type readyData struct {
	V    int  `json:"v"`
	User User `json:"user"`
}
