// Package discord is a minimal client for the Discord desktop RPC over local IPC.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Options configures a Client.
type Options struct {
	Subscriptions Subscriptions
	// OnEvent receives subscribed dispatches. It runs on the read loop and must not block.
	OnEvent       func(Event)
	Logger        *slog.Logger
}

// Client is one IPC session with the Discord desktop client. It is safe
// for concurrent use.
type Client struct {
	conn    io.ReadWriteCloser
	subs    Subscriptions
	onEvent func(Event)
	log     *slog.Logger
	user    *UserWatch

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan response
	closed  bool
	err     error
	done    chan struct{}
}

// Dial finds the local Discord IPC socket and starts a session for appID.
// It returns once the handshake is sent; watch User() for the outcome.
func Dial(ctx context.Context, appID int64, opts Options) (*Client, error) {
	conn, err := dialIPC(ctx)
	if err != nil {
		return nil, err
	}
	return newClient(conn, appID, opts)
}

func newClient(conn io.ReadWriteCloser, appID int64, opts Options) (*Client, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		conn:    conn,
		subs:    opts.Subscriptions,
		onEvent: opts.OnEvent,
		log:     log,
		user:    NewUserWatch(),
		pending: make(map[string]chan response),
		done:    make(chan struct{}),
	}

	body, err := json.Marshal(handshake{V: handshakeVersion, ClientID: strconv.FormatInt(appID, 10)})
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := c.write(opHandshake, body); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send handshake: %w", err)
	}

	go c.readLoop()
	return c, nil
}

// User returns the current-user observable. It is closed when the session ends.
func (c *Client) User() *UserWatch { return c.user }

// Done is closed once the session has ended.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err returns why the session ended, or nil while it is live.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// UpdateActivity sets the rich presence activity and waits for Discord's reply.
// A zero PID is filled with the current process id.
func (c *Client) UpdateActivity(ctx context.Context, args ActivityArgs) error {
	if args.PID == 0 {
		args.PID = os.Getpid()
	}
	_, err := c.command(ctx, cmdSetActivity, "", args)
	return err
}

// Close ends the session and waits for the read loop to exit.
func (c *Client) Close() error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()

	var err error
	if !closed {
		err = c.conn.Close()
	}
	<-c.done
	return err
}

func (c *Client) write(op opcode, body []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return writeFrame(c.conn, op, body)
}

func (c *Client) command(ctx context.Context, cmd, evt string, args any) (json.RawMessage, error) {
	nonce := uuid.NewString()
	body, err := json.Marshal(command{Cmd: cmd, Nonce: nonce, Evt: evt, Args: args})
	if err != nil {
		return nil, err
	}

	ch := make(chan response, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.pending[nonce] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, nonce)
		c.mu.Unlock()
	}()

	if err := c.write(opFrame, body); err != nil {
		return nil, fmt.Errorf("write %s: %w", cmd, err)
	}

	select {
	case resp := <-ch:
		return resolve(resp)
	case <-c.done:
		select {
		case resp := <-ch:
			return resolve(resp)
		default:
		}
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func resolve(resp response) (json.RawMessage, error) {
	if resp.Evt == evtError {
		rpcErr := &RPCError{}
		if err := json.Unmarshal(resp.Data, rpcErr); err != nil {
			return nil, fmt.Errorf("decode %s error: %w", resp.Cmd, err)
		}
		return nil, rpcErr
	}
	return resp.Data, nil
}

func (c *Client) readLoop() {
	var err error
	defer func() { c.shutdown(err) }()

	for {
		var op opcode
		var body []byte
		op, body, err = readFrame(c.conn)
		if err != nil {
			return
		}

		switch op {
		case opFrame:
			c.handleFrame(body)
		case opPing:
			if err = c.write(opPong, body); err != nil {
				return
			}
		case opPong:
		case opClose:
			closeErr := &CloseError{}
			if jsonErr := json.Unmarshal(body, closeErr); jsonErr != nil {
				closeErr.Message = string(body)
			}
			c.user.Set(UserState{Reason: closeErr})
			err = closeErr
			return
		default:
			c.log.Debug("discord: ignoring frame", "op", op)
		}
	}
}

func (c *Client) handleFrame(body []byte) {
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		c.log.Warn("discord: bad frame", "error", err)
		return
	}

	if resp.Cmd == cmdDispatch {
		c.handleDispatch(resp)
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[resp.Nonce]
	delete(c.pending, resp.Nonce)
	c.mu.Unlock()
	if ok {
		ch <- resp
	}
}

func (c *Client) handleDispatch(resp response) {
	switch resp.Evt {
	case evtReady:
		var ready readyData
		if err := json.Unmarshal(resp.Data, &ready); err != nil {
			c.user.Set(UserState{Reason: fmt.Errorf("decode ready: %w", err)})
			return
		}
		c.log.Debug("discord: ready", "user", ready.User.Username)
		c.user.Set(UserState{User: &ready.User})
		go c.subscribe()

	case evtError:
		rpcErr := &RPCError{}
		if err := json.Unmarshal(resp.Data, rpcErr); err != nil {
			rpcErr.Message = string(resp.Data)
		}
		if state, _ := c.user.Current(); !state.Connected() {
			c.user.Set(UserState{Reason: rpcErr})
			return
		}
		c.log.Warn("discord: error dispatch", "error", rpcErr)

	default:
		if c.onEvent != nil {
			c.onEvent(Event{Name: resp.Evt, Data: resp.Data})
		}
	}
}

// subscribe registers for the selected events. Replies are not awaited.
func (c *Client) subscribe() {
	for _, evt := range c.subs.events() {
		body, err := json.Marshal(command{Cmd: cmdSubscribe, Nonce: uuid.NewString(), Evt: evt, Args: struct{}{}})
		if err != nil {
			return
		}
		if err := c.write(opFrame, body); err != nil {
			c.log.Debug("discord: subscribe failed", "event", evt, "error", err)
			return
		}
	}
}

func (c *Client) shutdown(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.err = err
	c.mu.Unlock()

	c.conn.Close()
	c.user.Close()
	close(c.done)
}
