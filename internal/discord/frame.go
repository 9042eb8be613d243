package discord

import (
	"encoding/binary"
	"fmt"
	"io"
)

// opcode identifies the kind of an IPC frame.
type opcode uint32

const (
	opHandshake opcode = iota
	opFrame
	opClose
	opPing
	opPong
)

func (o opcode) String() string {
	switch o {
	case opHandshake:
		return "handshake"
	case opFrame:
		return "frame"
	case opClose:
		return "close"
	case opPing:
		return "ping"
	case opPong:
		return "pong"
	default:
		return fmt.Sprintf("opcode(%d)", uint32(o))
	}
}

const (
	frameHeaderSize = 8
	maxFrameSize    = 1 << 20
)

// writeFrame writes one frame: LE uint32 opcode, LE uint32 length, body.
// The frame is assembled first so it goes out in a single Write.
func writeFrame(w io.Writer, op opcode, body []byte) error {
	buf := make([]byte, frameHeaderSize+len(body))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(op))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(body)))
	copy(buf[frameHeaderSize:], body)
	_, err := w.Write(buf)
	return err
}

func readFrame(r io.Reader) (opcode, []byte, error) {
	var hdr [frameHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, nil, err
	}
	op := opcode(binary.LittleEndian.Uint32(hdr[0:4]))
	n := binary.LittleEndian.Uint32(hdr[4:8])
	if n > maxFrameSize {
		return 0, nil, fmt.Errorf("frame too large: %d bytes", n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, fmt.Errorf("read %s body: %w", op, err)
	}
	return op, body, nil
}
