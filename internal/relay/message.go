package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Wire tags accepted for SetTabCount. The browser agent sends the snake_case form.
const (
	typeSetTabCount      = "SetTabCount"
	typeSetTabCountCamel = "setTabCount"
	typeSetTabCountSnake = "set_tab_count"
)

const agentMessageSchema = `{
	"type": "object",
	"required": ["type", "count"],
	"properties": {
		"type": {"enum": ["SetTabCount", "setTabCount", "set_tab_count"]},
		"count": {"type": "integer", "minimum": 0, "maximum": 4294967295}
	}
}`

var agentSchema = mustSchema(agentMessageSchema)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("relay: bad agent message schema: %v", err))
	}
	return s
}

// AgentMessage is a command decoded from one agent WebSocket message.
type AgentMessage interface {
	agentMessage()
}

// SetTabCount reports the agent's current number of open tabs.
type SetTabCount struct {
	Count uint32
}

func (SetTabCount) agentMessage() {}

type wireMessage struct {
	Type  string `json:"type"`
	Count uint32 `json:"count"`
}

// DecodeAgentMessage decodes a Text or Binary payload. Unknown type tags,
// out-of-range counts and malformed JSON are errors.
func DecodeAgentMessage(data []byte) (AgentMessage, error) {
	result, err := agentSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("malformed json: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, errors.New("invalid agent message: " + strings.Join(msgs, "; "))
	}

	var msg wireMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode agent message: %w", err)
	}

	switch msg.Type {
	case typeSetTabCount, typeSetTabCountCamel, typeSetTabCountSnake:
		return SetTabCount{Count: msg.Count}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", msg.Type)
	}
}
