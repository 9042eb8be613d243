package relay

import (
	"fmt"
	"math"
	"testing"
)

func TestDecodeSetTabCount(t *testing.T) {
	for _, tag := range []string{"SetTabCount", "set_tab_count", "setTabCount"} {
		for _, n := range []uint32{0, 1, 42, math.MaxUint32} {
			data := fmt.Sprintf(`{"type":%q,"count":%d}`, tag, n)
			msg, err := DecodeAgentMessage([]byte(data))
			if err != nil {
				t.Fatalf("decode %s: %v", data, err)
			}
			got, ok := msg.(SetTabCount)
			if !ok {
				t.Fatalf("decode %s: got %T, want SetTabCount", data, msg)
			}
			if got.Count != n {
				t.Errorf("decode %s: count = %d, want %d", data, got.Count, n)
			}
		}
	}
}

func TestDecodeAliasMatchesCanonical(t *testing.T) {
	a, err := DecodeAgentMessage([]byte(`{"type":"SetTabCount","count":9}`))
	if err != nil {
		t.Fatal(err)
	}
	b, err := DecodeAgentMessage([]byte(`{"type":"set_tab_count","count":9}`))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("alias decoded to %+v, canonical to %+v", b, a)
	}
}

func TestDecodeIgnoresExtraFields(t *testing.T) {
	msg, err := DecodeAgentMessage([]byte(`{"type":"set_tab_count","count":3,"secret":""}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.(SetTabCount).Count != 3 {
		t.Errorf("count = %d, want 3", msg.(SetTabCount).Count)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `{"type":"SetTabCount","count":`},
		{"not json", `hello`},
		{"bare number", `12`},
		{"unknown type", `{"type":"SetWindowCount","count":1}`},
		{"missing type", `{"count":1}`},
		{"missing count", `{"type":"SetTabCount"}`},
		{"negative count", `{"type":"SetTabCount","count":-1}`},
		{"too large", `{"type":"SetTabCount","count":4294967296}`},
		{"fractional", `{"type":"SetTabCount","count":1.5}`},
		{"string count", `{"type":"SetTabCount","count":"3"}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if msg, err := DecodeAgentMessage([]byte(tt.data)); err == nil {
				t.Errorf("decode %q = %+v, want error", tt.data, msg)
			}
		})
	}
}
