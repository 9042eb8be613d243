package relay

import (
	"sync"
	"testing"
)

func TestStateDefaults(t *testing.T) {
	s := NewState()
	if s.LastSeen() != 0 || s.Connected() {
		t.Errorf("new state = %+v, want zero", s.Snapshot())
	}
}

func TestStateConcurrentWriters(t *testing.T) {
	s := NewState()
	var wg sync.WaitGroup
	for i := uint32(1); i <= 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SetLastSeen(i)
			s.SetConnected(i%2 == 0)
		}()
	}
	wg.Wait()

	if got := s.LastSeen(); got < 1 || got > 50 {
		t.Errorf("last seen = %d, want one of the written values", got)
	}
}
