package ws

import (
	"testing"
	"time"

	"dinehall-pos-services/internal/config"

	"go.uber.org/zap"
)

func TestPollLoopStopsOnClose(t *testing.T) {
	s := New(nil, zap.NewNop(), config.Config{WSFloorPollInterval: 5 * time.Millisecond})

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.pollLoop(s.stopCtx)
	}()

	// Let it tick a few times with no clients; nothing should block.
	time.Sleep(20 * time.Millisecond)
	s.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poll loop kept running after Close")
	}
}
