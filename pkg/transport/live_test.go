package transport

import (
	"sync/atomic"
	"testing"
)

func TestLiveChannelDispatch(t *testing.T) {
	var changes atomic.Int32
	c := NewLiveChannel("ws://unused", "key-123", func() { changes.Add(1) }, false)

	c.handleMessage([]byte(`{"type":"registered"}`))
	if !c.authenticated {
		t.Error("registered frame should authenticate")
	}

	c.handleMessage([]byte(`{"type":"breakpoints_changed","payload":{"reason":"created"}}`))
	c.handleMessage([]byte(`{"type":"breakpoints_changed"}`))
	if got := changes.Load(); got != 2 {
		t.Errorf("onChange calls = %d, want 2", got)
	}

	// Unknown and malformed frames are dropped quietly.
	c.handleMessage([]byte(`{"type":"telemetry"}`))
	c.handleMessage([]byte(`not json at all`))
	c.handleMessage([]byte(`{}`))
	if got := changes.Load(); got != 2 {
		t.Errorf("onChange calls = %d after junk frames, want 2", got)
	}
}

func TestLiveChannelAuthErrorCloses(t *testing.T) {
	c := NewLiveChannel("ws://unused", "key-123", nil, false)

	c.handleMessage([]byte(`{"type":"error","payload":{"code":"invalid_api_key","message":"nope"}}`))

	select {
	case <-c.done:
	default:
		t.Error("auth error should close the channel permanently")
	}
}

func TestLiveChannelNonAuthErrorKeepsRunning(t *testing.T) {
	c := NewLiveChannel("ws://unused", "key-123", nil, false)

	c.handleMessage([]byte(`{"type":"error","payload":{"code":"rate_limited","message":"slow down"}}`))

	select {
	case <-c.done:
		t.Error("transient backend error must not close the channel")
	default:
	}
}
