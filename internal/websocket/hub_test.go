package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"project-ledger-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHub_BroadcastFingerprint(t *testing.T) {
	hub := startHub(t)

	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	hub.Register(a)
	hub.Register(b)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.BroadcastFingerprint("1A2B3C4D", 7)

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.Send:
			var msg struct {
				Type string             `json:"type"`
				Data FingerprintPayload `json:"data"`
			}
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, "fingerprint", msg.Type)
			assert.Equal(t, "1A2B3C4D", msg.Data.Fingerprint)
			assert.Equal(t, uint64(7), msg.Data.Seq)
		case <-time.After(time.Second):
			t.Fatal("no push received")
		}
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := startHub(t)

	c := NewClient(hub, nil)
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i <= sendBuffer; i++ {
		hub.BroadcastFingerprint("AAAAAAAA", uint64(i))
	}

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)

	c := NewClient(hub, nil)
	hub.Register(c)
	hub.Unregister(c)

	_, open := <-c.Send
	assert.False(t, open)
	assert.Zero(t, hub.ClientCount())
}
