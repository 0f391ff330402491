package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func lastPresence(t *testing.T, s *fakeSession) []string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.frames)
	var env struct {
		Event string   `json:"event"`
		Data  []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(s.frames[len(s.frames)-1], &env))
	require.Equal(t, EventOnlineUsers, env.Event)
	return env.Data
}

func TestHub_PresenceBroadcastOnConnectAndDisconnect(t *testing.T) {
	h := NewHub()

	a := &fakeSession{}
	h.Connect("a", a)
	require.Equal(t, []string{"a"}, lastPresence(t, a))

	b := &fakeSession{}
	h.Connect("b", b)
	require.Equal(t, []string{"a", "b"}, lastPresence(t, a))
	require.Equal(t, []string{"a", "b"}, lastPresence(t, b))

	h.Disconnect("b", b)
	require.Equal(t, []string{"a"}, lastPresence(t, a))
}

func TestHub_ReconnectClosesReplacedSession(t *testing.T) {
	h := NewHub()

	old := &fakeSession{}
	h.Connect("u-1", old)

	fresh := &fakeSession{}
	h.Connect("u-1", fresh)
	require.True(t, old.closed)

	// The stale connection's disconnect fires late; the newer binding and the
	// online set must survive, with no extra broadcast.
	framesBefore := len(fresh.frames)
	h.Disconnect("u-1", old)
	require.Equal(t, []string{"u-1"}, h.OnlineIDs())
	require.Len(t, fresh.frames, framesBefore)

	h.Disconnect("u-1", fresh)
	require.Empty(t, h.OnlineIDs())
}
