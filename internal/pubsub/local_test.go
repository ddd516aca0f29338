package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestLocal_DeliversMsgpackPayload(t *testing.T) {
	l := NewLocal()

	var (
		mu  sync.Mutex
		got []GameEnded
	)
	l.Subscribe(EventGameEnded, func(ctx context.Context, data []byte) error {
		var evt GameEnded
		if err := l.ProcessMessage(data, &evt); err != nil {
			return err
		}
		mu.Lock()
		got = append(got, evt)
		mu.Unlock()
		return nil
	})
	l.Subscribe(EventGameEnded, func(ctx context.Context, data []byte) error {
		return errors.New("second subscriber fails without affecting the first")
	})

	require.NoError(t, l.SendMessage(EventGameEnded, GameEnded{GameID: 42}))
	l.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, int64(42), got[0].GameID)
}

func TestLocal_NoSubscribers(t *testing.T) {
	l := NewLocal()
	assert.NoError(t, l.SendMessage(EventGameEnded, GameEnded{GameID: 1}))
	l.Wait()
}

func TestPushEnvelope_DecodesBase64Data(t *testing.T) {
	payload, err := msgpack.Marshal(GameEnded{GameID: 9, DryRun: true})
	require.NoError(t, err)

	body, err := json.Marshal(map[string]any{
		"message":      map[string]any{"data": payload, "messageId": "1"},
		"subscription": "projects/p/subscriptions/game-ended",
	})
	require.NoError(t, err)

	var env PushEnvelope
	require.NoError(t, json.Unmarshal(body, &env))

	var evt GameEnded
	require.NoError(t, NewLocal().ProcessMessage(env.Message.Data, &evt))
	assert.Equal(t, GameEnded{GameID: 9, DryRun: true}, evt)
	assert.Equal(t, "1", env.Message.MessageID)
}

func TestMock_RecordsCalls(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.SendMessage(EventGameEnded, GameEnded{GameID: 3}))
	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, EventGameEnded, calls[0].Topic)
}
