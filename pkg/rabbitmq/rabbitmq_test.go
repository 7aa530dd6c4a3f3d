package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAck struct {
	acked, nacked, requeued bool
}

func (f *fakeAck) Ack(bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(_, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("store.product.attached", map[string]int64{"storeId": 1, "productId": 2})
	require.NoError(t, err)

	assert.Equal(t, "store.product.attached", event.Name)
	assert.Len(t, event.ID, 36)
	assert.False(t, event.OccurredAt.IsZero())
	assert.JSONEq(t, `{"storeId":1,"productId":2}`, string(event.Payload))
}

func TestNewEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewEvent("product.created", make(chan int))
	assert.Error(t, err)
}

func TestSettle(t *testing.T) {
	event, err := NewEvent("product.deleted", map[string]int64{"id": 3})
	require.NoError(t, err)
	body, err := json.Marshal(event)
	require.NoError(t, err)

	t.Run("acks handled events", func(t *testing.T) {
		ack := &fakeAck{}
		var got Event
		settle(ack, 1, body, func(e Event) error {
			got = e
			return nil
		})
		assert.True(t, ack.acked)
		assert.False(t, ack.nacked)
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, "product.deleted", got.Name)
	})

	t.Run("nacks handler failures without requeue", func(t *testing.T) {
		ack := &fakeAck{}
		settle(ack, 2, body, func(Event) error { return errors.New("boom") })
		assert.False(t, ack.acked)
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeued)
	})

	t.Run("nacks malformed bodies", func(t *testing.T) {
		ack := &fakeAck{}
		called := false
		settle(ack, 3, []byte("not json"), func(Event) error {
			called = true
			return nil
		})
		assert.False(t, called)
		assert.True(t, ack.nacked)
	})
}

func TestLogEvent(t *testing.T) {
	event, err := NewEvent("store.created", map[string]string{"name": "A"})
	require.NoError(t, err)
	assert.NoError(t, LogEvent(event))
}
