package pubsub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribers(t *testing.T) {
	b := GetBroker()

	ch, unsubscribe := b.Subscribe("topic-a")
	defer unsubscribe()

	b.Publish("topic-a", FormatMessage("stream1", "hello"))

	select {
	case msg := <-ch:
		var event Event
		require.NoError(t, json.Unmarshal(msg, &event))
		assert.Equal(t, "stream1", event.Stream)
		assert.Equal(t, "hello", event.Data)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	b := GetBroker()

	ch, unsubscribe := b.Subscribe("topic-b")
	defer unsubscribe()

	b.Publish("topic-c", FormatMessage("stream1", "nope"))

	select {
	case <-ch:
		t.Fatal("received message for another topic")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := GetBroker()

	ch, unsubscribe := b.Subscribe("topic-d")
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)
}
