package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookshop/internal/config"
)

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	require.NoError(t, p.PublishEvent(context.Background(), TopicUsers, "1", Event{Type: UserRegistered}))
	require.NoError(t, p.Close())
}

func TestNewProducer_NoBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	require.Error(t, err)
}

func TestProducer_MarshalError(t *testing.T) {
	p, err := NewProducer([]string{"127.0.0.1:1"})
	require.NoError(t, err)
	defer p.Close()

	err = p.PublishEvent(context.Background(), TopicUsers, "1", make(chan int))
	require.ErrorContains(t, err, "json.Marshal")
}

func TestEvent_JSON(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	data, err := json.Marshal(Event{Type: CartItemAdded, UserID: 1, BookID: 2, Quantity: 1, At: at})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"cart_item_added","user_id":1,"book_id":2,"quantity":1,"at":"2024-01-02T03:04:05Z"}`, string(data))
}

// Needs a reachable broker, e.g. KAFKA_BROKERS=localhost:9092.
func TestProducer_Kafka(t *testing.T) {
	brokers := config.CSV(os.Getenv("KAFKA_BROKERS"))
	if len(brokers) == 0 {
		t.Skip("KAFKA_BROKERS not set")
	}

	p, err := NewProducer(brokers)
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()
	topic := TopicUsers
	key := "events-test-" + time.Now().Format("150405.000000")
	require.NoError(t, p.PublishEvent(ctx, topic, key, Event{Type: UserRegistered, UserID: 42, At: time.Now().UTC()}))

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer r.Close()
	require.NoError(t, r.SetOffset(kafka.FirstOffset))

	readCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	for {
		m, err := r.ReadMessage(readCtx)
		if err != nil {
			t.Skipf("message not seen on partition 0: %v", err)
		}
		if string(m.Key) != key {
			continue
		}
		var ev Event
		require.NoError(t, json.Unmarshal(m.Value, &ev))
		assert.Equal(t, int64(42), ev.UserID)
		return
	}
}
