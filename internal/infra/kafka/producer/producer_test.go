package producer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"
	"gitlab.com/tozd/go/errors"

	"github.com/aliskhannn/image-augmentor/internal/model"
)

type message struct {
	key, value []byte
}

// fakeClient fails the first failures sends and honours the retry strategy
// the way wbfkafka.Producer does.
type fakeClient struct {
	failures int
	calls    int
	msgs     []message
	closed   bool
}

func (w *fakeClient) SendWithRetry(_ context.Context, s retry.Strategy, key, value []byte) error {
	return retry.Do(func() error {
		w.calls++
		if w.calls <= w.failures {
			return errors.New("broker unavailable")
		}
		w.msgs = append(w.msgs, message{key: key, value: value})

		return nil
	}, s)
}

func (w *fakeClient) Close() error {
	w.closed = true
	return nil
}

var strategy = retry.Strategy{Attempts: 3, Delay: time.Millisecond, Backoff: 1}

func TestProducer_Produced(t *testing.T) {
	w := &fakeClient{failures: 1}
	runID := uuid.New()
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	p := newProducer(w, strategy)
	p.now = func() time.Time { return createdAt }

	err := p.Produced(context.Background(), model.Output{
		RunID:  runID,
		Root:   "/data",
		Dir:    "/data/cats",
		Source: "cat.png",
		Name:   "cat__blur_2.0__noise_0.05.png",
		Codes:  []string{"blur_2.0", "noise_0.05"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, w.calls, "first failure must be retried")
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, runID.String(), string(msg.key))

	var ev model.Event
	require.NoError(t, json.Unmarshal(msg.value, &ev))
	assert.NotEqual(t, uuid.Nil, ev.ID)
	assert.Equal(t, runID, ev.RunID)
	assert.Equal(t, model.EventAugmented, ev.Type)
	assert.Equal(t, "/data/cats", ev.Dir)
	assert.Equal(t, "cat.png", ev.Source)
	assert.Equal(t, "cat__blur_2.0__noise_0.05.png", ev.Output)
	assert.Equal(t, []string{"blur_2.0", "noise_0.05"}, ev.Codes)
	assert.True(t, createdAt.Equal(ev.CreatedAt))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_ProducedGivesUp(t *testing.T) {
	w := &fakeClient{failures: 100}
	p := newProducer(w, strategy)

	err := p.Produced(context.Background(), model.Output{Name: "cat__fliph.png"})
	require.Error(t, err)
	assert.Empty(t, w.msgs)
}
