package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/config"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

func newTestConfig(url string) *config.Config {
	return &config.Config{
		WebhookURL:        url,
		WebhookSecret:     "s3cret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
}

func TestGenerateHMACSHA256(t *testing.T) {
	sig := generateHMACSHA256([]byte(`{"seq":1}`), "key")
	assert.Len(t, sig, 64)
	assert.Equal(t, sig, generateHMACSHA256([]byte(`{"seq":1}`), "key"))
	assert.NotEqual(t, sig, generateHMACSHA256([]byte(`{"seq":2}`), "key"))
}

func TestProcessWebhookEvent_DeliversSignedPayload(t *testing.T) {
	payload := []byte(`{"seq":3,"kind":"incident_created"}`)
	var received atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, payload, body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, generateHMACSHA256(payload, "s3cret"), r.Header.Get(signatureHeader))
		received.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	worker := NewWebhookWorker(NewMemoryQueue(1), newTestLogger(), newTestConfig(server.URL))
	ok := worker.processWebhookEvent(context.Background(), WebhookEvent{Seq: 3}, payload)

	assert.True(t, ok)
	assert.Equal(t, int32(1), received.Load())
}

func TestProcessWebhookEvent_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	worker := NewWebhookWorker(NewMemoryQueue(1), newTestLogger(), newTestConfig(server.URL))
	ok := worker.processWebhookEvent(context.Background(), WebhookEvent{}, []byte(`{}`))

	assert.True(t, ok)
	assert.Equal(t, int32(3), calls.Load())
}

func TestProcessWebhookEvent_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	worker := NewWebhookWorker(NewMemoryQueue(1), newTestLogger(), newTestConfig(server.URL))
	ok := worker.processWebhookEvent(context.Background(), WebhookEvent{}, []byte(`{}`))

	assert.False(t, ok)
	assert.Equal(t, int32(3), calls.Load())
}

func TestProcessWebhookEvent_SkipsWithoutURL(t *testing.T) {
	worker := NewWebhookWorker(NewMemoryQueue(1), newTestLogger(), newTestConfig(""))

	assert.False(t, worker.processWebhookEvent(context.Background(), WebhookEvent{}, []byte(`{}`)))
}

func TestPublisherAndWorker_EndToEnd(t *testing.T) {
	delivered := make(chan WebhookEvent, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event WebhookEvent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		delivered <- event
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	queue := NewMemoryQueue(8)
	logger := newTestLogger()
	publisher := NewPublisher(queue, logger)
	worker := NewWebhookWorker(queue, logger, newTestConfig(server.URL))

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)

	incident := &models.Incident{ID: uuid.New(), Type: models.TypeKidnapping, Location: "Pantami"}
	publisher.Notify(ctx, &models.Event{
		Seq:         11,
		Kind:        models.EventIncidentCreated,
		AggregateID: incident.ID,
		Incident:    incident,
	})

	select {
	case event := <-delivered:
		assert.Equal(t, int64(11), event.Seq)
		assert.Equal(t, models.EventIncidentCreated, event.Kind)
		require.NotNil(t, event.Incident)
		assert.Equal(t, "Pantami", event.Incident.Location)
	case <-time.After(3 * time.Second):
		t.Fatal("webhook was not delivered")
	}

	cancel()
	worker.Wait()
}

func TestMemoryQueue(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, []byte("a")))
	assert.Error(t, q.Push(ctx, []byte("b")), "full queue must reject")

	got, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = q.Pop(canceled)
	assert.ErrorIs(t, err, context.Canceled)
}
