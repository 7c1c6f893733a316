package syncer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSubmitter_Submit(t *testing.T) {
	id := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/incidents", r.URL.Path)
		assert.Equal(t, "abc", r.Header.Get("Idempotency-Key"))

		var raw models.RawReport
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, "Market", raw.Location)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Incident{ID: id, Location: raw.Location})
	}))
	defer server.Close()

	s := NewHTTPSubmitter(server.URL+"/api/v1/", time.Second)
	incident, created, err := s.Submit(context.Background(), *report("Market"), "abc")

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, id, incident.ID)
}

func TestHTTPSubmitter_ErrorMapping(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		body      string
		permanent bool
		target    error
	}{
		{"validation", http.StatusBadRequest, `{"error":"validation failed","fields":[{"field":"location","reason":"is required"}]}`, true, e.ErrValidation},
		{"not found", http.StatusNotFound, `{"error":"not found"}`, true, e.ErrNotFound},
		{"conflict", http.StatusConflict, `{"error":"invalid transition"}`, true, e.ErrInvalidTransition},
		{"server error", http.StatusBadGateway, `oops`, false, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPatch, r.Method)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			s := NewHTTPSubmitter(server.URL, time.Second)
			_, err := s.UpdateStatus(context.Background(), uuid.New(), "resolved")

			require.Error(t, err)
			assert.Equal(t, tc.permanent, e.IsPermanent(err))
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
		})
	}
}

func TestHTTPSubmitter_NetworkErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	s := NewHTTPSubmitter(url, 200*time.Millisecond)
	_, _, err := s.Submit(context.Background(), *report("Market"), "abc")

	require.Error(t, err)
	assert.False(t, e.IsPermanent(err))
}
