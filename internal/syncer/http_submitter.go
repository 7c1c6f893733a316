package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/pkg/e"
)

const idempotencyHeader = "Idempotency-Key"

// HTTPSubmitter воспроизводит действия через HTTP API сервиса
type HTTPSubmitter struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPSubmitter(baseURL string, timeout time.Duration) *HTTPSubmitter {
	return &HTTPSubmitter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Error  string         `json:"error"`
	Fields []e.FieldError `json:"fields,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *HTTPSubmitter) Submit(ctx context.Context, raw models.RawReport, idempotencyKey string) (*models.Incident, bool, error) {
	body, err := json.Marshal(raw)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal report: %w", err)
	}

	incident := &models.Incident{}
	status, err := s.do(ctx, http.MethodPost, "/incidents", idempotencyKey, body, incident)
	if err != nil {
		return nil, false, err
	}
	return incident, status == http.StatusCreated, nil
}

func (s *HTTPSubmitter) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Incident, error) {
	body, err := json.Marshal(statusRequest{Status: status})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status: %w", err)
	}

	incident := &models.Incident{}
	if _, err := s.do(ctx, http.MethodPatch, "/incidents/"+id.String()+"/status", "", body, incident); err != nil {
		return nil, err
	}
	return incident, nil
}

// do выполняет запрос и переводит коды ответа в таксономию ошибок:
// 400/404/409 постоянные, сеть и 5xx временные
func (s *HTTPSubmitter) do(ctx context.Context, method, path, idempotencyKey string, body []byte, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set(idempotencyHeader, idempotencyKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.Unmarshal(payload, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
		return resp.StatusCode, nil
	}

	var apiErr apiError
	_ = json.Unmarshal(payload, &apiErr)
	switch resp.StatusCode {
	case http.StatusBadRequest:
		if len(apiErr.Fields) > 0 {
			return resp.StatusCode, &e.ValidationError{Fields: apiErr.Fields}
		}
		return resp.StatusCode, fmt.Errorf("%s %s: %s: %w", method, path, apiErr.Error, e.ErrValidation)
	case http.StatusNotFound:
		return resp.StatusCode, fmt.Errorf("%s %s: %s: %w", method, path, apiErr.Error, e.ErrNotFound)
	case http.StatusConflict:
		return resp.StatusCode, fmt.Errorf("%s %s: %s: %w", method, path, apiErr.Error, e.ErrInvalidTransition)
	}
	return resp.StatusCode, fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
}
