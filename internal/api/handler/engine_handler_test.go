package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/service"
	"github.com/google/uuid"
)

func TestEngineHandler_RunPass(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		userID         string
		mockEngine     *MockEngine
		wantStatusCode int
	}{
		{
			name:   "pass completes",
			userID: userID.String(),
			mockEngine: &MockEngine{
				runFunc: func(ctx context.Context, uid uuid.UUID) (*domain.PassResult, error) {
					return &domain.PassResult{UserID: uid, PatternsCreated: 1, RulesCreated: 1, InsightsEmitted: 1}, nil
				},
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "pass already running",
			userID: userID.String(),
			mockEngine: &MockEngine{
				runFunc: func(ctx context.Context, uid uuid.UUID) (*domain.PassResult, error) {
					return nil, fmt.Errorf("user %s: %w", uid, domain.ErrPassInProgress)
				},
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:   "event feed down",
			userID: userID.String(),
			mockEngine: &MockEngine{
				runFunc: func(ctx context.Context, uid uuid.UUID) (*domain.PassResult, error) {
					return nil, domain.Upstream("list events", fmt.Errorf("dial tcp: refused"))
				},
			},
			wantStatusCode: http.StatusServiceUnavailable,
		},
		{
			name:           "invalid user ID",
			userID:         "bad",
			mockEngine:     &MockEngine{},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewEngineHandler(tt.mockEngine)

			req := httptest.NewRequest(http.MethodPost, "/v1/users/"+tt.userID+"/detection-passes", nil)
			req = withURLParams(req, map[string]string{"userId": tt.userID})
			rec := httptest.NewRecorder()

			handler.RunPass(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("RunPass() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestEngineHandler_Revalidate(t *testing.T) {
	userID := uuid.New()
	handler := NewEngineHandler(&MockEngine{
		revalidateFunc: func(ctx context.Context, uid uuid.UUID) (*service.RevalidationResult, error) {
			return &service.RevalidationResult{UserID: uid, Checked: 2, Weakened: 1}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/users/"+userID.String()+"/revalidations", nil)
	req = withURLParams(req, map[string]string{"userId": userID.String()})
	rec := httptest.NewRecorder()

	handler.Revalidate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Revalidate() status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got service.RevalidationResult
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Checked != 2 || got.Weakened != 1 {
		t.Errorf("result = %+v", got)
	}
}
