package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/maxiguillermo1/senior-project/internal/middleware"
	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/services"
	"github.com/maxiguillermo1/senior-project/internal/store"
)

type fakeSurveyArchive struct {
	recorded  []*models.DeleteSurveyResponse
	responses []models.DeleteSurveyResponse
	lastLimit int64
}

func (a *fakeSurveyArchive) Record(ctx context.Context, response *models.DeleteSurveyResponse) error {
	a.recorded = append(a.recorded, response)
	return nil
}

func (a *fakeSurveyArchive) RecentResponses(ctx context.Context, limit int64) ([]models.DeleteSurveyResponse, error) {
	a.lastLimit = limit
	return a.responses, nil
}

func authedRequest(method, target string, body []byte, userID, email string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	if email != "" {
		ctx = context.WithValue(ctx, middleware.UserEmailKey, email)
	}
	return req.WithContext(ctx)
}

func TestAccountHandlerDeleteAccount(t *testing.T) {
	docs, err := store.NewFileStore(t.TempDir(), "docs.json")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := docs.Set(context.Background(), "users/u1", map[string]interface{}{"displayName": "Alice"}); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core).Sugar()
	archive := &fakeSurveyArchive{}
	accounts := services.NewAccountService(docs, archive, nil, logger)
	h := NewAccountHandler(accounts, archive, logger)

	body, _ := json.Marshal(models.DeleteAccountRequest{Reason: models.DeleteSurveyReasons[0]})
	req := authedRequest(http.MethodDelete, "/api/account", body, "u1", "alice@example.com")
	rec := httptest.NewRecorder()
	h.DeleteAccount(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if len(archive.recorded) != 1 {
		t.Errorf("recorded %d survey responses, want 1", len(archive.recorded))
	}

	// The audit entry carries the caller's email from the request context.
	entries := logs.FilterMessage("account deletion requested").All()
	if len(entries) != 1 {
		t.Fatalf("audit log entries = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["email"]; got != "alice@example.com" {
		t.Errorf("logged email = %v, want alice@example.com", got)
	}
}

func TestAccountHandlerRecentSurveys(t *testing.T) {
	archive := &fakeSurveyArchive{
		responses: []models.DeleteSurveyResponse{
			{UID: "u1", Reason: models.DeleteSurveyReasons[1], Timestamp: time.Now().UTC()},
		},
	}
	h := NewAccountHandler(nil, archive, zap.NewNop().Sugar())

	req := authedRequest(http.MethodGet, "/api/admin/surveys?limit=5", nil, "ops", "")
	rec := httptest.NewRecorder()
	h.RecentSurveys(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if archive.lastLimit != 5 {
		t.Errorf("limit passed to archive = %d, want 5", archive.lastLimit)
	}
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	rows, ok := resp.Data.([]interface{})
	if !ok || len(rows) != 1 {
		t.Errorf("Data = %+v, want one survey row", resp.Data)
	}
}

func TestAccountHandlerRecentSurveysValidation(t *testing.T) {
	archive := &fakeSurveyArchive{}
	h := NewAccountHandler(nil, archive, zap.NewNop().Sugar())

	t.Run("bad limit", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/admin/surveys?limit=0", nil, "ops", "")
		rec := httptest.NewRecorder()
		h.RecentSurveys(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("no archive configured", func(t *testing.T) {
		bare := NewAccountHandler(nil, nil, zap.NewNop().Sugar())
		req := authedRequest(http.MethodGet, "/api/admin/surveys", nil, "ops", "")
		rec := httptest.NewRecorder()
		bare.RecentSurveys(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}
