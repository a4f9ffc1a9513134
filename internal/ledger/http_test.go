package ledger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(s Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHTTPHandler(s, 20).RegisterRoutes(r)
	return r
}

func TestHTTPHandler_ListsHistory(t *testing.T) {
	s := NewMemoryService()
	for _, rec := range sampleRecords() {
		s.RecordTournament(rec)
	}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/history/1?limit=5", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Items []HistoryItem `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Items) != 2 || body.Items[0].ID != "rec-2" {
		t.Fatalf("unexpected items: %+v", body.Items)
	}
}

func TestHTTPHandler_RejectsBadPlayerID(t *testing.T) {
	r := newTestRouter(NewMemoryService())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/history/abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
