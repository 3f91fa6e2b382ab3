package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coop_crm/internal/model"
	"coop_crm/internal/service/audit"
	"coop_crm/internal/service/auth"
	"coop_crm/internal/service/consult"
	"coop_crm/internal/service/customer"
	"coop_crm/internal/service/sheet/sheettest"
	"coop_crm/internal/service/tablecache"
	"coop_crm/internal/service/tasks"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T) (*gin.Engine, *sheettest.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := sheettest.New()
	store.Seed(model.WSUsers,
		[]string{model.ColUserID, model.ColPassword, model.ColName},
		[]string{"admin", "1234", "관리자"},
	)
	store.Seed(model.WSCustomers,
		[]string{model.ColCustomerID, model.ColName, model.ColContact, model.ColTags},
		[]string{"C001", "김조합", "010-1111-2222", "VIP"},
	)
	store.Seed(model.WSConsultations, model.ConsultationHeaders)
	store.Seed(model.WSAuditLog, []string{"시간", "사용자", "작업", "내용"})

	logger := zaptest.NewLogger(t)
	tables := tablecache.New(store, 10*time.Minute, logger)
	auditor := audit.New(store, logger)
	authSvc := auth.New(tables, auditor, auth.NewSessionStore(time.Hour), logger)
	consultSvc := consult.New(store, tables, auditor, nil, nil, logger)
	tracker := tasks.New(store, tables, auditor, logger)
	custSvc := customer.New(store, tables, auditor, logger)

	srv := New(authSvc, consultSvc, tracker, custSvc, tables, auditor, logger)
	return srv.Router(), store
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(HeaderToken, token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/login", "", map[string]string{
		"id": "admin", "password": "1234",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Name != "관리자" || resp.Token == "" {
		t.Fatalf("login response: %+v", resp)
	}
	return resp.Token
}

func TestLoginAndProtectedRoute(t *testing.T) {
	r, _ := newTestServer(t)

	// wrong password
	w := doJSON(t, r, http.MethodPost, "/api/login", "", map[string]string{
		"id": "admin", "password": "wrongpw",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d", w.Code)
	}

	// no token
	w = doJSON(t, r, http.MethodGet, "/api/feed", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("tokenless request status = %d", w.Code)
	}

	token := login(t, r)
	w = doJSON(t, r, http.MethodGet, "/api/feed", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("feed status = %d: %s", w.Code, w.Body.String())
	}
}

func TestSearchEndpoint(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/customers?q=C001", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "김조합") {
		t.Errorf("search body = %s", w.Body.String())
	}

	// opt-in search: nothing without query or tags
	w = doJSON(t, r, http.MethodGet, "/api/customers", token, nil)
	var resp struct {
		Customers []model.Customer `json:"customers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Customers) != 0 {
		t.Errorf("unfiltered search returned %d customers", len(resp.Customers))
	}
}

func TestSaveNoteAndTaskFlow(t *testing.T) {
	r, store := newTestServer(t)
	token := login(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/consultations", token, map[string]interface{}{
		"date":        "2024-03-02",
		"customer_id": "C001",
		"raw_text":    "임도 보수 요청",
		"follow_up":   true,
		"department":  "지도과",
		"request":     "현장 방문 필요",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("save status = %d: %s", w.Code, w.Body.String())
	}
	var saved struct {
		RecordID string `json:"record_id"`
		Status   string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatal(err)
	}
	if saved.Status != model.StatusActionNeeded {
		t.Errorf("status = %q", saved.Status)
	}

	// the task shows up grouped under 지도과
	w = doJSON(t, r, http.MethodGet, "/api/tasks", token, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "지도과") {
		t.Fatalf("tasks = %d: %s", w.Code, w.Body.String())
	}

	// complete it by record id
	w = doJSON(t, r, http.MethodPost, "/api/tasks/complete", token, map[string]string{
		"record_id": saved.RecordID,
		"result":    "방문 완료",
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("complete status = %d: %s", w.Code, w.Body.String())
	}
	if got := store.Cell(model.WSConsultations, 2, model.ColResult); got != "방문 완료 (관리자)" {
		t.Errorf("result cell = %q", got)
	}
}

func TestSaveNoteFollowUpNeedsDepartment(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/consultations", token, map[string]interface{}{
		"date":        "2024-03-02",
		"customer_id": "C001",
		"raw_text":    "내용",
		"follow_up":   true,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCustomerDetailAuditsFirstViewOnly(t *testing.T) {
	r, store := newTestServer(t)
	token := login(t, r)
	before := store.RowCount(model.WSAuditLog)

	for i := 0; i < 3; i++ {
		if w := doJSON(t, r, http.MethodGet, "/api/customers/C001", token, nil); w.Code != http.StatusOK {
			t.Fatalf("detail status = %d", w.Code)
		}
	}
	if got := store.RowCount(model.WSAuditLog) - before; got != 1 {
		t.Errorf("view audited %d times, want 1", got)
	}
}

func TestCompleteUnknownTask(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/tasks/complete", token, map[string]string{
		"date": "2024-01-01", "customer_id": "C009", "result": "결과",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
