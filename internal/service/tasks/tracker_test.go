package tasks

import (
	"context"
	"testing"
	"time"

	"coop_crm/internal/apperr"
	"coop_crm/internal/model"
	"coop_crm/internal/service/audit"
	"coop_crm/internal/service/sheet/sheettest"
	"coop_crm/internal/service/tablecache"

	"go.uber.org/zap/zaptest"
)

// history columns used by these tests, in default order
func seedHistory(store *sheettest.Store, rows ...[]string) {
	store.Seed(model.WSConsultations, model.ConsultationHeaders, rows...)
	store.Seed(model.WSAuditLog, []string{"시간", "사용자", "작업", "내용"})
}

func histRow(id, date, custID, name, status, dept, request string) []string {
	rec := model.ConsultationRecord{
		RecordID:     id,
		Date:         date,
		CustomerID:   custID,
		CustomerName: name,
		Status:       status,
		Department:   dept,
		Request:      request,
	}
	return rec.ToRow(model.ConsultationHeaders)
}

func newTracker(t *testing.T, store *sheettest.Store) *Tracker {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return New(store, tablecache.New(store, 10*time.Minute, logger), audit.New(store, logger), logger)
}

func TestPendingGroupsByDepartment(t *testing.T) {
	store := sheettest.New()
	seedHistory(store,
		histRow("r1", "2024-01-01", "C001", "김조합", model.StatusActionNeeded, "지도과", "현장 방문 필요"),
		histRow("r2", "2024-01-02", "C002", "박고객", model.StatusDone, "-", ""),
		histRow("r3", "2024-01-03", "C003", "이고객", model.StatusActionNeeded, "금융과", "한도 확인"),
		histRow("r4", "2024-01-04", "C004", "최고객", model.StatusActionNeeded, "지도과", "묘목 지원"),
	)
	tr := newTracker(t, store)

	groups, err := tr.Pending(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Department != "지도과" || len(groups[0].Tasks) != 2 {
		t.Errorf("first group = %q with %d tasks", groups[0].Department, len(groups[0].Tasks))
	}
	if groups[1].Department != "금융과" || len(groups[1].Tasks) != 1 {
		t.Errorf("second group = %q with %d tasks", groups[1].Department, len(groups[1].Tasks))
	}
}

func TestCompleteNoMatch(t *testing.T) {
	store := sheettest.New()
	seedHistory(store,
		histRow("r1", "2024-01-01", "C001", "김조합", model.StatusActionNeeded, "지도과", ""),
	)
	tr := newTracker(t, store)

	err := tr.Complete(context.Background(), TaskRef{Date: "2024-02-02", CustomerID: "C001"}, "결과", "담당자")
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("want NotFound, got %v", err)
	}
	// no write may have happened
	if got := store.Cell(model.WSConsultations, 2, model.ColStatus); got != model.StatusActionNeeded {
		t.Errorf("status changed to %q on a failed match", got)
	}
}

// Two rows sharing (date, customer): the backward scan must resolve the most
// recently appended one.
func TestCompleteDuplicateResolvesNewest(t *testing.T) {
	store := sheettest.New()
	seedHistory(store,
		histRow("", "2024-01-01", "C001", "김조합", model.StatusActionNeeded, "지도과", "첫번째"),
		histRow("", "2024-01-01", "C001", "김조합", model.StatusActionNeeded, "지도과", "두번째"),
	)
	tr := newTracker(t, store)

	if err := tr.Complete(context.Background(), TaskRef{Date: "2024-01-01", CustomerID: "C001"}, "방문 완료", "지도과장"); err != nil {
		t.Fatal(err)
	}

	if got := store.Cell(model.WSConsultations, 3, model.ColStatus); got != model.StatusDone {
		t.Errorf("newest row status = %q, want 완료", got)
	}
	if got := store.Cell(model.WSConsultations, 2, model.ColStatus); got != model.StatusActionNeeded {
		t.Errorf("older duplicate touched: status = %q", got)
	}
	if got := store.Cell(model.WSConsultations, 3, model.ColResult); got != "방문 완료 (지도과장)" {
		t.Errorf("result = %q", got)
	}
}

func TestCompleteByRecordID(t *testing.T) {
	store := sheettest.New()
	seedHistory(store,
		histRow("r1", "2024-01-01", "C001", "김조합", model.StatusActionNeeded, "지도과", "첫번째"),
		histRow("r2", "2024-01-01", "C001", "김조합", model.StatusActionNeeded, "지도과", "두번째"),
	)
	tr := newTracker(t, store)

	// the ID pins the older row even though the scan would pick the newer one
	if err := tr.Complete(context.Background(), TaskRef{RecordID: "r1"}, "처리", "담당자"); err != nil {
		t.Fatal(err)
	}
	if got := store.Cell(model.WSConsultations, 2, model.ColStatus); got != model.StatusDone {
		t.Errorf("row r1 status = %q, want 완료", got)
	}
	if got := store.Cell(model.WSConsultations, 3, model.ColStatus); got != model.StatusActionNeeded {
		t.Errorf("row r2 touched: %q", got)
	}
}

func TestCompleteUnknownRecordIDDoesNotFallBack(t *testing.T) {
	store := sheettest.New()
	seedHistory(store,
		histRow("r1", "2024-01-01", "C001", "김조합", model.StatusActionNeeded, "지도과", ""),
	)
	tr := newTracker(t, store)

	err := tr.Complete(context.Background(),
		TaskRef{RecordID: "missing", Date: "2024-01-01", CustomerID: "C001"}, "결과", "담당자")
	if !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("an explicit record ID must not fall back to the scan: %v", err)
	}
}

func TestCompleteEmptyResultRejected(t *testing.T) {
	store := sheettest.New()
	seedHistory(store,
		histRow("r1", "2024-01-01", "C001", "김조합", model.StatusActionNeeded, "지도과", ""),
	)
	tr := newTracker(t, store)

	err := tr.Complete(context.Background(), TaskRef{RecordID: "r1"}, "", "담당자")
	if !apperr.Is(err, apperr.ValidationFailed) {
		t.Fatalf("want ValidationFailed, got %v", err)
	}
}

func TestCompleteInvalidatesCache(t *testing.T) {
	store := sheettest.New()
	seedHistory(store,
		histRow("r1", "2024-01-01", "C001", "김조합", model.StatusActionNeeded, "지도과", ""),
	)
	logger := zaptest.NewLogger(t)
	tables := tablecache.New(store, 10*time.Minute, logger)
	tr := New(store, tables, audit.New(store, logger), logger)
	ctx := context.Background()

	// warm the cache, then complete, then read through the cache again
	if _, err := tr.Pending(ctx); err != nil {
		t.Fatal(err)
	}
	if err := tr.Complete(ctx, TaskRef{RecordID: "r1"}, "처리", "담당자"); err != nil {
		t.Fatal(err)
	}
	groups, err := tr.Pending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 0 {
		t.Errorf("completed task still pending through the cache: %v", groups)
	}
}
