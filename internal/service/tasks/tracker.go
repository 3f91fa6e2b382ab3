// Package tasks tracks 조치필요 consultation records to completion.
package tasks

import (
	"context"
	"fmt"

	"coop_crm/internal/apperr"
	"coop_crm/internal/domain"
	"coop_crm/internal/model"

	"go.uber.org/zap"
)

type Tracker struct {
	store  domain.Store
	tables domain.TableSource
	audit  domain.AuditLog
	logger *zap.Logger
}

func New(store domain.Store, tables domain.TableSource, audit domain.AuditLog, logger *zap.Logger) *Tracker {
	return &Tracker{store: store, tables: tables, audit: audit, logger: logger}
}

type DepartmentGroup struct {
	Department string                     `json:"department"`
	Tasks      []model.ConsultationRecord `json:"tasks"`
}

// TaskRef identifies the row to complete. RecordID wins when the row carries
// one; older rows written before IDs existed resolve by (date, customer).
type TaskRef struct {
	RecordID   string `json:"record_id"`
	Date       string `json:"date"`
	CustomerID string `json:"customer_id"`
}

// Pending groups every 조치필요 record by destination department, departments
// ordered by first appearance in the sheet.
func (tr *Tracker) Pending(ctx context.Context) ([]DepartmentGroup, error) {
	t, err := tr.tables.Table(ctx, model.WSConsultations)
	if err != nil {
		return nil, err
	}

	var order []string
	byDept := make(map[string][]model.ConsultationRecord)
	for i := range t.Rows {
		rec := model.ConsultationFromRow(t, i)
		if rec.Status != model.StatusActionNeeded {
			continue
		}
		if _, seen := byDept[rec.Department]; !seen {
			order = append(order, rec.Department)
		}
		byDept[rec.Department] = append(byDept[rec.Department], rec)
	}

	out := make([]DepartmentGroup, 0, len(order))
	for _, dept := range order {
		out = append(out, DepartmentGroup{Department: dept, Tasks: byDept[dept]})
	}
	return out, nil
}

// Complete rewrites the matched row's 조치상태 to 완료 and its 조치결과 to
// "{result} ({actor})". The table is re-read from the store, not the cache,
// so row positions are live. Without a record ID the scan runs from the most
// recent row backward: duplicate (date, customer) pairs resolve to the most
// recently appended record.
func (tr *Tracker) Complete(ctx context.Context, ref TaskRef, resultText, actor string) error {
	if resultText == "" {
		return apperr.New(apperr.ValidationFailed, "조치 결과를 입력하세요")
	}

	t, err := tr.store.GetTable(ctx, model.WSConsultations)
	if err != nil {
		return err
	}

	row := tr.matchRow(t, ref)
	if row == 0 {
		return apperr.Newf(apperr.NotFound, "no consultation for %s/%s", ref.Date, ref.CustomerID)
	}

	if err := tr.store.UpdateCell(ctx, model.WSConsultations, row, model.ColStatus, model.StatusDone); err != nil {
		return err
	}
	final := fmt.Sprintf("%s (%s)", resultText, actor)
	if err := tr.store.UpdateCell(ctx, model.WSConsultations, row, model.ColResult, final); err != nil {
		return err
	}

	tr.audit.Record(ctx, actor, model.ActionComplete, ref.CustomerID+" 건 조치 완료")
	tr.tables.InvalidateAll()
	return nil
}

func (tr *Tracker) matchRow(t *model.Table, ref TaskRef) int {
	if ref.RecordID != "" {
		if idIdx, ok := t.Col(model.ColRecordID); ok {
			for i, row := range t.Rows {
				if idIdx < len(row) && row[idIdx] == ref.RecordID {
					return t.SheetRow(i)
				}
			}
		}
		return 0
	}

	dateIdx, okDate := t.Col(model.ColDate)
	custIdx, okCust := t.Col(model.ColCustomerID)
	if !okDate || !okCust {
		return 0
	}
	for i := len(t.Rows) - 1; i >= 0; i-- {
		row := t.Rows[i]
		if dateIdx < len(row) && custIdx < len(row) &&
			row[dateIdx] == ref.Date && row[custIdx] == ref.CustomerID {
			return t.SheetRow(i)
		}
	}
	return 0
}
