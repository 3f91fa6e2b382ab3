// Package consult owns the consultation-note pipeline and 상담이력 reads.
package consult

import (
	"context"

	"coop_crm/internal/apperr"
	"coop_crm/internal/domain"
	"coop_crm/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	store    domain.Store
	tables   domain.TableSource
	audit    domain.AuditLog
	refiner  domain.Refiner  // nil: AI disabled
	notifier domain.Notifier // nil: notifications disabled
	logger   *zap.Logger
	newID    func() string
}

func New(store domain.Store, tables domain.TableSource, audit domain.AuditLog,
	refiner domain.Refiner, notifier domain.Notifier, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		tables:   tables,
		audit:    audit,
		refiner:  refiner,
		notifier: notifier,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

type SaveInput struct {
	Date         string `json:"date" binding:"required"`
	Writer       string `json:"-"`
	CustomerID   string `json:"customer_id" binding:"required"`
	CustomerName string `json:"customer_name"`
	Contact      string `json:"contact"`
	RawText      string `json:"raw_text"`
	FollowUp     bool   `json:"follow_up"`
	Department   string `json:"department"`
	Request      string `json:"request"`
}

type SaveResult struct {
	RecordID string `json:"record_id"`
	Status   string `json:"status"`
	// AIError carries a user-visible message when the rewrite call failed;
	// the note is still saved with the raw text.
	AIError string `json:"ai_error,omitempty"`
}

// Save runs the note pipeline: optional AI rewrite, history append, tag merge
// into the customer row, audit, cache flush. The append and the tag merge are
// two independent remote writes; there is no joint atomicity.
func (s *Service) Save(ctx context.Context, in SaveInput) (SaveResult, error) {
	if in.RawText == "" {
		return SaveResult{}, apperr.New(apperr.ValidationFailed, "상담 내용이 비어 있습니다")
	}

	status := model.StatusDone
	dept := "-"
	if in.FollowUp {
		status = model.StatusActionNeeded
		dept = in.Department
	}

	var ref model.Refinement
	var aiErr string
	if s.refiner != nil {
		var err error
		ref, err = s.refiner.Refine(ctx, in.RawText)
		if err != nil {
			// Non-fatal: surface the message, save the raw text.
			aiErr = "AI 분석 실패: 원본 내용으로 저장합니다"
			s.logger.Warn("refinement failed", zap.String("customer_id", in.CustomerID), zap.Error(err))
		}
	}

	rec := model.ConsultationRecord{
		RecordID:     s.newID(),
		Date:         in.Date,
		Writer:       in.Writer,
		CustomerID:   in.CustomerID,
		CustomerName: in.CustomerName,
		Contact:      in.Contact,
		RawText:      in.RawText,
		Polished:     ref.Polished,
		Summary:      ref.Summary,
		Tags:         ref.Tags,
		Department:   dept,
		Status:       status,
		Request:      in.Request,
	}

	headers, err := s.consultationHeaders(ctx)
	if err != nil {
		return SaveResult{}, err
	}
	if err := s.store.AppendRow(ctx, model.WSConsultations, rec.ToRow(headers)); err != nil {
		return SaveResult{}, err
	}

	if ref.Tags != "" {
		s.mergeCustomerTags(ctx, in.CustomerID, ref.Tags)
	}

	s.audit.Record(ctx, in.Writer, model.ActionSaveNote,
		in.CustomerName+"("+in.CustomerID+") 상담 저장")
	s.tables.InvalidateAll()

	if in.FollowUp && s.notifier != nil {
		s.notifier.TaskRequested(ctx, dept, in.CustomerName, in.Request, in.Writer)
	}

	return SaveResult{RecordID: rec.RecordID, Status: status, AIError: aiErr}, nil
}

// consultationHeaders reads the live header row; a brand-new worksheet falls
// back to the default column order.
func (s *Service) consultationHeaders(ctx context.Context) ([]string, error) {
	t, err := s.store.GetTable(ctx, model.WSConsultations)
	if err != nil {
		return nil, err
	}
	if len(t.Headers) == 0 {
		return model.ConsultationHeaders, nil
	}
	return t.Headers, nil
}

// mergeCustomerTags unions the new tags into the customer's 태그 cell. If the
// customer row is missing the merge is skipped; the note itself stays saved.
func (s *Service) mergeCustomerTags(ctx context.Context, customerID, tags string) {
	row, err := s.store.FindRow(ctx, model.WSCustomers, model.ColCustomerID, customerID)
	if err != nil {
		s.logger.Warn("tag merge skipped", zap.String("customer_id", customerID), zap.Error(err))
		return
	}
	t, err := s.store.GetTable(ctx, model.WSCustomers)
	if err != nil {
		s.logger.Warn("tag merge skipped", zap.String("customer_id", customerID), zap.Error(err))
		return
	}
	current := ""
	if i := row - 2; i >= 0 && i < len(t.Rows) {
		current = t.Value(t.Rows[i], model.ColTags)
	}
	merged := MergeTags(current, tags)
	if err := s.store.UpdateCell(ctx, model.WSCustomers, row, model.ColTags, merged); err != nil {
		s.logger.Warn("tag merge write failed", zap.String("customer_id", customerID), zap.Error(err))
	}
}

// History returns one customer's consultation records, newest first.
func (s *Service) History(ctx context.Context, customerID string) ([]model.ConsultationRecord, error) {
	t, err := s.tables.Table(ctx, model.WSConsultations)
	if err != nil {
		return nil, err
	}
	var out []model.ConsultationRecord
	for i := len(t.Rows) - 1; i >= 0; i-- {
		rec := model.ConsultationFromRow(t, i)
		if rec.CustomerID == customerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// RecentActivity returns the newest consultation records across all
// customers, up to limit.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]model.ConsultationRecord, error) {
	t, err := s.tables.Table(ctx, model.WSConsultations)
	if err != nil {
		return nil, err
	}
	var out []model.ConsultationRecord
	for i := len(t.Rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, model.ConsultationFromRow(t, i))
	}
	return out, nil
}
