// Package customer serves lookup, maintenance and financial history for
// 고객정보 rows.
package customer

import (
	"context"
	"sort"
	"strings"

	"coop_crm/internal/apperr"
	"coop_crm/internal/domain"
	"coop_crm/internal/model"

	"go.uber.org/zap"
)

// EditableFields are the only 고객정보 columns staff may rewrite from the
// dashboard; everything else is maintained out-of-band.
var EditableFields = map[string]bool{
	model.ColOccupation:   true,
	model.ColFamily:       true,
	model.ColAcquaintance: true,
	model.ColBirthDate:    true,
}

type Service struct {
	store  domain.Store
	tables domain.TableSource
	audit  domain.AuditLog
	logger *zap.Logger
}

func New(store domain.Store, tables domain.TableSource, audit domain.AuditLog, logger *zap.Logger) *Service {
	return &Service{store: store, tables: tables, audit: audit, logger: logger}
}

// Search filters the customer table. With neither a query nor tags it returns
// nothing: search is opt-in, not a full listing. The query is a case-sensitive
// substring match on name, contact or customer ID; tags filter by exact token
// membership (any selected tag). Both conditions AND together.
func (s *Service) Search(ctx context.Context, query string, tags []string) ([]model.Customer, error) {
	if query == "" && len(tags) == 0 {
		return nil, nil
	}
	t, err := s.tables.Table(ctx, model.WSCustomers)
	if err != nil {
		return nil, err
	}

	var out []model.Customer
	for _, row := range t.Rows {
		c := model.CustomerFromRow(t, row)
		if query != "" && !matchesQuery(c, query) {
			continue
		}
		if len(tags) > 0 && !matchesAnyTag(c, tags) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func matchesQuery(c model.Customer, q string) bool {
	return strings.Contains(c.Name, q) ||
		strings.Contains(c.Contact, q) ||
		strings.Contains(c.CustomerID, q)
}

func matchesAnyTag(c model.Customer, tags []string) bool {
	for _, tag := range tags {
		if c.HasTag(tag) {
			return true
		}
	}
	return false
}

// Get returns one customer by ID.
func (s *Service) Get(ctx context.Context, customerID string) (model.Customer, error) {
	t, err := s.tables.Table(ctx, model.WSCustomers)
	if err != nil {
		return model.Customer{}, err
	}
	for _, row := range t.Rows {
		c := model.CustomerFromRow(t, row)
		if c.CustomerID == customerID {
			return c, nil
		}
	}
	return model.Customer{}, apperr.Newf(apperr.NotFound, "customer %s not found", customerID)
}

// TagVocabulary collects every distinct tag token across all customers,
// sorted, for the search filter.
func (s *Service) TagVocabulary(ctx context.Context) ([]string, error) {
	t, err := s.tables.Table(ctx, model.WSCustomers)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.Rows {
		for _, tag := range (model.Customer{Tags: t.Value(row, model.ColTags)}).TagList() {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// UpdateFields rewrites individual editable columns of one customer row, one
// cell write and one audit entry per column, then flushes the cache.
func (s *Service) UpdateFields(ctx context.Context, customerID string, fields map[string]string, actor string) error {
	if len(fields) == 0 {
		return apperr.New(apperr.ValidationFailed, "수정할 항목이 없습니다")
	}
	for col := range fields {
		if !EditableFields[col] {
			return apperr.Newf(apperr.ValidationFailed, "%s 열은 수정할 수 없습니다", col)
		}
	}

	row, err := s.store.FindRow(ctx, model.WSCustomers, model.ColCustomerID, customerID)
	if err != nil {
		return err
	}

	// deterministic write order
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	for _, col := range cols {
		if err := s.store.UpdateCell(ctx, model.WSCustomers, row, col, fields[col]); err != nil {
			return err
		}
		s.audit.Record(ctx, actor, model.ActionUpdateInfo, customerID+" - "+col+" 수정")
	}

	s.tables.InvalidateAll()
	return nil
}

// FinanceHistory returns the customer's 금융이력 rows in sheet order with
// amounts parsed from comma-formatted text.
func (s *Service) FinanceHistory(ctx context.Context, customerID string) ([]model.FinancialRecord, error) {
	t, err := s.tables.Table(ctx, model.WSFinance)
	if err != nil {
		return nil, err
	}
	var out []model.FinancialRecord
	for _, row := range t.Rows {
		rec := model.FinancialFromRow(t, row)
		if rec.CustomerID == customerID {
			out = append(out, rec)
		}
	}
	return out, nil
}
