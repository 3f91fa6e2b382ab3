// Package sheettest provides an in-memory Store for service tests.
package sheettest

import (
	"context"
	"strings"
	"sync"

	"coop_crm/internal/apperr"
	"coop_crm/internal/model"
)

// Store keeps worksheets in memory and implements domain.Store. GetTable
// returns deep copies, like a real refetch would.
type Store struct {
	mu     sync.Mutex
	tables map[string]*model.Table

	// Gets counts GetTable calls per worksheet.
	Gets map[string]int

	// Error injection: when set, the corresponding operation fails with it.
	GetErr    error
	AppendErr error
	UpdateErr error
}

func New() *Store {
	return &Store{
		tables: make(map[string]*model.Table),
		Gets:   make(map[string]int),
	}
}

// Seed installs a worksheet with the given headers and rows.
func (s *Store) Seed(worksheet string, headers []string, rows ...[]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &model.Table{Headers: headers}
	for _, r := range rows {
		t.Rows = append(t.Rows, append([]string(nil), r...))
	}
	s.tables[worksheet] = t
}

func (s *Store) GetTable(_ context.Context, worksheet string) (*model.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Gets[worksheet]++
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	t, ok := s.tables[worksheet]
	if !ok {
		return &model.Table{}, nil
	}
	return cloneTable(t), nil
}

func (s *Store) AppendRow(_ context.Context, worksheet string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AppendErr != nil {
		return s.AppendErr
	}
	t, ok := s.tables[worksheet]
	if !ok {
		t = &model.Table{}
		s.tables[worksheet] = t
	}
	t.Rows = append(t.Rows, append([]string(nil), values...))
	return nil
}

func (s *Store) FindRow(_ context.Context, worksheet, keyColumn, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return 0, s.GetErr
	}
	t, ok := s.tables[worksheet]
	if !ok {
		return 0, apperr.Newf(apperr.NotFound, "no worksheet %s", worksheet)
	}
	idx, ok := t.Col(keyColumn)
	if !ok {
		return 0, apperr.Newf(apperr.NotFound, "no column %s", keyColumn)
	}
	for i, row := range t.Rows {
		if idx < len(row) && row[idx] == key {
			return t.SheetRow(i), nil
		}
	}
	return 0, apperr.Newf(apperr.NotFound, "%s=%s not found", keyColumn, key)
}

func (s *Store) UpdateCell(_ context.Context, worksheet string, row int, column, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	t, ok := s.tables[worksheet]
	if !ok {
		return apperr.Newf(apperr.NotFound, "no worksheet %s", worksheet)
	}
	idx, ok := t.Col(column)
	if !ok {
		return apperr.Newf(apperr.NotFound, "no column %s", column)
	}
	i := row - 2
	if i < 0 || i >= len(t.Rows) {
		return apperr.Newf(apperr.NotFound, "row %d out of range", row)
	}
	for len(t.Rows[i]) <= idx {
		t.Rows[i] = append(t.Rows[i], "")
	}
	t.Rows[i][idx] = value
	return nil
}

// Cell reads a cell back for assertions, addressed like UpdateCell.
func (s *Store) Cell(worksheet string, row int, column string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[worksheet]
	if !ok {
		return ""
	}
	i := row - 2
	if i < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Value(t.Rows[i], column)
}

// RowCount reports the number of data rows in a worksheet.
func (s *Store) RowCount(worksheet string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[worksheet]
	if !ok {
		return 0
	}
	return len(t.Rows)
}

// LastRow returns the most recently appended row of a worksheet joined with
// "|" for compact assertions.
func (s *Store) LastRow(worksheet string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[worksheet]
	if !ok || len(t.Rows) == 0 {
		return ""
	}
	return strings.Join(t.Rows[len(t.Rows)-1], "|")
}

func cloneTable(t *model.Table) *model.Table {
	out := &model.Table{Headers: append([]string(nil), t.Headers...)}
	for _, r := range t.Rows {
		out.Rows = append(out.Rows, append([]string(nil), r...))
	}
	return out
}
