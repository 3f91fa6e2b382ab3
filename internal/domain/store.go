package domain

import (
	"context"

	"coop_crm/internal/model"
)

// Store is the record store adapter over one spreadsheet document.
type Store interface {
	// GetTable reads a whole worksheet. A missing or empty worksheet yields
	// an empty table, not an error.
	GetTable(ctx context.Context, worksheet string) (*model.Table, error)

	// AppendRow appends one row after the last data row.
	AppendRow(ctx context.Context, worksheet string, values []string) error

	// FindRow returns the 1-based worksheet row of the first row whose
	// keyColumn cell equals key.
	FindRow(ctx context.Context, worksheet, keyColumn, key string) (int, error)

	// UpdateCell rewrites a single cell addressed by row number and header name.
	UpdateCell(ctx context.Context, worksheet string, row int, column, value string) error
}

// TableSource serves memoized worksheet reads. Every mutating operation must
// call InvalidateAll before returning so the next read reflects the write.
type TableSource interface {
	Table(ctx context.Context, worksheet string) (*model.Table, error)
	InvalidateAll()
}
