package sheet

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"coop_crm/internal/apperr"
	"coop_crm/internal/model"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Store is the record store adapter: all reads and writes against the one
// 조합원상담관리 spreadsheet go through here.
type Store struct {
	spreadsheetID string
	pauseMs       int // minimum gap between API calls, milliseconds
	srv           *sheets.Service
	limiterMu     sync.Mutex
	lastCall      time.Time
	logger        *zap.Logger

	// Title is the document title fetched at construction.
	Title string
}

// NewStore builds the adapter from base64-encoded service-account credentials
// and verifies access by fetching the spreadsheet metadata.
func NewStore(ctx context.Context, base64Creds, spreadsheetID string, pauseMs int, logger *zap.Logger) (*Store, error) {
	credBytes, err := base64.StdEncoding.DecodeString(base64Creds)
	if err != nil {
		return nil, fmt.Errorf("decoding credentials from base64: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, credBytes, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("building credentials from JSON: %w", err)
	}
	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("initializing sheets service: %w", err)
	}

	s := &Store{
		spreadsheetID: spreadsheetID,
		pauseMs:       pauseMs,
		srv:           srv,
		lastCall:      time.Now(),
		logger:        logger,
	}

	if err := s.fetchTitle(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) fetchTitle(ctx context.Context) error {
	s.Wait()
	resp, err := s.srv.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return apperr.Wrap(apperr.RemoteUnavailable, "fetching spreadsheet metadata", err)
	}
	s.Title = resp.Properties.Title
	return nil
}

// Wait paces remote calls: no two API requests closer than pauseMs apart.
func (s *Store) Wait() {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	elapsed := time.Since(s.lastCall)
	pause := time.Duration(s.pauseMs) * time.Millisecond
	if elapsed < pause {
		time.Sleep(pause - elapsed)
	}
	s.lastCall = time.Now()
}

// GetTable reads a full worksheet. The first row becomes the header row.
// A worksheet that is missing or has no rows yields an empty table.
func (s *Store) GetTable(ctx context.Context, worksheet string) (*model.Table, error) {
	s.Wait()

	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, quoteRange(worksheet)).Context(ctx).Do()
	if err != nil {
		if isMissingSheet(err) {
			return &model.Table{}, nil
		}
		return nil, apperr.Wrap(apperr.RemoteUnavailable, "reading worksheet "+worksheet, err)
	}
	if len(resp.Values) == 0 {
		return &model.Table{}, nil
	}

	t := &model.Table{Headers: toStrings(resp.Values[0])}
	for _, row := range resp.Values[1:] {
		t.Rows = append(t.Rows, toStrings(row))
	}
	return t, nil
}

// AppendRow appends one row after the last data row of the worksheet.
func (s *Store) AppendRow(ctx context.Context, worksheet string, values []string) error {
	s.Wait()

	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{row}}

	_, err := s.srv.Spreadsheets.Values.
		Append(s.spreadsheetID, quoteRange(worksheet)+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return apperr.Wrap(apperr.RemoteUnavailable, "appending to "+worksheet, err)
	}
	return nil
}

// FindRow scans keyColumn for the first cell equal to key and returns the
// 1-based worksheet row number.
func (s *Store) FindRow(ctx context.Context, worksheet, keyColumn, key string) (int, error) {
	t, err := s.GetTable(ctx, worksheet)
	if err != nil {
		return 0, err
	}
	idx, ok := t.Col(keyColumn)
	if !ok {
		return 0, apperr.Newf(apperr.NotFound, "worksheet %s has no %s column", worksheet, keyColumn)
	}
	for i, row := range t.Rows {
		if idx < len(row) && row[idx] == key {
			return t.SheetRow(i), nil
		}
	}
	return 0, apperr.Newf(apperr.NotFound, "%s=%s not in %s", keyColumn, key, worksheet)
}

// UpdateCell rewrites one cell, addressing the column by header name. The
// header row is re-read so hand-reordered sheets stay correct.
func (s *Store) UpdateCell(ctx context.Context, worksheet string, row int, column, value string) error {
	s.Wait()

	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, quoteRange(worksheet)+"!1:1").Context(ctx).Do()
	if err != nil {
		return apperr.Wrap(apperr.RemoteUnavailable, "reading headers of "+worksheet, err)
	}
	colIdx := -1
	if len(resp.Values) > 0 {
		for i, h := range toStrings(resp.Values[0]) {
			if strings.TrimSpace(h) == column {
				colIdx = i
				break
			}
		}
	}
	if colIdx < 0 {
		return apperr.Newf(apperr.NotFound, "worksheet %s has no %s column", worksheet, column)
	}

	s.Wait()
	cell := fmt.Sprintf("%s!%s%d", quoteRange(worksheet), columnLetter(colIdx), row)
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err = s.srv.Spreadsheets.Values.
		Update(s.spreadsheetID, cell, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return apperr.Wrap(apperr.RemoteUnavailable, "updating cell "+cell, err)
	}
	return nil
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprint(v)
	}
	return out
}

// quoteRange wraps a worksheet name for use in an A1 range; the Korean sheet
// names need quoting.
func quoteRange(worksheet string) string {
	return "'" + strings.ReplaceAll(worksheet, "'", "''") + "'"
}

// columnLetter converts a zero-based column index to A1 letters (0 -> A, 26 -> AA).
func columnLetter(idx int) string {
	s := ""
	for idx >= 0 {
		s = string(rune('A'+idx%26)) + s
		idx = idx/26 - 1
	}
	return s
}

// isMissingSheet matches the 400 the Values API returns for an unknown range.
func isMissingSheet(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 400 && strings.Contains(gerr.Message, "Unable to parse range")
	}
	return false
}
