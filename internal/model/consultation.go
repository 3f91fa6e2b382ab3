package model

// ConsultationHeaders is the column order used when the 상담이력 worksheet has
// no header row yet. Existing sheets may order columns differently; rows are
// always read and written through the live header row.
var ConsultationHeaders = []string{
	ColRecordID, ColDate, ColWriter, ColCustomerID, ColCustomerName, ColContact,
	ColRawText, ColPolished, ColSummary, ColTags, ColDepartment, ColStatus,
	ColRequest, ColResult,
}

type ConsultationRecord struct {
	RecordID     string `json:"record_id"`
	Date         string `json:"date"`
	Writer       string `json:"writer"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Contact      string `json:"contact"`
	RawText      string `json:"raw_text"`
	Polished     string `json:"polished"`
	Summary      string `json:"summary"`
	Tags         string `json:"tags"`
	Department   string `json:"department"`
	Status       string `json:"status"`
	Request      string `json:"request"`
	Result       string `json:"result"`

	// Row is the 1-based worksheet row this record was read from.
	Row int `json:"-"`
}

// ConsultationFromRow maps a 상담이력 row through the table's headers.
// rowIdx is the data-row index within the table.
func ConsultationFromRow(t *Table, rowIdx int) ConsultationRecord {
	row := t.Rows[rowIdx]
	return ConsultationRecord{
		RecordID:     t.Value(row, ColRecordID),
		Date:         t.Value(row, ColDate),
		Writer:       t.Value(row, ColWriter),
		CustomerID:   t.Value(row, ColCustomerID),
		CustomerName: t.Value(row, ColCustomerName),
		Contact:      t.Value(row, ColContact),
		RawText:      t.Value(row, ColRawText),
		Polished:     t.Value(row, ColPolished),
		Summary:      t.Value(row, ColSummary),
		Tags:         t.Value(row, ColTags),
		Department:   t.Value(row, ColDepartment),
		Status:       t.Value(row, ColStatus),
		Request:      t.Value(row, ColRequest),
		Result:       t.Value(row, ColResult),
		Row:          t.SheetRow(rowIdx),
	}
}

// ToRow lays the record out in the given header order. Unknown headers are
// left blank so a sheet with extra columns keeps its alignment.
func (r ConsultationRecord) ToRow(headers []string) []string {
	byName := map[string]string{
		ColRecordID:     r.RecordID,
		ColDate:         r.Date,
		ColWriter:       r.Writer,
		ColCustomerID:   r.CustomerID,
		ColCustomerName: r.CustomerName,
		ColContact:      r.Contact,
		ColRawText:      r.RawText,
		ColPolished:     r.Polished,
		ColSummary:      r.Summary,
		ColTags:         r.Tags,
		ColDepartment:   r.Department,
		ColStatus:       r.Status,
		ColRequest:      r.Request,
		ColResult:       r.Result,
	}
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = byName[h]
	}
	return out
}

// DisplayText is what the feed shows: the polished rewrite when the AI
// produced one, the raw note otherwise.
func (r ConsultationRecord) DisplayText() string {
	if r.Polished != "" {
		return r.Polished
	}
	return r.RawText
}

// Refinement is the parsed output of one generative rewrite call.
type Refinement struct {
	Polished string
	Summary  string
	Tags     string
}
