package model

import "strings"

// Membership grades derived from the 조합원번호 pattern.
const (
	GradeMember    = "조합원"
	GradeAssociate = "준조합원"
	GradeGeneral   = "일반고객"
)

type Customer struct {
	CustomerID   string `json:"customer_id"`
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	Address      string `json:"address"`
	BirthDate    string `json:"birth_date"`
	Occupation   string `json:"occupation"`
	Family       string `json:"family"`
	Acquaintance string `json:"acquaintance"`
	MemberNo     string `json:"member_no"`
	Capital      string `json:"capital"`
	Tags         string `json:"tags"`
}

// CustomerFromRow maps a 고객정보 row through the table's headers.
func CustomerFromRow(t *Table, row []string) Customer {
	return Customer{
		CustomerID:   t.Value(row, ColCustomerID),
		Name:         t.Value(row, ColName),
		Contact:      t.Value(row, ColContact),
		Address:      t.Value(row, ColAddress),
		BirthDate:    t.Value(row, ColBirthDate),
		Occupation:   t.Value(row, ColOccupation),
		Family:       t.Value(row, ColFamily),
		Acquaintance: t.Value(row, ColAcquaintance),
		MemberNo:     t.Value(row, ColMemberNo),
		Capital:      t.Value(row, ColCapital),
		Tags:         t.Value(row, ColTags),
	}
}

// Grade classifies the customer by the member-number segment:
// "-01-" full member, "-02-" associate member, anything else a walk-in.
func (c Customer) Grade() string {
	switch {
	case strings.Contains(c.MemberNo, "-01-"):
		return GradeMember
	case strings.Contains(c.MemberNo, "-02-"):
		return GradeAssociate
	default:
		return GradeGeneral
	}
}

// TagList splits the raw comma-separated tag cell into trimmed tokens.
func (c Customer) TagList() []string {
	var out []string
	for _, t := range strings.Split(c.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// HasTag reports exact-token membership, not substring containment, so a
// "VIP" filter does not match a customer tagged "VIP2".
func (c Customer) HasTag(tag string) bool {
	for _, t := range c.TagList() {
		if t == tag {
			return true
		}
	}
	return false
}

type User struct {
	ID       string
	Password string
	Name     string
}

func UserFromRow(t *Table, row []string) User {
	return User{
		ID:       t.Value(row, ColUserID),
		Password: t.Value(row, ColPassword),
		Name:     t.Value(row, ColName),
	}
}

type FinancialRecord struct {
	CustomerID string  `json:"customer_id"`
	Period     string  `json:"period"`
	Loan       float64 `json:"loan"`
	Deposit    float64 `json:"deposit"`
}

func FinancialFromRow(t *Table, row []string) FinancialRecord {
	return FinancialRecord{
		CustomerID: t.Value(row, ColCustomerID),
		Period:     t.Value(row, ColPeriod),
		Loan:       ParseAmount(t.Value(row, ColLoan)),
		Deposit:    ParseAmount(t.Value(row, ColDeposit)),
	}
}
