package invoices

import "time"

// Invoice is a billing row owned by a company. PaidDate is nil unless the
// invoice has been marked paid.
type Invoice struct {
	ID       int64      `json:"id"`
	CompCode string     `json:"comp_code"`
	Amt      float64    `json:"amt"`
	Paid     bool       `json:"paid"`
	PaidDate *time.Time `json:"paid_date"`
}

// ListItem is the projection used by the invoice index. The index omits
// amounts and payment state; the detail view carries the full row.
type ListItem struct {
	ID       int64  `json:"id"`
	CompCode string `json:"comp_code"`
}
