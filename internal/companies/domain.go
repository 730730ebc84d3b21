package companies

import "github.com/biztime/biztime/internal/invoices"

// Company is a root entity keyed by a slug code derived from its name.
type Company struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Detail is a company joined with its invoices and the display names of its
// associated industries.
type Detail struct {
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Invoices    []invoices.Invoice `json:"invoices"`
	Industries  []string           `json:"industries"`
}
