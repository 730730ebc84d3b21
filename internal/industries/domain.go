package industries

// Industry is a root entity with a short code and a display name.
type Industry struct {
	Code     string `json:"code"`
	Industry string `json:"industry"`
}

// IndustryCompanies is an index item: an industry with the codes of every
// company associated to it. Industries with no associations never appear;
// the index is built from an inner join on purpose.
type IndustryCompanies struct {
	Industry  string   `json:"industry"`
	CompCodes []string `json:"comp_codes"`
}

// CompanyIndustry is an association row in the company–industry
// many-to-many relation.
type CompanyIndustry struct {
	ID       int64  `json:"id"`
	CompCode string `json:"comp_code"`
	IndCode  string `json:"ind_code"`
}
