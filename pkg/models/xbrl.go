// Package models defines the typed records shared across the reconstruction
// engine. Source dataset rows are converted into these fixed-field structs at
// load time; unparseable fields become nil pointers, never deferred coercion.
package models

import (
	"time"
)

// DateLayout is the compact date form used throughout the SEC flat files.
const DateLayout = "20060102"

// ParseDDate parses a YYYYMMDD date string. Malformed or empty input yields
// nil, which downstream code treats as "no usable date".
func ParseDDate(s string) *time.Time {
	if len(s) != 8 {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// Submission is one row of the submission index (sub.txt): metadata about a
// single filing identified by its accession number.
type Submission struct {
	Adsh          string `json:"adsh"`
	CIK           string `json:"cik"`
	Name          string `json:"name"`
	SIC           string `json:"sic"`
	CountryInc    string `json:"countryinc"`
	StateInc      string `json:"stprinc"`
	EIN           string `json:"ein"`
	FiscalYearEnd string `json:"fye"`
	Form          string `json:"form"`
	Period        string `json:"period"`
	FiscalYear    string `json:"fy"`
	FiscalPeriod  string `json:"fp"`
	Filed         string `json:"filed"`
	Instance      string `json:"instance"`
}

// NumericFact is one row of the numeric instance file (num.txt): a tagged
// value with its temporal and dimensional context.
//
// Qtrs encodes the period: 0 is an instant (balance at a point in time),
// 1-4 a sub-annual duration in quarters, larger positive values multi-quarter
// or annual durations. Coreg and Segments are empty for the consolidated
// total of the registrant.
type NumericFact struct {
	Adsh     string   `json:"adsh"`
	Tag      string   `json:"tag"`
	Version  string   `json:"version"`
	DDate    string   `json:"ddate"` // reporting period end, YYYYMMDD
	Qtrs     *int     `json:"qtrs"`
	UOM      string   `json:"uom"`
	Segments string   `json:"segments"`
	Coreg    string   `json:"coreg"`
	Value    *float64 `json:"value"`
	Footnote string   `json:"footnote"`
}

// EndDate returns the parsed reporting end date, or nil when DDate is
// missing or malformed.
func (f *NumericFact) EndDate() *time.Time {
	return ParseDDate(f.DDate)
}

// IsInstant reports whether the fact is a point-in-time balance.
func (f *NumericFact) IsInstant() bool {
	return f.Qtrs != nil && *f.Qtrs == 0
}

// IsDuration reports whether the fact accumulates over a period.
func (f *NumericFact) IsDuration() bool {
	return f.Qtrs != nil && *f.Qtrs > 0
}

// IsConsolidated reports whether the fact carries no co-registrant and no
// segment qualifier, i.e. it describes the consolidated total.
func (f *NumericFact) IsConsolidated() bool {
	return f.Coreg == "" && f.Segments == ""
}

// PresentationRow is one row of the presentation linkbase (pre.txt): a line
// of a rendered statement carrying order, indentation and label, independent
// of its numeric value. Rows of one statement sorted by (Report, Line)
// reproduce the regulator's visual order exactly.
type PresentationRow struct {
	Adsh       string `json:"adsh"`
	Stmt       string `json:"stmt"`
	Report     int    `json:"report"`
	Line       int    `json:"line"`
	Depth      int    `json:"inpth"`
	SourceFile string `json:"rfile"`
	Tag        string `json:"tag"`
	Version    string `json:"version"`
	Label      string `json:"plabel"`
	Negating   bool   `json:"negating"`
}

// TagMeta is one row of the tag definition file (tag.txt): taxonomy metadata
// for a concept.
type TagMeta struct {
	Tag      string `json:"tag"`
	Version  string `json:"version"`
	Custom   bool   `json:"custom"`
	Abstract bool   `json:"abstract"`
	Datatype string `json:"datatype"`
	Iord     string `json:"iord"`
	Crdr     string `json:"crdr"`
	Label    string `json:"tlabel"`
	Doc      string `json:"doc"`
}
