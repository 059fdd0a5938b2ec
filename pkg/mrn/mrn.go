// Package mrn implements the MR (medical record) number format used on
// admission identifiers: SSS/YY/T/L, where SSS is a zero-padded per-year
// sequence, YY the two-digit admission year, T the patient type code and
// L the admission location code.
package mrn

import (
	"fmt"
	"strconv"
	"strings"
)

// Patient type codes.
const (
	TypeIndoor     = "I"
	TypeOutpatient = "OP"
)

// Location codes.
const (
	LocationWard        = "W"
	LocationPrivateRoom = "P"
	LocationNursery     = "N"
	LocationICU         = "IC"
)

var locationCodes = map[string]string{
	"WARD":         LocationWard,
	"PRIVATE_ROOM": LocationPrivateRoom,
	"NURSERY":      LocationNursery,
	"ICU":          LocationICU,
}

// Number is a parsed MR number.
type Number struct {
	Sequence    int    `json:"sequence"`
	Year        string `json:"year"`
	PatientType string `json:"patient_type"`
	Location    string `json:"location"`
}

// Format renders the number as SSS/YY/T/L. Sequences below 1000 are
// zero-padded to three digits; larger values are simply wider.
func (n Number) String() string {
	return fmt.Sprintf("%03d/%s/%s/%s", n.Sequence, n.Year, n.PatientType, n.Location)
}

// Parse splits an MR number into its four components. It fails if the
// part count differs from four or the sequence component is not numeric.
func Parse(s string) (Number, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 4 {
		return Number{}, fmt.Errorf("mrn %q: expected 4 parts, got %d", s, len(parts))
	}
	seq, err := strconv.Atoi(parts[0])
	if err != nil {
		return Number{}, fmt.Errorf("mrn %q: non-numeric sequence: %w", s, err)
	}
	return Number{
		Sequence:    seq,
		Year:        parts[1],
		PatientType: parts[2],
		Location:    parts[3],
	}, nil
}

// SequenceOf extracts the leading sequence component of an MR number.
// Malformed input yields 0 rather than an error so that legacy records
// with hand-entered identifiers never break sequence recovery.
func SequenceOf(s string) int {
	n, err := Parse(s)
	if err != nil {
		return 0
	}
	return n.Sequence
}

// PatientTypeCode maps an admission type to its MR number code: OP for
// outpatient (OPD) admissions, I for everything else.
func PatientTypeCode(admissionType string) string {
	if admissionType == "OPD" {
		return TypeOutpatient
	}
	return TypeIndoor
}

// LocationCode maps an admission location to its MR number code.
// Unrecognized locations default to the ward code.
func LocationCode(admissionLocation string) string {
	if code, ok := locationCodes[admissionLocation]; ok {
		return code
	}
	return LocationWard
}
