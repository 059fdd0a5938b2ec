package consent

// SignaturePayload is the signing block submitted when a form is
// finalized.
type SignaturePayload struct {
	Signature string `json:"signature"`
	Stamp     string `json:"stamp"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// SignatureResult reports which signing fields are absent.
type SignatureResult struct {
	Valid   bool     `json:"valid"`
	Missing []string `json:"missing"`
}

// ValidateSignature checks the signing block for completeness. Pure
// function, no I/O.
func ValidateSignature(p SignaturePayload) SignatureResult {
	missing := []string{}
	if p.Signature == "" {
		missing = append(missing, "signature")
	}
	if p.Stamp == "" {
		missing = append(missing, "stamp")
	}
	if p.Date == "" {
		missing = append(missing, "date")
	}
	if p.Time == "" {
		missing = append(missing, "time")
	}
	return SignatureResult{Valid: len(missing) == 0, Missing: missing}
}
