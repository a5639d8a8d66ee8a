package services

import "strings"

type Eligibility int

const (
	EligibilityAllow Eligibility = iota
	EligibilityWarn
	EligibilityBlocked
)

func (e Eligibility) String() string {
	switch e {
	case EligibilityAllow:
		return "allow"
	case EligibilityWarn:
		return "warn"
	case EligibilityBlocked:
		return "blocked"
	}
	return "unknown"
}

const (
	StatusAtivo    = "ATIVO"
	StatusTrancado = "TRANCADO"
	StatusDistrato = "DISTRATO"
)

// EvaluateEligibility decides whether a declaration may be issued for the
// given enrollment status. Callers must evaluate it on every request since
// the spreadsheet can change between listing and generation.
func EvaluateEligibility(status string) Eligibility {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case StatusDistrato:
		return EligibilityBlocked
	case StatusAtivo:
		return EligibilityAllow
	default:
		return EligibilityWarn
	}
}
