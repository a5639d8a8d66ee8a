package models

import (
	"encoding/json"
	"strings"
)

// Known header spellings per logical field, in lookup priority order.
// Tabs were typed by hand, so the same column shows up with different
// capitalization and accents.
var (
	NameKeys              = []string{"Nome Completo", "NOME COMPLETO", "nome completo"}
	CPFKeys               = []string{"CPF", "cpf", "Cpf"}
	StatusKeys            = []string{"Situação Cadastral", "SITUAÇÃO CADASTRAL", "Situacao Cadastral"}
	MatriculationDateKeys = []string{"DATA DE MATRÍCULA", "Data de Matrícula", "Data da matrícula", "Data da Matrícula"}
	CohortKeys            = []string{"Turma", "TURMA", "turma"}
	EmailKeys             = []string{"E-mail", "E-MAIL", "e-mail", "Email"}
)

const DefaultStatus = "ATIVO"

// StudentRecord is one spreadsheet row keyed by the literal header text of
// the tab it came from.
type StudentRecord struct {
	SourceSheet string
	Fields      map[string]string
}

func NewStudentRecord(sourceSheet string) StudentRecord {
	return StudentRecord{SourceSheet: sourceSheet, Fields: make(map[string]string)}
}

// Value returns the first non-empty alias in priority order, so a blank
// "CPF" column does not shadow a filled "Cpf" one.
func (s StudentRecord) Value(aliases ...string) string {
	for _, key := range aliases {
		if v := s.Fields[key]; v != "" {
			return v
		}
	}
	return ""
}

func (s StudentRecord) Name() string              { return s.Value(NameKeys...) }
func (s StudentRecord) CPF() string               { return s.Value(CPFKeys...) }
func (s StudentRecord) Cohort() string            { return s.Value(CohortKeys...) }
func (s StudentRecord) MatriculationDate() string { return s.Value(MatriculationDateKeys...) }
func (s StudentRecord) Email() string             { return s.Value(EmailKeys...) }

// Status falls back to ATIVO when the tab has no status column or the cell
// is blank.
func (s StudentRecord) Status() string {
	if v := s.Value(StatusKeys...); v != "" {
		return v
	}
	return DefaultStatus
}

// MarshalJSON flattens the record: header keys plus "sourceSheet".
func (s StudentRecord) MarshalJSON() ([]byte, error) {
	flat := make(map[string]string, len(s.Fields)+1)
	for k, v := range s.Fields {
		flat[k] = v
	}
	flat["sourceSheet"] = s.SourceSheet
	return json.Marshal(flat)
}

func (s *StudentRecord) UnmarshalJSON(b []byte) error {
	var flat map[string]string
	if err := json.Unmarshal(b, &flat); err != nil {
		return err
	}
	s.SourceSheet = flat["sourceSheet"]
	delete(flat, "sourceSheet")
	s.Fields = flat
	return nil
}

// DisplayHints are shown on the profile page only; the declaration always
// prints the literal matriculation date.
type DisplayHints struct {
	SuggestedDate string `json:"suggestedDate"`
	IsDistrato    bool   `json:"isDistrato"`
}

func (s StudentRecord) DisplayHints() DisplayHints {
	cohort := strings.ToUpper(s.Cohort())
	suggested := s.MatriculationDate()
	switch {
	case strings.Contains(cohort, "5B"):
		suggested = "01/05/2025"
	case strings.Contains(cohort, "5A"), strings.Contains(cohort, "TURMA 5"):
		suggested = "01/02/2025"
	case suggested == "":
		suggested = "-"
	}
	return DisplayHints{
		SuggestedDate: suggested,
		IsDistrato:    strings.EqualFold(s.Status(), "DISTRATO"),
	}
}
