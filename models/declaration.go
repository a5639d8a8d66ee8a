package models

// DeclarationRequest is everything the renderer is allowed to see.
type DeclarationRequest struct {
	Name              string
	CPF               string
	MatriculationDate string
	Cohort            string
	Status            string
}

const DefaultStudentName = "Aluno"

// NewDeclarationRequest projects a record; fallbackCPF is used when the
// record has no CPF cell at all.
func NewDeclarationRequest(s StudentRecord, fallbackCPF string) DeclarationRequest {
	name := s.Name()
	if name == "" {
		name = DefaultStudentName
	}
	cpf := s.CPF()
	if cpf == "" {
		cpf = fallbackCPF
	}
	return DeclarationRequest{
		Name:              name,
		CPF:               cpf,
		MatriculationDate: s.MatriculationDate(),
		Cohort:            s.Cohort(),
		Status:            s.Status(),
	}
}

type IssuedDeclaration struct {
	Filename string
	PDF      []byte
	Status   string
	Warning  bool
}
