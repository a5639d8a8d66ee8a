package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SamuelLeutner/student-declarations/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDeclarationService(audit AuditRecorder, records ...models.StudentRecord) (*DeclarationService, *int) {
	source := &countingSource{records: records}
	renders := 0
	render := func(req models.DeclarationRequest) ([]byte, error) {
		renders++
		return newTestRenderer("").Render(req)
	}
	svc := NewDeclarationService(NewStudentLocator(source, DefaultSearchLimit), render, audit, zap.NewNop())
	svc.now = fixedClock
	return svc, &renders
}

func TestGenerateActiveStudent(t *testing.T) {
	audit := &memoryAudit{}
	svc, renders := newTestDeclarationService(audit,
		student("Turma 3", map[string]string{"Nome Completo": "João da Silva", "CPF": "01234567890", "DATA DE MATRÍCULA": "10/02/2024"}),
	)

	issued, err := svc.Generate(context.Background(), "secretaria@escola.com", "012.345.678-90", false)
	require.NoError(t, err)

	assert.Equal(t, "Declaracao_de_Matricula_Joo_da_Silva.pdf", issued.Filename)
	assert.True(t, bytes.HasPrefix(issued.PDF, []byte("%PDF-")))
	assert.Equal(t, "ATIVO", issued.Status)
	assert.False(t, issued.Warning)
	assert.Equal(t, 1, *renders)

	require.Len(t, audit.declarations, 1)
	event := audit.declarations[0]
	assert.Equal(t, "secretaria@escola.com", event.EmailUsuario)
	assert.Equal(t, "João da Silva", event.NomeAluno)
	assert.Equal(t, "01234567890", event.CPFAluno)
	assert.Equal(t, "ATIVO", event.StatusPagamento)
	assert.False(t, event.WarningExibido)
	assert.Equal(t, fixedIssueDate, event.DataGeracao)
}

func TestGenerateBlockedStudent(t *testing.T) {
	audit := &memoryAudit{}
	svc, renders := newTestDeclarationService(audit,
		student("Turma 4 (Online)", map[string]string{"Nome Completo": "Paulo Reis", "CPF": "11122233344", "Situação Cadastral": "distrato"}),
	)

	for _, force := range []bool{false, true} {
		issued, err := svc.Generate(context.Background(), "secretaria@escola.com", "11122233344", force)
		assert.Nil(t, issued)

		var blocked *BlockedError
		require.ErrorAs(t, err, &blocked)
		assert.Equal(t, "distrato", blocked.Status)
		assert.True(t, IsExpected(err))
	}
	assert.Zero(t, *renders)
	assert.Empty(t, audit.declarations)
}

func TestGenerateSuspendedStudentNeedsConfirmation(t *testing.T) {
	audit := &memoryAudit{}
	svc, renders := newTestDeclarationService(audit,
		student("Turma 5", map[string]string{"Nome Completo": "Joana Prado", "CPF": "01234567890", "Situação Cadastral": "TRANCADO", "DATA DE MATRÍCULA": "05/03/2024"}),
	)

	_, err := svc.Generate(context.Background(), "secretaria@escola.com", "1234567890", false)
	var confirm *ConfirmationRequiredError
	require.ErrorAs(t, err, &confirm)
	assert.Equal(t, "TRANCADO", confirm.Status)
	assert.Zero(t, *renders)
	assert.Empty(t, audit.declarations)

	issued, err := svc.Generate(context.Background(), "secretaria@escola.com", "1234567890", true)
	require.NoError(t, err)
	assert.True(t, issued.Warning)
	assert.Equal(t, "TRANCADO", issued.Status)
	assert.Contains(t, string(issued.PDF), "05/03/2024")

	require.Len(t, audit.declarations, 1)
	assert.True(t, audit.declarations[0].WarningExibido)
	assert.Equal(t, "TRANCADO", audit.declarations[0].StatusPagamento)
}

func TestGenerateUnknownStatusIsAWarning(t *testing.T) {
	svc, _ := newTestDeclarationService(&memoryAudit{},
		student("Turma 5", map[string]string{"Nome Completo": "Rui", "CPF": "55566677788", "Situação Cadastral": "PENDENTE"}),
	)

	_, err := svc.Generate(context.Background(), "a@b.com", "55566677788", false)
	var confirm *ConfirmationRequiredError
	assert.ErrorAs(t, err, &confirm)
}

func TestGenerateDeliversWhenAuditFails(t *testing.T) {
	audit := &memoryAudit{failWith: errAuditDown}
	svc, _ := newTestDeclarationService(audit,
		student("Turma 3", map[string]string{"Nome Completo": "Ana", "CPF": "52998224725"}),
	)

	issued, err := svc.Generate(context.Background(), "secretaria@escola.com", "529.982.247-25", false)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.PDF)
	assert.Empty(t, audit.declarations)
}

func TestGenerateRequiresIssuer(t *testing.T) {
	source := &countingSource{}
	svc := NewDeclarationService(NewStudentLocator(source, DefaultSearchLimit), nil, &memoryAudit{}, zap.NewNop())

	_, err := svc.Generate(context.Background(), "  ", "52998224725", false)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Zero(t, source.calls.Load())
}

func TestGenerateLookupFailures(t *testing.T) {
	svc, renders := newTestDeclarationService(&memoryAudit{},
		student("Turma 3", map[string]string{"Nome Completo": "Ana", "CPF": "52998224725"}),
	)

	_, err := svc.Generate(context.Background(), "a@b.com", "00000000000", false)
	assert.ErrorIs(t, err, ErrStudentNotFound)
	assert.True(t, IsExpected(err))

	_, err = svc.Generate(context.Background(), "a@b.com", "abc", false)
	assert.ErrorIs(t, err, ErrInvalidCPF)
	assert.Zero(t, *renders)
}

func TestGenerateRenderFailure(t *testing.T) {
	audit := &memoryAudit{}
	source := &countingSource{records: []models.StudentRecord{
		student("Turma 3", map[string]string{"Nome Completo": "Ana", "CPF": "52998224725"}),
	}}
	boom := errors.New("font missing")
	svc := NewDeclarationService(NewStudentLocator(source, DefaultSearchLimit), func(models.DeclarationRequest) ([]byte, error) {
		return nil, boom
	}, audit, zap.NewNop())

	_, err := svc.Generate(context.Background(), "a@b.com", "52998224725", false)
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsExpected(err))
	assert.Empty(t, audit.declarations)
}

func TestGenerateDefaultsMissingName(t *testing.T) {
	var got models.DeclarationRequest
	source := &countingSource{records: []models.StudentRecord{
		student("Turma 3", map[string]string{"CPF": "52998224725"}),
	}}
	svc := NewDeclarationService(NewStudentLocator(source, DefaultSearchLimit), func(req models.DeclarationRequest) ([]byte, error) {
		got = req
		return []byte("%PDF-1.3"), nil
	}, &memoryAudit{}, zap.NewNop())
	svc.now = func() time.Time { return fixedIssueDate }

	issued, err := svc.Generate(context.Background(), "a@b.com", "52998224725", false)
	require.NoError(t, err)
	assert.Equal(t, "Aluno", got.Name)
	assert.Equal(t, "Declaracao_de_Matricula_Aluno.pdf", issued.Filename)
}
