package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeclarationFilename(t *testing.T) {
	assert.Equal(t, "Declaracao_de_Matricula_Maria_da_Silva.pdf", DeclarationFilename("Maria da Silva"))
	assert.Equal(t, "Declaracao_de_Matricula_Joo_Pereira-Lima.pdf", DeclarationFilename("  João   Pereira-Lima "))
	assert.Equal(t, "Declaracao_de_Matricula_Ana_B.pdf", DeclarationFilename("Ana (B.)"))
	assert.Equal(t, "Declaracao_de_Matricula_.pdf", DeclarationFilename(""))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "abc", CellString("  abc \t"))
	assert.Equal(t, "1234567890", CellString(float64(1234567890)))
	assert.Equal(t, "1.5", CellString(1.5))
	assert.Equal(t, "true", CellString(true))
	assert.Equal(t, "42", CellString(42))
}
