package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	nonFilenameChars = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// DeclarationFilename builds the attachment name from the student's name.
// Only ASCII word characters, whitespace and hyphens survive, so accented
// letters are dropped.
func DeclarationFilename(studentName string) string {
	sanitized := nonFilenameChars.ReplaceAllString(studentName, "")
	sanitized = whitespaceRun.ReplaceAllString(strings.TrimSpace(sanitized), "_")
	return fmt.Sprintf("Declaracao_de_Matricula_%s.pdf", sanitized)
}

// CellString stringifies a value returned by the Sheets API and trims it.
func CellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
