package models

// SourceTable is one tab of the students spreadsheet. HeaderRowIndex is
// 0-based and differs between tabs.
type SourceTable struct {
	Name           string `json:"name"`
	HeaderRowIndex int    `json:"headerRowIndex"`
}
