package services

import (
	"context"
	"strings"

	"github.com/SamuelLeutner/student-declarations/models"
	"github.com/SamuelLeutner/student-declarations/utils"
)

const DefaultSearchLimit = 20

// StudentLocator answers lookups with a linear scan over a fresh fetch.
// The spreadsheet holds hundreds of rows, so there is no index.
type StudentLocator struct {
	source      StudentSource
	searchLimit int
}

func NewStudentLocator(source StudentSource, searchLimit int) *StudentLocator {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	return &StudentLocator{source: source, searchLimit: searchLimit}
}

// FindByCPF returns the first record, in fetch order, whose CPF matches.
// Duplicates across tabs are not resolved.
func (l *StudentLocator) FindByCPF(ctx context.Context, rawCPF string) (*models.StudentRecord, error) {
	if utils.DigitsOnly(rawCPF) == "" {
		return nil, ErrInvalidCPF
	}
	wanted := utils.NormalizeCPF(rawCPF)

	students, err := l.source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range students {
		if utils.NormalizeCPF(students[i].CPF()) == wanted {
			return &students[i], nil
		}
	}
	return nil, ErrStudentNotFound
}

// Search matches the query against the name (case-insensitive) or the stored
// CPF digits, returning at most searchLimit records. An empty query returns
// nothing without touching the spreadsheet.
func (l *StudentLocator) Search(ctx context.Context, query string) ([]models.StudentRecord, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.StudentRecord{}, nil
	}

	students, err := l.source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]models.StudentRecord, 0, l.searchLimit)
	for _, student := range students {
		if strings.Contains(strings.ToLower(student.Name()), q) || strings.Contains(student.CPF(), q) {
			results = append(results, student)
			if len(results) == l.searchLimit {
				break
			}
		}
	}
	return results, nil
}

func (l *StudentLocator) FindByEmail(ctx context.Context, email string) (*models.StudentRecord, error) {
	wanted := strings.ToLower(strings.TrimSpace(email))
	if wanted == "" {
		return nil, ErrStudentNotFound
	}

	students, err := l.source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range students {
		if strings.ToLower(strings.TrimSpace(students[i].Email())) == wanted {
			return &students[i], nil
		}
	}
	return nil, ErrStudentNotFound
}
