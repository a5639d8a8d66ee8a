package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SamuelLeutner/student-declarations/models"
	"github.com/SamuelLeutner/student-declarations/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StudentSource yields every student record currently in the spreadsheet.
type StudentSource interface {
	FetchAll(ctx context.Context) ([]models.StudentRecord, error)
}

// StudentRepository merges all configured tabs into one list of records.
// Nothing is cached: each call reads every tab again.
type StudentRepository struct {
	fetcher      RowFetcher
	tables       []models.SourceTable
	rangeColumns string
	logger       *zap.Logger
}

func NewStudentRepository(fetcher RowFetcher, tables []models.SourceTable, rangeColumns string, logger *zap.Logger) *StudentRepository {
	if rangeColumns == "" {
		rangeColumns = "A:Z"
	}
	return &StudentRepository{
		fetcher:      fetcher,
		tables:       tables,
		rangeColumns: rangeColumns,
		logger:       logger,
	}
}

// FetchAll reads all tabs concurrently. A tab that fails to load contributes
// no records and does not affect the others; only missing configuration is
// returned as an error.
func (r *StudentRepository) FetchAll(ctx context.Context) ([]models.StudentRecord, error) {
	startTime := time.Now()
	perTable := make([][]models.StudentRecord, len(r.tables))

	var g errgroup.Group
	for i, table := range r.tables {
		g.Go(func() error {
			records, err := r.fetchTable(ctx, table)
			if err != nil {
				if errors.Is(err, ErrMissingConfiguration) {
					return err
				}
				r.logger.Warn("Failed to read sheet, skipping",
					zap.String("sheet", table.Name),
					zap.String("reason", sheetsFailureReason(err)),
					zap.Error(err))
				return nil
			}
			perTable[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, records := range perTable {
		total += len(records)
	}
	all := make([]models.StudentRecord, 0, total)
	for _, records := range perTable {
		all = append(all, records...)
	}

	r.logger.Debug("Fetched student records",
		zap.Int("sheets", len(r.tables)),
		zap.Int("records", len(all)),
		zap.Duration("elapsed", time.Since(startTime)))
	return all, nil
}

func (r *StudentRepository) fetchTable(ctx context.Context, table models.SourceTable) ([]models.StudentRecord, error) {
	rangeSpec := fmt.Sprintf("'%s'!%s", table.Name, r.rangeColumns)
	rows, err := r.fetcher.GetRows(ctx, rangeSpec)
	if err != nil {
		return nil, err
	}

	records := ParseSheetRows(table, rows)
	r.logger.Debug("Sheet parsed",
		zap.String("sheet", table.Name),
		zap.Int("headerRow", table.HeaderRowIndex+1),
		zap.Int("records", len(records)))
	return records, nil
}

// ParseSheetRows turns a raw grid into records using the table's header row.
func ParseSheetRows(table models.SourceTable, rows [][]interface{}) []models.StudentRecord {
	if len(rows) < 2 || len(rows) <= table.HeaderRowIndex || table.HeaderRowIndex < 0 {
		return nil
	}

	headerRow := rows[table.HeaderRowIndex]
	headers := make([]string, len(headerRow))
	for i, cell := range headerRow {
		headers[i] = utils.CellString(cell)
	}

	dataRows := rows[table.HeaderRowIndex+1:]
	records := make([]models.StudentRecord, 0, len(dataRows))
	for _, row := range dataRows {
		student := models.NewStudentRecord(table.Name)
		for index, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if index < len(row) {
				value = utils.CellString(row[index])
			}
			if strings.Contains(strings.ToUpper(header), "CPF") {
				value = utils.NormalizeCPF(value)
			}
			student.Fields[header] = value
		}
		records = append(records, student)
	}
	return records
}
