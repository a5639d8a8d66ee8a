package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/SamuelLeutner/student-declarations/config"
	"github.com/SamuelLeutner/student-declarations/models"
)

// fakeFetcher serves grids keyed by range spec.
type fakeFetcher struct {
	grids  map[string][][]interface{}
	errs   map[string]error
	mu     sync.Mutex
	called []string
}

func (f *fakeFetcher) GetRows(ctx context.Context, rangeSpec string) ([][]interface{}, error) {
	f.mu.Lock()
	f.called = append(f.called, rangeSpec)
	f.mu.Unlock()

	if err, ok := f.errs[rangeSpec]; ok {
		return nil, err
	}
	grid, ok := f.grids[rangeSpec]
	if !ok {
		return nil, fmt.Errorf("unable to parse range: %s", rangeSpec)
	}
	return grid, nil
}

func rangeOf(sheet string) string {
	return fmt.Sprintf("'%s'!A:Z", sheet)
}

func row(cells ...interface{}) []interface{} { return cells }

// countingSource returns a fixed list and counts fetches.
type countingSource struct {
	records []models.StudentRecord
	err     error
	calls   atomic.Int32
}

func (s *countingSource) FetchAll(ctx context.Context) ([]models.StudentRecord, error) {
	s.calls.Add(1)
	return s.records, s.err
}

func student(sheet string, fields map[string]string) models.StudentRecord {
	r := models.NewStudentRecord(sheet)
	for k, v := range fields {
		r.Fields[k] = v
	}
	return r
}

// memoryAudit keeps audit rows in memory; failWith makes every write fail.
type memoryAudit struct {
	mu           sync.Mutex
	logins       []models.LoginEvent
	declarations []models.DeclarationEvent
	failWith     error
}

var errAuditDown = errors.New("audit store unavailable")

func (a *memoryAudit) RecordLogin(ctx context.Context, event models.LoginEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failWith != nil {
		return a.failWith
	}
	a.logins = append(a.logins, event)
	return nil
}

func (a *memoryAudit) RecordDeclaration(ctx context.Context, event models.DeclarationEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failWith != nil {
		return a.failWith
	}
	a.declarations = append(a.declarations, event)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{SheetRangeColumns: "A:Z", SearchLimit: DefaultSearchLimit}
}
