package persist

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shiftsolve/shiftsolve/internal/cost"
	"github.com/shiftsolve/shiftsolve/internal/domain"
	"github.com/shiftsolve/shiftsolve/internal/ingest"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&ShiftAssignment{}, &ShiftAssignmentEvent{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testModelAndAssignment() (*domain.Model, *domain.Assignment, ingest.IDMap) {
	model := domain.NewModel()
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	model.AddShift(&domain.Shift{ID: 1, Window: domain.TimeWindow{Start: start, End: start.Add(8 * time.Hour)}, MinCap: 1, MaxCap: 1})
	model.AddPerson(&domain.Person{ID: 1, MinShifts: 1, MaxShifts: 1})

	a := domain.NewAssignment(model)
	a.Add(1, 1)

	ids := ingest.IDMap{
		Person: map[domain.PersonID]string{1: "alice"},
		Shift:  map[domain.ShiftID]string{1: "shift-1"},
	}
	return model, a, ids
}

func TestWriteInsertsAssignmentAndEvent(t *testing.T) {
	db := openTestDB(t)
	w := NewGormWriter(db)
	model, a, ids := testModelAndAssignment()
	breakdown := cost.Evaluate(a, model, cost.DefaultWeights())

	if err := w.Write(a, model, breakdown, ids); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var rows []ShiftAssignment
	db.Find(&rows)
	if len(rows) != 1 || rows[0].PersonID != "alice" || rows[0].ShiftID != "shift-1" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	var events []ShiftAssignmentEvent
	db.Find(&events)
	if len(events) != 1 || events[0].State != "ASSIGNED" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestWriteIsIdempotentAgainstAutoCreatedMarker(t *testing.T) {
	db := openTestDB(t)
	w := NewGormWriter(db)
	model, a, ids := testModelAndAssignment()
	breakdown := cost.Evaluate(a, model, cost.DefaultWeights())

	if err := w.Write(a, model, breakdown, ids); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := w.Write(a, model, breakdown, ids); err != nil {
		t.Fatalf("second write: %v", err)
	}

	var rows []ShiftAssignment
	db.Find(&rows)
	if len(rows) != 1 {
		t.Fatalf("expected the second write to replace, not duplicate, got %d rows", len(rows))
	}
}

func TestWritePreservesManuallyCreatedRows(t *testing.T) {
	db := openTestDB(t)
	model, a, ids := testModelAndAssignment()

	manual := ShiftAssignment{ShiftID: "shift-1", PersonID: "manual-person", AutoCreated: false, Active: true}
	if err := db.Create(&manual).Error; err != nil {
		t.Fatalf("seed manual row: %v", err)
	}

	w := NewGormWriter(db)
	breakdown := cost.Evaluate(a, model, cost.DefaultWeights())
	if err := w.Write(a, model, breakdown, ids); err != nil {
		t.Fatalf("write: %v", err)
	}

	var rows []ShiftAssignment
	db.Find(&rows)
	if len(rows) != 2 {
		t.Fatalf("expected the manual row to survive alongside the new auto-created one, got %d rows", len(rows))
	}
}
