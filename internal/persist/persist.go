// Package persist implements the persistence-writer collaborator of
// spec.md §6: GORM models for the two tables it names
// (shift_assignment, shift_assignment_event) and a Writer that performs
// the idempotent "delete auto-created rows, then insert" sequence spec.md
// requires. Grounded on the teacher's pkg/database GORM/Postgres/SQLite
// setup; this package only adds the two solver-result tables alongside
// the teacher's existing APIKey/APIUsage/MasterUser ones.
package persist

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shiftsolve/shiftsolve/internal/cost"
	"github.com/shiftsolve/shiftsolve/internal/domain"
	"github.com/shiftsolve/shiftsolve/internal/ingest"
)

// ShiftAssignment is the shift_assignment table named in spec.md §6.
type ShiftAssignment struct {
	ID             uint   `gorm:"primaryKey"`
	ShiftID        string `gorm:"index;not null"`
	PersonID       string `gorm:"index;not null"`
	AutoCreated    bool   `gorm:"not null"`
	Active         bool   `gorm:"not null;default:true"`
	CostBreakdown  string
	CreatedAt      time.Time
}

// TableName pins the GORM default (which would otherwise pluralize to
// "shift_assignments") to the literal name spec.md §6 specifies.
func (ShiftAssignment) TableName() string { return "shift_assignment" }

// ShiftAssignmentEvent is the shift_assignment_event table named in
// spec.md §6: one append-only row per assignment created.
type ShiftAssignmentEvent struct {
	ID           uint `gorm:"primaryKey"`
	AssignmentID uint `gorm:"index;not null"`
	CreatedAt    time.Time
	State        string `gorm:"not null;default:'ASSIGNED'"`
}

func (ShiftAssignmentEvent) TableName() string { return "shift_assignment_event" }

// Writer is the persistence-writer boundary spec.md §6 names; a single
// GORM-backed implementation satisfies it.
type Writer interface {
	Write(assignment *domain.Assignment, model *domain.Model, breakdown cost.Breakdown, ids ingest.IDMap) error
}

// GormWriter writes solver results against an already-connected GORM
// database (the caller opens it, typically via the teacher's
// pkg/database connection setup, and migrates ShiftAssignment /
// ShiftAssignmentEvent alongside its own tables).
type GormWriter struct {
	DB *gorm.DB
}

// NewGormWriter wraps an already-migrated *gorm.DB.
func NewGormWriter(db *gorm.DB) *GormWriter {
	return &GormWriter{DB: db}
}

// Write performs spec.md §6's idempotent sequence: inside one
// transaction, delete every previously auto-created row for the shift
// ids in this assignment, then insert the new rows and their creation
// events.
func (w *GormWriter) Write(assignment *domain.Assignment, model *domain.Model, breakdown cost.Breakdown, ids ingest.IDMap) error {
	shiftWireIDs := make([]string, 0, len(model.ShiftOrder))
	for _, sid := range model.ShiftOrder {
		shiftWireIDs = append(shiftWireIDs, ids.Shift[sid])
	}

	return w.DB.Transaction(func(tx *gorm.DB) error {
		if len(shiftWireIDs) > 0 {
			if err := tx.Where("shift_id IN ? AND auto_created = ?", shiftWireIDs, true).
				Delete(&ShiftAssignment{}).Error; err != nil {
				return fmt.Errorf("delete prior auto-created assignments: %w", err)
			}
		}

		for _, sid := range model.ShiftOrder {
			for pid := range assignment.Shift(sid) {
				pb := breakdown.PerPerson[pid]
				row := ShiftAssignment{
					ShiftID:       ids.Shift[sid],
					PersonID:      ids.Person[pid],
					AutoCreated:   true,
					Active:        true,
					CostBreakdown: fmt.Sprintf("%.4f", pb.Total()),
				}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("insert assignment for shift %s: %w", ids.Shift[sid], err)
				}
				event := ShiftAssignmentEvent{AssignmentID: row.ID, State: "ASSIGNED"}
				if err := tx.Create(&event).Error; err != nil {
					return fmt.Errorf("insert assignment event for shift %s: %w", ids.Shift[sid], err)
				}
			}
		}
		return nil
	})
}
