package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-sync/feature/catalog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stateRowID is the id of the single status row.
const stateRowID = 1

// State is the persisted status and cursor of the sync source.
type State struct {
	ID         uint       `gorm:"primaryKey;column:id"`
	Status     Status     `gorm:"column:status;type:varchar(16);not null;default:idle"`
	RunID      string     `gorm:"column:run_id;type:varchar(36)"`
	Offset     int        `gorm:"column:cursor_offset;not null;default:0"`
	PageSize   int        `gorm:"column:cursor_page_size;not null;default:0"`
	StartedAt  *time.Time `gorm:"column:started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at"`
	LastError  string     `gorm:"column:last_error;type:text"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (State) TableName() string {
	return "sync_states"
}

// Cursor returns the persisted cursor.
func (s State) Cursor() catalog.Cursor {
	return catalog.Cursor{Offset: s.Offset, PageSize: s.PageSize}
}

// StateStore persists the run status and cursor.
type StateStore interface {
	// Acquire atomically moves the status to running. It fails with
	// ErrAlreadyRunning while another run holds an unexpired lease.
	Acquire(ctx context.Context, runID string, now time.Time, lease time.Duration) (State, error)

	// Release records the final status and next cursor of runID.
	Release(ctx context.Context, runID string, status Status, next catalog.Cursor, lastErr string, now time.Time) error

	// Load returns the current state. A missing row reads as idle.
	Load(ctx context.Context) (State, error)
}

// GormStateStore keeps the state in a single sync_states row.
type GormStateStore struct {
	db *gorm.DB
}

// NewGormStateStore creates a state store on top of db.
func NewGormStateStore(db *gorm.DB) *GormStateStore {
	return &GormStateStore{db: db}
}

// Migrate creates or updates the sync_states table.
func (s *GormStateStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&State{})
}

// Acquire implements StateStore with a conditional UPDATE: the row only
// changes when it is not running or its lease has expired, so exactly one
// caller sees RowsAffected == 1.
func (s *GormStateStore) Acquire(ctx context.Context, runID string, now time.Time, lease time.Duration) (State, error) {
	db := s.db.WithContext(ctx)

	seed := State{ID: stateRowID, Status: StatusIdle}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return State{}, fmt.Errorf("failed to initialize sync state: %w", err)
	}

	cutoff := now.Add(-lease)
	res := db.Model(&State{}).
		Where("id = ? AND (status <> ? OR started_at IS NULL OR started_at < ?)", stateRowID, StatusRunning, cutoff).
		Updates(map[string]any{
			"status":      StatusRunning,
			"run_id":      runID,
			"started_at":  now,
			"finished_at": nil,
			"last_error":  "",
		})
	if res.Error != nil {
		return State{}, fmt.Errorf("failed to acquire sync lock: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return State{}, ErrAlreadyRunning
	}

	return s.Load(ctx)
}

// Release implements StateStore. It only touches the row while runID still
// owns it.
func (s *GormStateStore) Release(ctx context.Context, runID string, status Status, next catalog.Cursor, lastErr string, now time.Time) error {
	res := s.db.WithContext(ctx).Model(&State{}).
		Where("id = ? AND run_id = ?", stateRowID, runID).
		Updates(map[string]any{
			"status":           status,
			"cursor_offset":    next.Offset,
			"cursor_page_size": next.PageSize,
			"finished_at":      now,
			"last_error":       lastErr,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to release sync lock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLeaseLost
	}
	return nil
}

// Load implements StateStore.
func (s *GormStateStore) Load(ctx context.Context) (State, error) {
	var st State
	err := s.db.WithContext(ctx).First(&st, stateRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return State{ID: stateRowID, Status: StatusIdle}, nil
		}
		return State{}, fmt.Errorf("failed to load sync state: %w", err)
	}
	return st, nil
}
