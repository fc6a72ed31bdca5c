package sync_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"catalog-sync/feature/catalog"
	catalogsync "catalog-sync/feature/sync"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

var casUpdate = "UPDATE `sync_states` SET .+ WHERE .*status <> \\?.*started_at < \\?"

func TestGormStateStore_AcquireCompareAndSwap(t *testing.T) {
	db, mock := setupMockDB(t)
	store := catalogsync.NewGormStateStore(db)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `sync_states`")).
		WillReturnResult(sqlmock.NewResult(1, 0))
	mock.ExpectExec(casUpdate).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sync_states`")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "run_id", "cursor_offset", "cursor_page_size", "started_at"}).
			AddRow(1, "running", "run-1", 200, 100, now))

	st, err := store.Acquire(context.Background(), "run-1", now, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, catalogsync.StatusRunning, st.Status)
	assert.Equal(t, catalog.Cursor{Offset: 200, PageSize: 100}, st.Cursor())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStateStore_AcquireRefusedWhileRunning(t *testing.T) {
	db, mock := setupMockDB(t)
	store := catalogsync.NewGormStateStore(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `sync_states`")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(casUpdate).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.Acquire(context.Background(), "run-2", time.Now(), 15*time.Minute)
	assert.ErrorIs(t, err, catalogsync.ErrAlreadyRunning)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStateStore_ReleaseOnlyByOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	store := catalogsync.NewGormStateStore(db)

	mock.ExpectExec("UPDATE `sync_states` SET .+ WHERE .*run_id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Release(context.Background(), "stale-run", catalogsync.StatusCompleted, catalog.Cursor{Offset: 100, PageSize: 100}, "", time.Now())
	assert.ErrorIs(t, err, catalogsync.ErrLeaseLost)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStateStore_LoadMissingRowIsIdle(t *testing.T) {
	db, mock := setupMockDB(t)
	store := catalogsync.NewGormStateStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sync_states`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	st, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalogsync.StatusIdle, st.Status)
	assert.Zero(t, st.Offset)
}

func TestGormStateStore_LeaseTakeover(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	start := e.clock.Now()

	_, err := e.state.Acquire(ctx, "crashed", start, 15*time.Minute)
	require.NoError(t, err)

	_, err = e.state.Acquire(ctx, "second", start.Add(time.Minute), 15*time.Minute)
	assert.ErrorIs(t, err, catalogsync.ErrAlreadyRunning)

	st, err := e.state.Acquire(ctx, "third", start.Add(16*time.Minute), 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "third", st.RunID)

	// The crashed run can no longer write its result.
	err = e.state.Release(ctx, "crashed", catalogsync.StatusCompleted, catalog.Cursor{Offset: 500, PageSize: 100}, "", start)
	assert.ErrorIs(t, err, catalogsync.ErrLeaseLost)

	require.NoError(t, e.state.Release(ctx, "third", catalogsync.StatusCompleted, catalog.Cursor{Offset: 100, PageSize: 100}, "", start.Add(17*time.Minute)))
	st, err = e.state.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalogsync.StatusCompleted, st.Status)
	assert.Equal(t, 100, st.Offset)
}
