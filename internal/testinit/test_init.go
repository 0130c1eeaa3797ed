package test_init

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nivschuman/ElectionLifecycle/internal/clock"
	db "github.com/nivschuman/ElectionLifecycle/internal/database/connection"
	repositories "github.com/nivschuman/ElectionLifecycle/internal/database/repositories"
	"github.com/nivschuman/ElectionLifecycle/internal/events"
	structures "github.com/nivschuman/ElectionLifecycle/internal/structures"
)

var TestNow = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

var (
	loggerOnce sync.Once
	testLogger *logger.Logger
)

// InitTestLogger sets up the default logger once per test binary, discarding info output.
func InitTestLogger() *logger.Logger {
	loggerOnce.Do(func() {
		testLogger = logger.Init("elections-test", false, false, io.Discard)
	})
	return testLogger
}

type TestEnv struct {
	DB       *gorm.DB
	Repos    *repositories.Repositories
	Clock    *clock.MockClock
	Locks    *structures.LockMap
	Recorder *events.Recorder
}

// NewTestEnv opens a fresh in memory database closed when the test ends.
func NewTestEnv(t testing.TB) *TestEnv {
	t.Helper()
	InitTestLogger()

	gormDB, err := db.OpenDatabase(db.InMemory)
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		if err := db.CloseDatabaseConnection(gormDB); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	return &TestEnv{
		DB:       gormDB,
		Repos:    repositories.NewRepositories(gormDB),
		Clock:    clock.NewMockClock(TestNow),
		Locks:    structures.NewLockMap(),
		Recorder: events.NewRecorder(),
	}
}
