package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBackupJob_InvalidSchedule(t *testing.T) {
	job := NewBackupJob("not a schedule", func() {}, logger.NewNopLogger())
	assert.Error(t, job.SetupAndStart())
}

func TestBackupJob_StartStop(t *testing.T) {
	job := NewBackupJob("@every 1h", func() {}, logger.NewNopLogger())
	require.NoError(t, job.SetupAndStart())
	job.Stop()
}

func TestBackupJob_EmptyScheduleDisabled(t *testing.T) {
	job := NewBackupJob("", func() { t.Fatal("must not run") }, logger.NewNopLogger())
	require.NoError(t, job.SetupAndStart())
	job.Stop()
}

func TestKeyValueFields(t *testing.T) {
	fields := keyValueFields([]interface{}{"entry", 3, "dangling"})
	assert.Equal(t, []zap.Field{zap.Any("entry", 3), zap.Any("dangling", "MISSING_VALUE")}, fields)
}
