package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/pkg/logger"
)

// BackupJob runs a backup function on a cron schedule.
type BackupJob struct {
	run           func()
	schedule      string
	logger        logger.Logger
	cronScheduler *cron.Cron
}

func NewBackupJob(schedule string, run func(), log logger.Logger) *BackupJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(log)), cron.WithChain(cron.SkipIfStillRunning(NewCronLogger(log))))
	return &BackupJob{
		run:           run,
		schedule:      schedule,
		logger:        log,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules the job and starts the scheduler. An empty schedule
// disables the job.
func (j *BackupJob) SetupAndStart() error {
	if j.schedule == "" {
		j.logger.Warn("Backup schedule not defined (BACKUP_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(j.schedule, j.run)
	if err != nil {
		return fmt.Errorf("failed to schedule backup job %q: %w", j.schedule, err)
	}

	j.logger.Info("Backup job scheduled", zap.String("spec", j.schedule), zap.Int("job_id", int(jobID)))
	j.cronScheduler.Start()
	return nil
}

func (j *BackupJob) Stop() {
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Backup scheduler stopped")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Backup scheduler stop timed out")
	}
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func NewCronLogger(log logger.Logger) cron.Logger {
	return &cronLogger{log: log}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.log.Debug(msg, keyValueFields(keysAndValues)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	cl.log.Error(msg, err, keyValueFields(keysAndValues)...)
}

func keyValueFields(keysAndValues []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2+1)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(key, keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(key, "MISSING_VALUE"))
		}
	}
	return fields
}
