package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/application/service"
	"github.com/khoahotran/career-compass/internal/domain/plan"
	"github.com/khoahotran/career-compass/pkg/apperror"
	"github.com/khoahotran/career-compass/pkg/logger"
)

const (
	DefaultFolder  = "backups/plans"
	snapshotPrefix = "plans-"
)

var tracer = otel.Tracer("backup_usecase")

// Snapshot is the document uploaded by a backup run.
type Snapshot struct {
	GeneratedAt time.Time          `json:"generatedAt"`
	Count       int                `json:"count"`
	Plans       []*plan.CareerPlan `json:"plans"`
}

type BackupOutput struct {
	URL      string
	PublicID string
	Count    int
	// Pruned is the number of older snapshots deleted after this upload.
	Pruned int
}

type BackupUseCase struct {
	planRepo plan.Repository
	uploader service.Uploader
	folder   string
	keep     int
	now      func() time.Time
	logger   logger.Logger
}

// NewBackupUseCase keeps the newest keep snapshots in folder; keep <= 0
// disables pruning.
func NewBackupUseCase(repo plan.Repository, uploader service.Uploader, folder string, keep int, log logger.Logger) *BackupUseCase {
	if folder == "" {
		folder = DefaultFolder
	}
	return &BackupUseCase{
		planRepo: repo,
		uploader: uploader,
		folder:   folder,
		keep:     keep,
		now:      time.Now,
		logger:   log,
	}
}

func (uc *BackupUseCase) Execute(ctx context.Context) (*BackupOutput, error) {
	ctx, span := tracer.Start(ctx, "BackupPlans")
	defer span.End()

	uc.logger.Info("Starting plan backup...")

	plans, err := uc.planRepo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to list plans for backup", err)
	}

	now := uc.now().UTC()
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Snapshot{GeneratedAt: now, Count: len(plans), Plans: plans}); err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to encode backup", err)
	}

	publicID := fmt.Sprintf("%s%s.json", snapshotPrefix, now.Format("2006-01-02_15-04-05"))
	uploadURL, err := uc.uploader.Upload(ctx, &out, uc.folder, publicID)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewExternalService("cloudinary", err)
	}

	uc.logger.Info("Plan backup completed and uploaded successfully",
		zap.String("url", uploadURL),
		zap.String("public_id", publicID),
		zap.Int("plans", len(plans)),
	)
	pruned := uc.prune(ctx)
	return &BackupOutput{URL: uploadURL, PublicID: publicID, Count: len(plans), Pruned: pruned}, nil
}

// prune deletes the oldest snapshots beyond the retention count. Snapshot ids
// embed their timestamp, so lexical order is chronological. Failures are
// logged and never fail the backup that just succeeded.
func (uc *BackupUseCase) prune(ctx context.Context) int {
	if uc.keep <= 0 {
		return 0
	}
	ids, err := uc.uploader.List(ctx, path.Join(uc.folder, snapshotPrefix))
	if err != nil {
		uc.logger.Warn("Failed to list old plan backups", zap.Error(err))
		return 0
	}
	if len(ids) <= uc.keep {
		return 0
	}
	slices.Sort(ids)

	pruned := 0
	for _, id := range ids[:len(ids)-uc.keep] {
		if err := uc.uploader.Delete(ctx, id); err != nil {
			uc.logger.Warn("Failed to delete old plan backup", zap.String("public_id", id), zap.Error(err))
			continue
		}
		pruned++
	}
	uc.logger.Info("Pruned old plan backups", zap.Int("deleted", pruned), zap.Int("kept", uc.keep))
	return pruned
}

// RunScheduled is the cron entry point; errors are logged only.
func (uc *BackupUseCase) RunScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := uc.Execute(ctx); err != nil {
		uc.logger.Error("Scheduled plan backup failed", err)
	}
}
