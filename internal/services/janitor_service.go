package services

import (
	"Drive/internal/config"
	"Drive/internal/models"
	"Drive/internal/repository"
	"Drive/internal/storage"
	"context"
	"errors"
	"fmt"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"sync"
	"time"
)

type SweepReport struct {
	Files        int   `json:"files"`
	Folders      int   `json:"folders"`
	BlobFailures int   `json:"blob_failures"`
	RowsDeleted  int64 `json:"rows_deleted"`
}

// Janitor physically removes entries marked for deletion together with their
// blobs. Sweeps never overlap: a trigger that arrives while one is running is
// folded into a single rerun.
type Janitor struct {
	folderRepo    repository.FolderRepository
	fileRepo      repository.FileRepository
	blobStore     storage.BlobStore
	configuration *config.Configuration
	logService    LogService
	cleaning      bool
	rerun         bool
	stopped       bool
	catchUp       bool
	cleanID       cron.EntryID
	pending       map[cron.EntryID]struct{}
	mutex         sync.Mutex
	cron          *cron.Cron
}

func NewJanitorService(
	folderRepo repository.FolderRepository,
	fileRepo repository.FileRepository,
	blobStore storage.BlobStore,
	logService LogService,
	configuration *config.Configuration,
) *Janitor {
	return &Janitor{
		folderRepo:    folderRepo,
		fileRepo:      fileRepo,
		blobStore:     blobStore,
		logService:    logService,
		configuration: configuration,
		cron:          cron.New(),
		pending:       make(map[cron.EntryID]struct{}),
	}
}

// delaySchedule fires once, delay after the entry is registered.
type delaySchedule struct {
	delay time.Duration
	fired bool
}

func (s *delaySchedule) Next(t time.Time) time.Time {
	if s.fired {
		return time.Time{}
	}
	s.fired = true
	return t.Add(s.delay)
}

// ScheduleSweep runs a sweep once, after the configured clean delay. While the
// janitor is stopped the request is held and issued again on the next start.
func (j *Janitor) ScheduleSweep() {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	if j.stopped {
		j.catchUp = true
		j.logService.Job("clean").WithField("status", "stopped").Debug("sweep deferred until restart")
		return
	}
	j.cron.Start()
	ids := make(chan cron.EntryID, 1)
	id := j.cron.Schedule(&delaySchedule{delay: j.configuration.Server.CleanConfig.Delay}, cron.FuncJob(func() {
		id := <-ids
		j.cron.Remove(id)
		j.mutex.Lock()
		delete(j.pending, id)
		j.mutex.Unlock()
		j.runCycle("scheduled", true)
	}))
	ids <- id
	j.pending[id] = struct{}{}
	j.logService.Job("clean").WithFields(logrus.Fields{
		"status": "scheduled",
		"delay":  j.configuration.Server.CleanConfig.Delay.String(),
	}).Debug("sweep scheduled")
}

func (j *Janitor) ForceStartCleanCycle() error {
	if !j.begin(false) {
		return errors.New("cleaning is in progress")
	}
	go j.cycle("forced")
	return nil
}

func (j *Janitor) StartCleanCycle() {
	j.logService.Log.Debug("starting cleaning job")
	j.mutex.Lock()
	j.stopped = false
	catchUp := j.catchUp
	j.catchUp = false
	if j.cleanID == 0 {
		cronSchedule := j.configuration.Server.CleanConfig.Schedule
		id, err := j.cron.AddFunc(cronSchedule, func() {
			j.runCycle("cron", false)
		})
		if err != nil {
			j.logService.Job("clean").WithFields(logrus.Fields{
				"error": err.Error(),
				"cron":  cronSchedule,
			}).Error("Failed to start cleaning job")
		}
		j.cleanID = id
	}
	j.cron.Start()
	j.mutex.Unlock()
	if catchUp {
		j.ScheduleSweep()
	}
}

// StopClean halts the cron. One-shot sweeps that have not fired yet are
// dropped and issued again by the next StartCleanCycle.
func (j *Janitor) StopClean() {
	j.cron.Stop()
	j.mutex.Lock()
	j.stopped = true
	for id := range j.pending {
		j.cron.Remove(id)
		delete(j.pending, id)
		j.catchUp = true
	}
	j.mutex.Unlock()
	j.logService.Job("clean").WithField("status", "stopped").Info("Janitor clean stopped")
}

func (j *Janitor) IsCleaning() bool {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return j.cleaning
}

// begin claims the cleaning flag. When a sweep is already running and
// queueIfBusy is set, a rerun is requested instead.
func (j *Janitor) begin(queueIfBusy bool) bool {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	if j.cleaning {
		if queueIfBusy {
			j.rerun = true
		}
		return false
	}
	j.cleaning = true
	return true
}

func (j *Janitor) runCycle(trigger string, queueIfBusy bool) {
	if !j.begin(queueIfBusy) {
		return
	}
	j.cycle(trigger)
}

func (j *Janitor) cycle(trigger string) {
	for {
		j.startClean(trigger)

		j.mutex.Lock()
		if !j.rerun {
			j.cleaning = false
			j.mutex.Unlock()
			return
		}
		j.rerun = false
		j.mutex.Unlock()
		trigger = "rerun"
	}
}

func (j *Janitor) startClean(trigger string) {
	log := j.logService.Job("clean")
	report, err := j.Sweep(context.Background())
	if err != nil {
		log.WithFields(logrus.Fields{
			"status":  "error",
			"trigger": trigger,
			"error":   err.Error(),
		}).Error("cleaning job failed")
		return
	}
	if report.Files+report.Folders == 0 {
		return
	}
	log.WithFields(logrus.Fields{
		"status":        "success",
		"trigger":       trigger,
		"files":         report.Files,
		"folders":       report.Folders,
		"rows_deleted":  report.RowsDeleted,
		"blob_failures": report.BlobFailures,
	}).Info("cleaning job finished")
}

// Sweep deletes the blobs of every file marked for deletion, then the marked
// rows themselves. A file whose blob could not be deleted keeps its row so the
// next sweep retries it; rows marked after the read are left for the next
// sweep as well.
func (j *Janitor) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport
	files, err := j.fileRepo.FindDeleted()
	if err != nil {
		return report, fmt.Errorf("failed to find deleted files: %w", err)
	}
	folders, err := j.folderRepo.FindDeleted()
	if err != nil {
		return report, fmt.Errorf("failed to find deleted folders: %w", err)
	}
	report.Files = len(files)
	report.Folders = len(folders)
	if report.Files+report.Folders == 0 {
		return report, nil
	}

	failed := j.deleteBlobs(ctx, files)
	report.BlobFailures = len(failed)

	fileIDs := make([]string, 0, len(files))
	for i := range files {
		if _, ok := failed[files[i].ID]; ok {
			continue
		}
		fileIDs = append(fileIDs, files[i].ID)
	}
	deleted, err := j.fileRepo.HardDeleteByIDs(fileIDs)
	report.RowsDeleted += deleted
	if err != nil {
		return report, fmt.Errorf("failed to delete file rows: %w", err)
	}

	folderIDs := make([]string, 0, len(folders))
	for i := range folders {
		folderIDs = append(folderIDs, folders[i].ID)
	}
	deleted, err = j.folderRepo.HardDeleteByIDs(folderIDs)
	report.RowsDeleted += deleted
	if err != nil {
		return report, fmt.Errorf("failed to delete folder rows: %w", err)
	}
	return report, nil
}

// deleteBlobs issues every blob delete concurrently and returns the failures
// keyed by file id.
func (j *Janitor) deleteBlobs(ctx context.Context, files []models.File) map[string]error {
	var mu sync.Mutex
	failed := make(map[string]error)

	workers := j.configuration.Server.CleanConfig.Workers
	if workers < 1 {
		workers = -1
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range files {
		file := files[i]
		if file.Key == "" {
			continue
		}
		g.Go(func() error {
			if err := j.blobStore.Delete(ctx, file.Key); err != nil {
				mu.Lock()
				failed[file.ID] = err
				mu.Unlock()
				j.logService.Job("clean").WithFields(logrus.Fields{
					"status": "orphan risk",
					"file":   file.ID,
					"key":    file.Key,
					"error":  err.Error(),
				}).Warn("blob delete failed, row kept for retry")
			}
			return nil
		})
	}
	_ = g.Wait()
	return failed
}
