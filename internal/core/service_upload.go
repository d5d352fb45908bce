package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/chemlab/internal/logging"
	"github.com/JonMunkholm/chemlab/internal/metrics"
)

type activeUpload struct {
	ID          string
	DirectoryID DirectoryID
	FileName    string
	Done        chan struct{}

	mu        sync.Mutex
	progress  UploadProgress
	result    *UploadResult
	listeners []chan UploadProgress
}

// ParseFile checks size against the upload limit, then decodes and parses r.
// It touches no workspace state, so several files may be parsed at once
// and committed later with AddFile. onRead, if set, receives the raw byte
// count as the parse advances.
func (s *Service) ParseFile(ctx context.Context, fileName string, r io.Reader, size int64, mode ParseMode, onRead func(bytesRead int64)) (Content, error) {
	if size > s.cfg.MaxFileSize {
		return Content{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, size, s.cfg.MaxFileSize)
	}

	decoded, counter := WrapForStreaming(r, size)
	if onRead != nil {
		counter.OnProgress(onRead)
	}
	content, err := ParseCSV(fileName, decoded, mode)
	if err != nil {
		metrics.RecordFileIngested(metrics.StatusParseFailure)
		logging.FromContext(ctx).Warn("csv parse failed", "file", fileName, "bytes_read", counter.BytesRead(), "error", err)
		return Content{}, err
	}
	return content, nil
}

// ImportCSV parses r and stores the result under directoryID in one step.
// A parse failure leaves the workspace unchanged.
func (s *Service) ImportCSV(ctx context.Context, directoryID DirectoryID, fileName string, r io.Reader, size int64, mode ParseMode) (FileRecord, error) {
	if !s.hasDirectory(directoryID) {
		return FileRecord{}, fmt.Errorf("%w: %d", ErrInvalidDirectory, directoryID)
	}
	content, err := s.ParseFile(ctx, fileName, r, size, mode, nil)
	if err != nil {
		return FileRecord{}, err
	}
	return s.AddFile(ctx, fileName, directoryID, content)
}

// StartUpload begins reading and parsing fileData in the background and
// returns the upload id immediately. The file is stored only once parsing
// succeeds. Concurrent uploads complete in whatever order their parses
// finish, which need not match the order they were started.
//
// Returns ErrTooManyUploads if no upload slot frees up in time.
func (s *Service) StartUpload(ctx context.Context, directoryID DirectoryID, fileName string, fileData []byte, mode ParseMode) (string, error) {
	if !s.hasDirectory(directoryID) {
		return "", fmt.Errorf("%w: %d", ErrInvalidDirectory, directoryID)
	}
	if int64(len(fileData)) > s.cfg.MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(fileData), s.cfg.MaxFileSize)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}

	uploadID := uuid.New().String()
	upload := &activeUpload{
		ID:          uploadID,
		DirectoryID: directoryID,
		FileName:    fileName,
		Done:        make(chan struct{}),
		progress: UploadProgress{
			UploadID:    uploadID,
			DirectoryID: directoryID,
			FileName:    fileName,
			Phase:       PhaseReading,
			BytesTotal:  int64(len(fileData)),
		},
	}

	s.uploadsMu.Lock()
	s.uploads[uploadID] = upload
	s.uploadsMu.Unlock()

	logger := logging.WithFields(ctx, "upload_id", uploadID, "file", fileName, "directory_id", directoryID)
	logger.Info("upload started", "bytes", len(fileData))

	// Detach from the request: the upload outlives the HTTP call.
	uploadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.UploadTimeout)

	go func() {
		defer s.limiter.Release()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in upload", "panic", r)
				upload.finish(&UploadResult{
					UploadID:    uploadID,
					DirectoryID: directoryID,
					FileName:    fileName,
					Error:       fmt.Sprintf("internal error: %v", r),
					Err:         fmt.Errorf("internal error: %v", r),
				})
			}
		}()
		s.processUpload(uploadCtx, upload, fileData, mode)
	}()

	return uploadID, nil
}

// processUpload runs the read+parse suspend point, then commits atomically.
func (s *Service) processUpload(ctx context.Context, upload *activeUpload, fileData []byte, mode ParseMode) {
	start := time.Now()
	defer s.cleanup(upload.ID)

	logger := logging.WithFields(ctx, "upload_id", upload.ID, "file", upload.FileName)
	result := &UploadResult{
		UploadID:    upload.ID,
		DirectoryID: upload.DirectoryID,
		FileName:    upload.FileName,
	}

	fail := func(err error) {
		result.Err = err
		result.Error = err.Error()
		result.Duration = time.Since(start)
		upload.finish(result)
	}

	content, err := s.ParseFile(ctx, upload.FileName, bytes.NewReader(fileData), int64(len(fileData)), mode, func(n int64) {
		upload.setPhase(PhaseReading, n)
	})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		logger.Warn("upload failed", "error", err)
		fail(err)
		return
	}

	rec, err := s.AddFile(ctx, upload.FileName, upload.DirectoryID, content)
	if err != nil {
		fail(err)
		return
	}

	result.File = &rec
	result.Rows = len(rec.Content.Rows)
	result.Columns = len(rec.Content.Header)
	result.Duration = time.Since(start)
	upload.finish(result)
	logger.Info("upload completed", "file_id", rec.ID, "rows", result.Rows, "duration_ms", result.Duration.Milliseconds())
}

func (s *Service) hasDirectory(id DirectoryID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Has(id)
}

func (s *Service) lookupUpload(uploadID string) (*activeUpload, error) {
	s.uploadsMu.RLock()
	upload, ok := s.uploads[uploadID]
	s.uploadsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUploadNotFound, uploadID)
	}
	return upload, nil
}

// UploadProgress returns the current progress without blocking.
func (s *Service) UploadProgress(uploadID string) (UploadProgress, error) {
	upload, err := s.lookupUpload(uploadID)
	if err != nil {
		return UploadProgress{}, err
	}
	upload.mu.Lock()
	defer upload.mu.Unlock()
	return upload.progress, nil
}

// SubscribeProgress returns a channel that receives progress updates.
// The channel is closed when the upload finishes.
func (s *Service) SubscribeProgress(uploadID string) (<-chan UploadProgress, error) {
	upload, err := s.lookupUpload(uploadID)
	if err != nil {
		return nil, err
	}

	ch := make(chan UploadProgress, 4)
	upload.mu.Lock()
	defer upload.mu.Unlock()

	ch <- upload.progress
	if upload.result != nil {
		close(ch)
		return ch, nil
	}
	upload.listeners = append(upload.listeners, ch)
	return ch, nil
}

// UploadResult waits for the upload to finish and returns its result.
func (s *Service) UploadResult(ctx context.Context, uploadID string) (*UploadResult, error) {
	upload, err := s.lookupUpload(uploadID)
	if err != nil {
		return nil, err
	}

	select {
	case <-upload.Done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	upload.mu.Lock()
	defer upload.mu.Unlock()
	return upload.result, nil
}

// UploadLimiterStatus reports upload slot usage.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// cleanup forgets a finished upload after the retention period.
func (s *Service) cleanup(uploadID string) {
	time.AfterFunc(s.cfg.ResultRetention, func() {
		s.uploadsMu.Lock()
		delete(s.uploads, uploadID)
		s.uploadsMu.Unlock()
	})
}

func (u *activeUpload) setPhase(phase UploadPhase, bytesRead int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.progress.Phase = phase
	u.progress.BytesRead = bytesRead
	u.notifyLocked()
}

// finish records the result, notifies listeners and closes Done. Only the
// first call has any effect.
func (u *activeUpload) finish(result *UploadResult) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.result != nil {
		return
	}

	u.result = result
	if result.Err != nil {
		u.progress.Phase = PhaseFailed
		u.progress.Error = result.Error
	} else {
		u.progress.Phase = PhaseComplete
		u.progress.BytesRead = u.progress.BytesTotal
	}
	u.notifyLocked()

	for _, ch := range u.listeners {
		close(ch)
	}
	u.listeners = nil
	close(u.Done)
}

// notifyLocked sends the current progress to listeners without blocking.
func (u *activeUpload) notifyLocked() {
	for _, ch := range u.listeners {
		select {
		case ch <- u.progress:
		default:
			// Listener is slow, skip this update
		}
	}
}
