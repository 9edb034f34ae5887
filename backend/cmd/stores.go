package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/greatchat/onboarding/backend/config"
	"github.com/greatchat/onboarding/backend/service"
)

// openStores returns the draft/session-flag store and the document storage.
// With MinIO disabled both live in process memory.
var openStores = func(ctx context.Context, cfg *config.Config) (service.KVStore, service.DocumentStorage, error) {
	if !cfg.Minio.Enabled {
		slog.Info("minio disabled, keeping drafts in memory and discarding uploads")
		return service.NewMemoryKVStore(), service.DiscardStorage{}, nil
	}

	minioSvc, err := service.NewMinioService(&cfg.Minio)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize MINIO service: %w", err)
	}
	if err := minioSvc.EnsureBucket(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure MINIO bucket: %w", err)
	}
	return minioSvc, minioSvc, nil
}
