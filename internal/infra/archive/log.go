package archive

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

// LogArchiver records the manifest in the log only. Used when no archive
// backend is configured.
type LogArchiver struct {
	logger *zap.Logger
}

func NewLogArchiver(logger *zap.Logger) *LogArchiver {
	return &LogArchiver{logger: logger}
}

func (a *LogArchiver) ArchiveDocuments(ctx context.Context, dealID uint, docs []models.Document) (string, error) {
	at := time.Now()
	body, err := buildManifest(dealID, docs, at)
	if err != nil {
		return "", fmt.Errorf("build manifest: %w", err)
	}

	a.logger.Info("archive backend disabled, manifest logged",
		zap.Uint("deal_id", dealID),
		zap.ByteString("manifest", body),
	)
	return "log://" + folderName(dealID, at), nil
}
