package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveArchiver copies uploaded Drive files into a fresh folder per deal
// under a configured parent.
type DriveArchiver struct {
	srv      *drive.Service
	parentID string
	now      func() time.Time
	logger   *zap.Logger
}

func NewDriveArchiver(ctx context.Context, parentID string, logger *zap.Logger, opts ...option.ClientOption) (*DriveArchiver, error) {
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &DriveArchiver{srv: srv, parentID: parentID, now: time.Now, logger: logger}, nil
}

func (a *DriveArchiver) ArchiveDocuments(ctx context.Context, dealID uint, docs []models.Document) (string, error) {
	at := a.now()

	folder, err := a.srv.Files.Create(&drive.File{
		Name:     folderName(dealID, at),
		MimeType: folderMimeType,
		Parents:  []string{a.parentID},
	}).Context(ctx).Fields("id", "webViewLink").Do()
	if err != nil {
		return "", fmt.Errorf("create archive folder: %w", err)
	}

	for _, d := range docs {
		if _, err := a.srv.Files.Copy(d.StorageKey, &drive.File{
			Name:    fmt.Sprintf("%d-%s", d.ID, d.FileName),
			Parents: []string{folder.Id},
		}).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("copy document %d: %w", d.ID, err)
		}
	}

	body, err := buildManifest(dealID, docs, at)
	if err != nil {
		return "", fmt.Errorf("build manifest: %w", err)
	}
	if _, err := a.srv.Files.Create(&drive.File{
		Name:     "manifest.json",
		MimeType: "application/json",
		Parents:  []string{folder.Id},
	}).Media(bytes.NewReader(body)).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}

	location := folder.WebViewLink
	if location == "" {
		location = "drive://" + folder.Id
	}

	a.logger.Info("documents archived",
		zap.Uint("deal_id", dealID),
		zap.Int("documents", len(docs)),
		zap.String("location", location),
	)
	return location, nil
}
