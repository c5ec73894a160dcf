package deal

import (
	"context"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Archiver pushes documents to long-term storage and returns where they
// were put.
type Archiver interface {
	ArchiveDocuments(ctx context.Context, dealID uint, docs []models.Document) (string, error)
}
