// Package archive copies a deal's verified documents into long-term
// storage and returns where they ended up.
package archive

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

type manifestEntry struct {
	DocumentID uint                `json:"document_id"`
	Kind       models.DocumentKind `json:"kind"`
	FileName   string              `json:"file_name"`
	Source     string              `json:"source"`
}

type manifest struct {
	DealID     uint            `json:"deal_id"`
	ArchivedAt time.Time       `json:"archived_at"`
	Documents  []manifestEntry `json:"documents"`
}

func buildManifest(dealID uint, docs []models.Document, at time.Time) ([]byte, error) {
	m := manifest{DealID: dealID, ArchivedAt: at.UTC(), Documents: []manifestEntry{}}
	for _, d := range docs {
		m.Documents = append(m.Documents, manifestEntry{
			DocumentID: d.ID,
			Kind:       d.Kind,
			FileName:   d.FileName,
			Source:     d.StorageKey,
		})
	}
	return json.MarshalIndent(m, "", "  ")
}

// folderName is the per-run archive directory for a deal.
func folderName(dealID uint, at time.Time) string {
	return fmt.Sprintf("deal-%d/%s", dealID, at.UTC().Format("20060102T150405Z"))
}
