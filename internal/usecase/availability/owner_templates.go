package availability

import (
	"context"

	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/availability"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

type ListTemplates struct {
	repo domain.Repository
}

func NewListTemplates(repo domain.Repository) *ListTemplates {
	return &ListTemplates{repo: repo}
}

func (uc *ListTemplates) Execute(ctx context.Context, ownerID uint) ([]models.AvailabilityTemplate, error) {
	return uc.repo.ListTemplatesForOwner(ctx, ownerID)
}

type GetTemplate struct {
	repo domain.Repository
}

func NewGetTemplate(repo domain.Repository) *GetTemplate {
	return &GetTemplate{repo: repo}
}

func (uc *GetTemplate) Execute(ctx context.Context, ownerID, templateID uint) (*models.AvailabilityTemplate, error) {
	return uc.repo.GetTemplateForOwner(ctx, templateID, ownerID)
}
