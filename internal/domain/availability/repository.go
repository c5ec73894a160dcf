package availability

import (
	"context"
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

type Repository interface {
	// -------- Template (public) --------
	GetTemplateByLink(
		ctx context.Context,
		link string,
	) (*models.AvailabilityTemplate, error)

	// -------- Template (owner) --------
	GetTemplateForOwner(
		ctx context.Context,
		templateID uint,
		ownerID uint,
	) (*models.AvailabilityTemplate, error)

	ListTemplatesForOwner(
		ctx context.Context,
		ownerID uint,
	) ([]models.AvailabilityTemplate, error)

	BookingLinkExists(
		ctx context.Context,
		link string,
	) (bool, error)

	CreateTemplate(
		ctx context.Context,
		tpl *models.AvailabilityTemplate,
	) error

	// UpdateTemplate saves the template columns and replaces its rule set.
	UpdateTemplate(
		ctx context.Context,
		tpl *models.AvailabilityTemplate,
	) error

	// -------- Bookings --------
	ListLiveBookings(
		ctx context.Context,
		templateID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)
}
