package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/wealth-crm/internal/domain/availability"
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

type TemplateGormRepository struct {
	db *gorm.DB
}

func NewTemplateGormRepository(db *gorm.DB) *TemplateGormRepository {
	return &TemplateGormRepository{db: db}
}

func orderedRules(db *gorm.DB) *gorm.DB {
	return db.Order("day_of_week ASC, position ASC, start_time ASC")
}

func findTemplateByLink(ctx context.Context, db *gorm.DB, link string) (*models.AvailabilityTemplate, error) {
	var tpl models.AvailabilityTemplate
	if err := db.WithContext(ctx).
		Preload("Rules", orderedRules).
		Where("booking_link = ?", link).
		First(&tpl).Error; err != nil {
		return nil, notFound(err, "template", link)
	}
	return &tpl, nil
}

// notFound turns gorm's sentinel into the typed error handlers map to 404.
func notFound(err error, entity string, key any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFoundf(entity, key)
	}
	return err
}

// listLiveBookings returns non-cancelled bookings overlapping [start,end).
func listLiveBookings(ctx context.Context, db *gorm.DB, templateID uint, start, end time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := db.WithContext(ctx).
		Where(
			"template_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			templateID,
			models.BookingStatusCancelled,
			end.UTC(),
			start.UTC(),
		).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Template (public)
// --------------------------------------------------

func (r *TemplateGormRepository) GetTemplateByLink(
	ctx context.Context,
	link string,
) (*models.AvailabilityTemplate, error) {
	return findTemplateByLink(ctx, r.db, link)
}

// --------------------------------------------------
// Template (owner)
// --------------------------------------------------

func (r *TemplateGormRepository) GetTemplateForOwner(
	ctx context.Context,
	templateID uint,
	ownerID uint,
) (*models.AvailabilityTemplate, error) {

	var tpl models.AvailabilityTemplate
	if err := r.db.WithContext(ctx).
		Preload("Rules", orderedRules).
		Where("id = ? AND owner_id = ?", templateID, ownerID).
		First(&tpl).Error; err != nil {
		return nil, notFound(err, "template", templateID)
	}
	return &tpl, nil
}

func (r *TemplateGormRepository) ListTemplatesForOwner(
	ctx context.Context,
	ownerID uint,
) ([]models.AvailabilityTemplate, error) {

	var tpls []models.AvailabilityTemplate
	if err := r.db.WithContext(ctx).
		Preload("Rules", orderedRules).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&tpls).Error; err != nil {
		return nil, err
	}
	return tpls, nil
}

func (r *TemplateGormRepository) BookingLinkExists(
	ctx context.Context,
	link string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AvailabilityTemplate{}).
		Where("booking_link = ?", link).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TemplateGormRepository) CreateTemplate(
	ctx context.Context,
	tpl *models.AvailabilityTemplate,
) error {
	err := r.db.WithContext(ctx).Create(tpl).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.ErrBusiness("booking_link_taken")
	}
	return err
}

func (r *TemplateGormRepository) UpdateTemplate(
	ctx context.Context,
	tpl *models.AvailabilityTemplate,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(tpl).Error; err != nil {
			return err
		}

		if err := tx.
			Where("template_id = ?", tpl.ID).
			Delete(&models.AvailabilityRule{}).Error; err != nil {
			return err
		}

		if len(tpl.Rules) == 0 {
			return nil
		}

		for i := range tpl.Rules {
			tpl.Rules[i].ID = 0
			tpl.Rules[i].TemplateID = tpl.ID
			tpl.Rules[i].Position = i
		}
		return tx.Create(&tpl.Rules).Error
	})

	if httperr.IsUniqueViolation(err) {
		return httperr.ErrBusiness("booking_link_taken")
	}
	return err
}

// --------------------------------------------------
// Bookings
// --------------------------------------------------

func (r *TemplateGormRepository) ListLiveBookings(
	ctx context.Context,
	templateID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {
	return listLiveBookings(ctx, r.db, templateID, start, end)
}

// Compile-time check
var _ availability.Repository = (*TemplateGormRepository)(nil)
