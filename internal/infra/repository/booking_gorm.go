package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/wealth-crm/internal/domain/booking"
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Template
// --------------------------------------------------

func (r *BookingGormRepository) GetTemplateByLink(
	ctx context.Context,
	link string,
) (*models.AvailabilityTemplate, error) {
	return findTemplateByLink(ctx, r.db, link)
}

// --------------------------------------------------
// Contact
// --------------------------------------------------

func (r *BookingGormRepository) GetOrCreateContact(
	ctx context.Context,
	ownerID uint,
	name string,
	email string,
	phone string,
) (*models.Contact, error) {

	email = strings.ToLower(strings.TrimSpace(email))

	var contact models.Contact
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND email = ?", ownerID, email).
		First(&contact).Error

	if err == nil {
		return &contact, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	contact = models.Contact{
		OwnerID: ownerID,
		Name:    name,
		Email:   email,
		Phone:   phone,
	}

	if err := r.db.WithContext(ctx).Create(&contact).Error; err != nil {
		return nil, err
	}

	return &contact, nil
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

func (r *BookingGormRepository) CreateBookingIfFree(
	ctx context.Context,
	b *models.Booking,
) error {

	b.StartTime = b.StartTime.UTC()
	b.EndTime = b.EndTime.UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serializes writers per template on Postgres.
		var tpl models.AvailabilityTemplate
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&tpl, b.TemplateID).Error; err != nil {
			return notFound(err, "template", b.TemplateID)
		}

		var count int64
		if err := tx.
			Model(&models.Booking{}).
			Where(
				"template_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
				b.TemplateID,
				models.BookingStatusCancelled,
				b.EndTime,
				b.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return &httperr.ConflictError{}
		}

		return tx.Omit(clause.Associations).Create(b).Error
	})

	if httperr.IsUniqueViolation(err) || httperr.IsExclusionConflict(err) {
		return &httperr.ConflictError{}
	}
	return err
}

func (r *BookingGormRepository) ListLiveBookings(
	ctx context.Context,
	templateID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {
	return listLiveBookings(ctx, r.db, templateID, start, end)
}

// --------------------------------------------------
// Booking (state change)
// --------------------------------------------------

func (r *BookingGormRepository) ownedBookings(ctx context.Context, ownerID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Joins("JOIN availability_templates ON availability_templates.id = bookings.template_id").
		Where("availability_templates.owner_id = ?", ownerID)
}

func (r *BookingGormRepository) GetBookingForOwner(
	ctx context.Context,
	bookingID uint,
	ownerID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.ownedBookings(ctx, ownerID).
		Preload("Template").
		Preload("Contact").
		Where("bookings.id = ?", bookingID).
		First(&b).Error; err != nil {
		return nil, notFound(err, "booking", bookingID)
	}

	return &b, nil
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	bookingID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Template").
		First(&b, bookingID).Error; err != nil {
		return nil, notFound(err, "booking", bookingID)
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	b.StartTime = b.StartTime.UTC()
	b.EndTime = b.EndTime.UTC()
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *BookingGormRepository) ListBookingsForOwner(
	ctx context.Context,
	ownerID uint,
	start time.Time,
	end time.Time,
	status *models.BookingStatus,
) ([]models.Booking, error) {

	q := r.ownedBookings(ctx, ownerID).
		Preload("Template").
		Preload("Contact").
		Where("bookings.start_time >= ? AND bookings.start_time < ?", start.UTC(), end.UTC())

	if status != nil {
		q = q.Where("bookings.status = ?", *status)
	}

	var bookings []models.Booking
	if err := q.Order("bookings.start_time ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingGormRepository) ListConfirmedEndedBefore(
	ctx context.Context,
	before time.Time,
	limit int,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Template").
		Where("status = ? AND end_time < ?", models.BookingStatusConfirmed, before.UTC()).
		Order("end_time ASC").
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

// Compile-time check
var _ booking.Repository = (*BookingGormRepository)(nil)
