// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

// NewDB opens a migrated in-memory SQLite database. A single connection
// keeps every query on the same in-memory schema, which also serializes
// concurrent transactions.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func Logger() *zap.Logger {
	return zap.NewNop()
}

// ===============================
// Fixtures
// ===============================

func CreateUser(t testing.TB, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{
		Name:         "Advisor",
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleAdvisor,
		Timezone:     "UTC",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateTemplate stores an active UTC template open Monday to Friday
// 09:00-17:00.
func CreateTemplate(t testing.TB, db *gorm.DB, ownerID uint, link string, duration, buffer int) *models.AvailabilityTemplate {
	t.Helper()
	tpl := &models.AvailabilityTemplate{
		OwnerID:         ownerID,
		Name:            "Intro call",
		DurationMinutes: duration,
		BufferMinutes:   buffer,
		BookingLink:     link,
		IsActive:        true,
		Timezone:        "UTC",
	}
	for d := 1; d <= 5; d++ {
		tpl.Rules = append(tpl.Rules, models.AvailabilityRule{
			DayOfWeek:   d,
			StartTime:   "09:00",
			EndTime:     "17:00",
			IsAvailable: true,
		})
	}
	if err := db.Create(tpl).Error; err != nil {
		t.Fatalf("create template: %v", err)
	}
	return tpl
}

func CreateDeal(t testing.TB, db *gorm.DB, ownerID uint, stage models.DealStage, kyc models.KYCStatus) *models.Deal {
	t.Helper()
	contact := &models.Contact{OwnerID: ownerID, Name: "Client", Email: fmt.Sprintf("client-%d@example.com", time.Now().UnixNano())}
	if err := db.Create(contact).Error; err != nil {
		t.Fatalf("create contact: %v", err)
	}
	d := &models.Deal{
		OwnerID:   ownerID,
		Name:      "Portfolio onboarding",
		Stage:     stage,
		KYCStatus: kyc,
		ContactID: &contact.ID,
		Version:   1,
	}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("create deal: %v", err)
	}
	return d
}
