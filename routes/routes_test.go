package routes

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/ShahjahanMirza/Book-Play-sub000/models"
	"github.com/ShahjahanMirza/Book-Play-sub000/storage"
	"github.com/ShahjahanMirza/Book-Play-sub000/utils"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildTestApp wires the real routes, verifier and role middleware the
// way main.go does, against whatever storage.DB the test installed.
func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	availability := app.Party("/api/availability")
	{
		availability.Get("/venue/{id:uint}", GetVenueAvailability)
		availability.Get("/venue/{id:uint}/slots", GetAvailableSlots)
	}

	booking := app.Party("/api/booking")
	{
		booking.Post("/venue/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, CreateBooking)
		booking.Get("/owner", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, GetOwnerBookings)
		booking.Patch("/{id:uint}/status", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, UpdateBookingStatus)
		booking.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, CancelBooking)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", AdminListUsers)
		admin.Patch("/venues/{id:uint}/approval", AdminUpdateVenueApproval)
	}

	_ = app.Build()
	return app
}

// signTestToken returns a signed JWT for the given user
func signTestToken(id uint, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Venue{},
		&models.Field{},
		&models.TimeSlot{},
		&models.Booking{},
		&models.BookingSlot{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	storage.DB = db
}

func createTestUser(t *testing.T, name, role string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@test.local", Role: role}
	if err := storage.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createTestVenue(t *testing.T, ownerID uint, opening, closing string, days []int) *models.Venue {
	t.Helper()
	raw, err := json.Marshal(days)
	if err != nil {
		t.Fatalf("failed to marshal days: %v", err)
	}
	venue := &models.Venue{
		OwnerID:        ownerID,
		Name:           "Test Arena",
		Address:        "12 Stadium Road",
		City:           "Karachi",
		OpeningTime:    opening,
		ClosingTime:    closing,
		DaysAvailable:  datatypes.JSON(raw),
		DayCharges:     10,
		NightCharges:   20,
		Status:         "open",
		ApprovalStatus: "approved",
	}
	if err := storage.DB.Create(venue).Error; err != nil {
		t.Fatalf("failed to create venue: %v", err)
	}
	return venue
}

func nextDateForWeekday(weekday time.Weekday) time.Time {
	d := time.Now().UTC().AddDate(0, 0, 1)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// doJSON runs one request against the app, optionally authenticated and
// with a JSON body, and returns the recorder.
func doJSON(app *iris.Application, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}
