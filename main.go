package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ShahjahanMirza/Book-Play-sub000/routes"
	"github.com/ShahjahanMirza/Book-Play-sub000/storage"
	"github.com/ShahjahanMirza/Book-Play-sub000/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializeEvents()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Get("/{id}", accessTokenVerifierMiddleware, routes.GetUser)
		user.Patch("/pushtoken", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.AlterPushToken)
	}

	venue := app.Party("/api/venue")
	{
		venue.Get("/", routes.GetApprovedVenues)
		venue.Get("/{id:uint}", routes.GetVenue)
		venue.Get("/owner/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetVenuesByOwnerID)
		venue.Post("/", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.CreateVenue)
		venue.Patch("/{id:uint}/status", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.UpdateVenueStatus)
		venue.Post("/{id:uint}/fields", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.CreateField)
		venue.Get("/{id:uint}/fields", routes.GetVenueFields)
		venue.Post("/{id:uint}/slots", routes.EnsureVenueSlots)
	}

	field := app.Party("/api/field")
	{
		field.Patch("/{id:uint}/status", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.UpdateFieldStatus)
	}

	availability := app.Party("/api/availability")
	{
		availability.Get("/venue/{id:uint}", routes.GetVenueAvailability)
		availability.Get("/venue/{id:uint}/slots", routes.GetAvailableSlots)
	}

	booking := app.Party("/api/booking")
	{
		booking.Post("/venue/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateBooking)
		booking.Get("/user/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserBookings)
		booking.Get("/owner", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.GetOwnerBookings)
		booking.Patch("/{id:uint}/status", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.UpdateBookingStatus)
		booking.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CancelBooking)
	}

	notifications := app.Party("/api/notifications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		notifications.Get("/", routes.GetUserNotifications)
		notifications.Patch("/{id:uint}/read", routes.MarkNotificationRead)
	}

	// Admin routes
	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Get("/venues", routes.AdminListVenues)
		admin.Patch("/venues/{id:uint}/approval", routes.AdminUpdateVenueApproval)
		admin.Get("/bookings", routes.AdminListBookings)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000" // fallback for local dev
	}
	addr := ":" + port

	fmt.Println("🚀 Starting server on", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ failed to start server: %v", err)
	}
}
