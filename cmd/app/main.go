package main

import (
	"log"
	"os"

	"CloudusAPI/external/ozow"
	"CloudusAPI/external/paystack"
	"CloudusAPI/external/resend"
	"CloudusAPI/external/stripe"

	"CloudusAPI/internal/db"
	"CloudusAPI/internal/model"
	"CloudusAPI/internal/repository"
	"CloudusAPI/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func main() {
	_ = godotenv.Load()

	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	publicBaseURL := os.Getenv("PUBLIC_BASE_URL")
	if publicBaseURL == "" {
		publicBaseURL = "http://localhost:8080"
	}

	// ======================
	// EXTERNALS
	// ======================
	// Providers with missing keys are skipped; their endpoints answer 501.
	checkoutProviders := map[model.PaymentProvider]services.CheckoutProvider{}
	eventVerifiers := map[model.PaymentProvider]services.EventVerifier{}

	if sc, err := stripe.New(stripe.ConfigFromEnv()); err != nil {
		log.Println("stripe disabled:", err)
	} else {
		checkoutProviders[model.ProviderStripe] = sc
		eventVerifiers[model.ProviderStripe] = sc
	}

	if pc, err := paystack.New(paystack.ConfigFromEnv()); err != nil {
		log.Println("paystack disabled:", err)
	} else {
		checkoutProviders[model.ProviderPaystack] = pc
		eventVerifiers[model.ProviderPaystack] = pc
	}

	if oc, err := ozow.New(ozow.ConfigFromEnv()); err != nil {
		log.Println("ozow disabled:", err)
	} else {
		checkoutProviders[model.ProviderOzow] = oc
		eventVerifiers[model.ProviderOzow] = oc
	}

	var mailer services.ReceiptMailer
	if m, err := resend.NewResendMailer("Cloudus<payments@cloudus.co.za>"); err != nil {
		log.Println("receipt emails disabled:", err)
	} else {
		mailer = m
	}

	// ======================
	// REPOSITORIES
	// ======================
	authRepo := repository.NewAuthRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	projectRepo := repository.NewProjectPaymentRepository(pool)
	payableRepo := repository.NewPayableRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	// ======================
	// SERVICES
	// ======================
	authSvc := services.NewAuthService(authRepo)
	payableSvc := services.NewPayableService(orderRepo, bookingRepo, projectRepo)
	checkoutSvc := services.NewCheckoutService(paymentRepo, payableRepo, checkoutProviders, publicBaseURL)
	settlementSvc := services.NewSettlementService(paymentRepo, payableRepo, auditRepo, eventVerifiers, mailer)
	reportSvc := services.NewReportService(paymentRepo, auditRepo)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	api := e.Group("/cloudus")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(api, authSvc)
	registerOrderRoutes(api, payableSvc)
	registerBookingRoutes(api, payableSvc)
	registerProjectRoutes(api, payableSvc)
	registerWebhookRoutes(api, settlementSvc)
	registerCheckoutRoutes(api, checkoutSvc)
	registerReportRoutes(api, reportSvc)

	// ======================
	// SERVER
	// ======================
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
