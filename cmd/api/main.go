package main

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/biteship"
	"app/internal/infra/db"
	"app/internal/infra/midtrans"
	infraRepo "app/internal/infra/repository"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Address{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.Shipment{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	paymentRepo := infraRepo.NewPaymentGormRepository(gormDB)
	shipmentRepo := infraRepo.NewShipmentGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	variantRepo := infraRepo.NewVariantGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	gateway := midtrans.NewClient(cfg.MidtransBaseURL, cfg.MidtransServerKey)
	carrier := biteship.NewClient(cfg.BiteshipBaseURL, cfg.BiteshipAPIKey)

	checkoutUC := usecase.NewCheckoutUsecase(txManager, addressRepo, inventoryRepo, variantRepo)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo, paymentRepo, shipmentRepo)
	shipmentUC := usecase.NewShipmentUsecase(txManager, orderRepo, orderItemRepo, shipmentRepo, variantRepo, carrier, cfg, log)
	paymentUC := usecase.NewPaymentUsecase(txManager, orderRepo, orderItemRepo, paymentRepo, gateway, shipmentUC, cfg.MidtransServerKey, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, orderRepo, shipmentUC, auditRepo, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	handler.NewOrderHandler(checkoutUC, orderUC).RegisterRoutes(e, cfg)
	handler.NewPaymentHandler(paymentUC, log).RegisterRoutes(e, cfg)
	handler.NewShipmentHandler(shipmentUC, log).RegisterRoutes(e)
	handler.NewAdminOrderHandler(adminOrderUC).RegisterRoutes(e, cfg)

	log.WithField("port", cfg.Port).Info("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
