// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"blendery/internal/core/apperror"
	appctx "blendery/internal/core/context"
	"blendery/internal/core/id"
	"blendery/internal/core/types"
	"blendery/internal/domain/auth"
	"blendery/internal/domain/catalogs/customer"
	"blendery/internal/domain/catalogs/formula"
	"blendery/internal/domain/catalogs/material"
	"blendery/internal/infrastructure/config"
	"blendery/internal/infrastructure/storage/postgres"
	"blendery/internal/infrastructure/storage/postgres/auth_repo"
	"blendery/internal/infrastructure/storage/postgres/catalog_repo"
	"blendery/pkg/logger"
)

// seedActor is stamped on everything the seeder creates.
const seedActor = "00000000-0000-7000-8000-000000000000"

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}
	if cfg.Database.DSN == "" {
		log.Fatal("BLENDERY_DATABASE_DSN is required")
	}

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:  seedActor,
		Name:    "seed",
		IsAdmin: true,
	})

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("connected to database")

	txm := postgres.NewTxManager(pool, postgres.DefaultTxOptions())
	auditSvc, err := postgres.NewAuditService(txm)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}

	authSvc := auth.NewService(
		auth_repo.NewUserRepo(txm), txm,
		auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWT.Secret)),
		auditSvc, auth.DefaultServiceConfig(),
	)

	if err := seedAdminUser(ctx, authSvc, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		materials := catalog_repo.NewMaterialRepo(txm)
		d := demo{
			materials: material.NewService(materials, txm, auditSvc),
			formulas:  formula.NewService(catalog_repo.NewFormulaRepo(txm), materials, txm, auditSvc),
			customers: customer.NewService(catalog_repo.NewCustomerRepo(txm), txm, auditSvc),
			log:       log,
		}
		if err := d.seed(ctx); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, svc *auth.Service, log *logger.Logger) error {
	email := envOr("ADMIN_EMAIL", "admin@blendery.local")
	password := envOr("ADMIN_PASSWORD", "Admin123!")

	user, err := svc.CreateUser(ctx, auth.CreateUserRequest{
		Email:    email,
		Password: password,
		Name:     "System Admin",
		IsAdmin:  true,
	})
	switch {
	case apperror.HasCode(err, apperror.CodeDuplicate), apperror.HasCode(err, apperror.CodeConflict):
		log.Infow("admin user already exists", "email", email)
		return nil
	case err != nil:
		return err
	}

	log.Infow("admin user created", "email", email, "user_id", user.ID)
	return nil
}

type demo struct {
	materials *material.Service
	formulas  *formula.Service
	customers *customer.Service
	log       *logger.Logger
}

func (d demo) seed(ctx context.Context) error {
	res, err := d.materials.BulkCreate(ctx, []*material.Material{
		material.NewMaterial("TUR", "Turmeric"),
		material.NewMaterial("COR", "Coriander"),
		material.NewMaterial("CUM", "Cumin"),
		material.NewMaterial("CHI", "Chilli"),
	})
	if err != nil {
		return fmt.Errorf("seed materials: %w", err)
	}
	d.log.Infow("demo materials seeded", "created", len(res.Created), "skipped", len(res.Skipped))

	if err := d.seedFormula(ctx); err != nil {
		return err
	}

	if _, err := d.customers.GetByCode(ctx, "WALKIN"); apperror.IsNotFound(err) {
		if err := d.customers.Create(ctx, customer.NewCustomer("WALKIN", "Walk-in customer")); err != nil {
			return fmt.Errorf("seed customer: %w", err)
		}
	} else if err != nil {
		return err
	}
	return nil
}

func (d demo) seedFormula(ctx context.Context) error {
	if _, err := d.formulas.GetByCode(ctx, "CURRY"); err == nil {
		return nil
	} else if !apperror.IsNotFound(err) {
		return err
	}

	ids := make(map[string]id.ID, 4)
	for _, code := range []string{"TUR", "COR", "CUM", "CHI"} {
		m, err := d.materials.GetByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("load material %s: %w", code, err)
		}
		ids[code] = m.ID
	}

	curry := formula.NewFormula("CURRY", "Curry powder", []formula.Component{
		{MaterialID: ids["TUR"], Grams: types.MustDecimal("300"), Percentage: types.MustDecimal("30")},
		{MaterialID: ids["COR"], Grams: types.MustDecimal("400"), Percentage: types.MustDecimal("40")},
		{MaterialID: ids["CUM"], Grams: types.MustDecimal("200"), Percentage: types.MustDecimal("20")},
		{MaterialID: ids["CHI"], Grams: types.MustDecimal("100"), Percentage: types.MustDecimal("10")},
	})
	if err := d.formulas.Create(ctx, curry); err != nil {
		return fmt.Errorf("seed formula: %w", err)
	}
	d.log.Infow("demo formula seeded", "code", curry.Code)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
