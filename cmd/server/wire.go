package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"blendery/internal/core/lock"
	"blendery/internal/domain/auth"
	"blendery/internal/domain/catalogs/customer"
	"blendery/internal/domain/catalogs/formula"
	"blendery/internal/domain/catalogs/material"
	"blendery/internal/domain/catalogs/supplier"
	"blendery/internal/domain/documents/batch"
	"blendery/internal/domain/documents/packaging"
	"blendery/internal/domain/documents/production"
	"blendery/internal/domain/documents/sale"
	"blendery/internal/domain/registers/history"
	"blendery/internal/domain/registers/readystock"
	"blendery/internal/domain/reports"
	v1 "blendery/internal/infrastructure/http/v1"
	"blendery/internal/infrastructure/numerator"
	"blendery/internal/infrastructure/storage/postgres"
	"blendery/internal/infrastructure/storage/postgres/auth_repo"
	"blendery/internal/infrastructure/storage/postgres/catalog_repo"
	"blendery/internal/infrastructure/storage/postgres/document_repo"
	"blendery/internal/infrastructure/storage/postgres/register_repo"
	"blendery/internal/infrastructure/storage/postgres/report_repo"
)

// buildServices wires repositories and domain services over one pool.
func buildServices(
	txm *postgres.TxManager,
	jwtService *auth.JWTService,
	locker lock.Locker,
	markup decimal.Decimal,
) (v1.Services, error) {
	auditSvc, err := postgres.NewAuditService(txm)
	if err != nil {
		return v1.Services{}, fmt.Errorf("audit service: %w", err)
	}

	// Catalogs
	materials := catalog_repo.NewMaterialRepo(txm)
	formulas := catalog_repo.NewFormulaRepo(txm)
	customers := catalog_repo.NewCustomerRepo(txm)
	suppliers := catalog_repo.NewSupplierRepo(txm)

	// Documents and registers
	batches := document_repo.NewBatchRepo(txm)
	runs := document_repo.NewProductionRepo(txm)
	packs := document_repo.NewPackagingRepo(txm)
	sales := document_repo.NewSaleRepo(txm)

	histSvc := history.NewService(register_repo.NewHistoryRepo(txm), materials)
	readySvc := readystock.NewService(register_repo.NewReadyStockRepo(txm))
	formulaSvc := formula.NewService(formulas, materials, txm, auditSvc)

	numbers := numerator.New(func(ctx context.Context) numerator.Querier {
		return txm.GetQuerier(ctx)
	})

	return v1.Services{
		Auth: auth.NewService(
			auth_repo.NewUserRepo(txm), txm, jwtService, auditSvc, auth.DefaultServiceConfig(),
		),
		Materials: material.NewService(materials, txm, auditSvc),
		Formulas:  formulaSvc,
		Customers: customer.NewService(customers, txm, auditSvc),
		Suppliers: supplier.NewService(suppliers, txm, auditSvc),
		Batches:   batch.NewService(batches, materials, histSvc, txm, auditSvc),
		Production: production.NewService(production.Deps{
			Repo:       runs,
			Formulas:   formulaSvc,
			Materials:  materials,
			History:    histSvc,
			ReadyStock: readySvc,
			Locker:     locker,
			TxManager:  txm,
			Audit:      auditSvc,
		}),
		Packaging: packaging.NewService(packs, runs, txm, auditSvc, markup),
		Sales: sale.NewService(sale.Deps{
			Repo:      sales,
			Packs:     packs,
			Customers: customers,
			Suppliers: suppliers,
			Numerator: numbers,
			TxManager: txm,
			Audit:     auditSvc,
		}),
		History:    histSvc,
		ReadyStock: readySvc,
		Reports:    reports.NewService(report_repo.NewReportRepo(txm)),
		Audit:      auditSvc,
	}, nil
}
