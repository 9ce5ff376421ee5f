package testutil

// Stores bundles every in-memory repository behind one transaction
// manager, so a failed transaction rolls all of them back together.
type Stores struct {
	Materials  *MaterialRepo
	Formulas   *FormulaRepo
	Customers  *CustomerRepo
	Suppliers  *SupplierRepo
	Batches    *BatchRepo
	History    *HistoryRepo
	ReadyStock *ReadyStockRepo
	Runs       *ProductionRepo
	Packs      *PackagingRepo
	Sales      *SaleRepo
	Users      *UserRepo
	Audit      *AuditLog

	Tx *TxManager
}

// NewStores creates empty stores.
func NewStores() *Stores {
	s := &Stores{
		Materials:  NewMaterialRepo(),
		Customers:  NewCustomerRepo(),
		Suppliers:  NewSupplierRepo(),
		Batches:    NewBatchRepo(),
		History:    NewHistoryRepo(),
		ReadyStock: NewReadyStockRepo(),
		Runs:       NewProductionRepo(),
		Packs:      NewPackagingRepo(),
		Sales:      NewSaleRepo(),
		Users:      NewUserRepo(),
		Audit:      NewAuditLog(),
	}
	s.Formulas = NewFormulaRepo(s.Materials)
	s.Tx = NewTxManager(
		s.Materials, s.Formulas, s.Customers, s.Suppliers, s.Batches, s.History,
		s.ReadyStock, s.Runs, s.Packs, s.Sales, s.Users, s.Audit,
	)
	return s
}
