package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"blendery/internal/core/id"
	"blendery/internal/domain/audit"
	"blendery/internal/domain/catalogs/formula"
	"blendery/internal/infrastructure/storage/postgres"
)

const (
	formulaTable          = "formulas"
	formulaComponentTable = "formula_components"
)

var formulaUpdateCols = []string{"code", "name", "description", "total_weight", "updated_at"}

// FormulaRepo implements formula.Repository.
type FormulaRepo struct {
	*BaseCatalogRepo[*formula.Formula]
}

// NewFormulaRepo creates a new formula repository.
func NewFormulaRepo(txManager *postgres.TxManager) *FormulaRepo {
	return &FormulaRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*formula.Formula](
			txManager,
			formulaTable,
			audit.EntityFormula,
			postgres.ExtractDBColumns[formula.Formula](),
			formulaUpdateCols,
			func() *formula.Formula { return &formula.Formula{} },
		),
	}
}

// SaveComposition replaces the composition lines of a formula.
func (r *FormulaRepo) SaveComposition(ctx context.Context, formulaID id.ID, lines []formula.Component) error {
	delSQL, delArgs, err := r.Builder().
		Delete(formulaComponentTable).
		Where(squirrel.Eq{"formula_id": formulaID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete components: %w", err)
	}

	querier := r.Querier(ctx)
	if _, err := querier.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete components: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	sql, args, err := r.compositionInsert(formulaID, lines).ToSql()
	if err != nil {
		return fmt.Errorf("build insert components: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.MapWriteError(fmt.Errorf("insert components: %w", err), "formula component")
	}
	return nil
}

func (r *FormulaRepo) compositionInsert(formulaID id.ID, lines []formula.Component) squirrel.InsertBuilder {
	q := r.Builder().
		Insert(formulaComponentTable).
		Columns("formula_id", "line_no", "material_id", "grams", "percentage")
	for i, c := range lines {
		q = q.Values(formulaID, i+1, c.MaterialID, c.Grams, c.Percentage)
	}
	return q
}

// componentRow is a composition line as stored, tagged with its formula.
type componentRow struct {
	FormulaID id.ID `db:"formula_id"`
	formula.Component
}

// GetCompositions loads composition lines with material name and code.
func (r *FormulaRepo) GetCompositions(ctx context.Context, formulaIDs []id.ID) (map[id.ID][]formula.Component, error) {
	out := make(map[id.ID][]formula.Component, len(formulaIDs))
	if len(formulaIDs) == 0 {
		return out, nil
	}

	sql, args, err := r.Builder().
		Select(
			"fc.formula_id",
			"fc.material_id",
			"fc.grams",
			"fc.percentage",
			"m.name AS material_name",
			"m.code AS material_code",
		).
		From(formulaComponentTable + " fc").
		Join(materialTable + " m ON m.id = fc.material_id").
		Where(squirrel.Eq{"fc.formula_id": formulaIDs}).
		OrderBy("fc.formula_id", "fc.line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []componentRow
	if err := pgxscan.Select(ctx, r.Querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get compositions: %w", err)
	}
	for _, row := range rows {
		out[row.FormulaID] = append(out[row.FormulaID], row.Component)
	}
	return out, nil
}
