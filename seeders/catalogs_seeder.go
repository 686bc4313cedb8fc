package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedDepartmentsAndPositions(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблиц 'departamento' и 'puesto'...")
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, d := range departmentsData {
		var departmentID uint64
		err := tx.QueryRow(ctx,
			`INSERT INTO departamento (nombre) VALUES ($1)
			 ON CONFLICT (nombre) DO UPDATE SET activo = TRUE
			 RETURNING id`, d.Name).Scan(&departmentID)
		if err != nil {
			return fmt.Errorf("отдел %q: %w", d.Name, err)
		}
		for _, p := range d.Positions {
			_, err := tx.Exec(ctx,
				`INSERT INTO puesto (nombre, departamento_id, nivel) VALUES ($1, $2, $3)
				 ON CONFLICT (nombre, departamento_id) DO UPDATE SET nivel = EXCLUDED.nivel`,
				p.Name, departmentID, p.Level)
			if err != nil {
				return fmt.Errorf("должность %q: %w", p.Name, err)
			}
		}
	}
	return tx.Commit(ctx)
}

// seedNamedCatalog заполняет справочник вида (id, nombre, activo).
func seedNamedCatalog(ctx context.Context, db *pgxpool.Pool, table string, names []string) error {
	log.Printf("  - Наполнение таблицы '%s'...", table)
	query := fmt.Sprintf(`INSERT INTO %s (nombre) VALUES ($1) ON CONFLICT (nombre) DO NOTHING`, table)
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	for _, name := range names {
		if _, err := tx.Exec(ctx, query, name); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
