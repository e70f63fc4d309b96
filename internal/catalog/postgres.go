// internal/catalog/postgres.go
package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/overflow-online/overflow-server/internal/models"
)

// PostgresLoader reads the catalog from the cards table.
type PostgresLoader struct {
	Pool *pgxpool.Pool
}

// FindAll returns every card row, ordered by id for stable catalog indexing.
func (l *PostgresLoader) FindAll(ctx context.Context) ([]models.Card, error) {
	rows, err := l.Pool.Query(ctx, `SELECT id, name, image, type, value FROM cards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		var typ string
		if err := rows.Scan(&c.ID, &c.Name, &c.Image, &typ, &c.Value); err != nil {
			return nil, fmt.Errorf("scan card row: %w", err)
		}
		c.Type = models.CardType(typ)
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate card rows: %w", err)
	}
	return cards, nil
}
