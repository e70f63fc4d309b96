// internal/catalog/static.go
package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/overflow-online/overflow-server/internal/models"
)

// StaticLoader serves the built-in deck so the server can run without a
// catalog database: cards 0 through 8, all Normal, value equal to the name.
type StaticLoader struct{}

func (StaticLoader) FindAll(_ context.Context) ([]models.Card, error) {
	cards := make([]models.Card, 0, 9)
	for i := 0; i <= 8; i++ {
		n := strconv.Itoa(i)
		cards = append(cards, models.Card{
			ID:    n,
			Name:  n,
			Image: fmt.Sprintf("assets/input%d.png", i),
			Type:  models.CardTypeNormal,
			Value: i,
		})
	}
	return cards, nil
}
