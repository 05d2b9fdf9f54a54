package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Masterminds/squirrel"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ShoppingListHeader opens every rendered shopping list.
const ShoppingListHeader = "Список покупок:\n\n"

// ShoppingListItem is one aggregated line: the total amount of an
// ingredient across every recipe in the cart.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Total           int64
}

type ShoppingListService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

var _ IShoppingListService = (*ShoppingListService)(nil)

func NewShoppingListService(db *gorm.DB, log *zap.SugaredLogger) *ShoppingListService {
	return &ShoppingListService{
		db:  db,
		log: log,
	}
}

// Generate sums ingredient amounts over the user's cart, grouped by
// (name, unit) and ordered by name.
func (s *ShoppingListService) Generate(ctx context.Context, userID uint) ([]ShoppingListItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	sql, args, err := squirrel.
		Select("i.name AS name", "i.measurement_unit AS measurement_unit", "SUM(ri.amount) AS total").
		From("shopping_cart_entries sc").
		Join("recipe_ingredients ri ON ri.recipe_id = sc.recipe_id").
		Join("ingredients i ON i.id = ri.ingredient_id").
		Where(squirrel.Eq{"sc.user_id": userID}).
		GroupBy("i.name", "i.measurement_unit").
		OrderBy("i.name", "i.measurement_unit").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build shopping list query")
	}

	items := make([]ShoppingListItem, 0)
	if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&items).Error; err != nil {
		return nil, errors.Wrap(err, "aggregate shopping list")
	}
	return items, nil
}

// Download renders the user's shopping list as a text document.
func (s *ShoppingListService) Download(ctx context.Context, userID uint) (string, error) {
	items, err := s.Generate(ctx, userID)
	if err != nil {
		return "", err
	}
	metrics.ShoppingListsGenerated.Inc()
	s.log.Infow("shopping list generated", "user_id", userID, "items", len(items))
	return RenderShoppingList(items), nil
}

// RenderShoppingList formats items one per line as "Name (unit) — total;".
// An empty list renders as the header alone.
func RenderShoppingList(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	for _, it := range items {
		fmt.Fprintf(&b, "%s (%s) — %d;\n", capitalize(it.Name), it.MeasurementUnit, it.Total)
	}
	return b.String()
}

// capitalize upper-cases the first letter and leaves the rest alone.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
