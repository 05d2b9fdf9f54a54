package service_test

import (
	"testing"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// pngURI is an 8 byte PNG signature as a data URI.
const pngURI = "data:image/png;base64,iVBORw0KGgo="

type env struct {
	db     *gorm.DB
	fx     *testhelpers.Fixtures
	images *testhelpers.MemoryImageStore
}

func setup(t *testing.T) *env {
	db := testhelpers.SetupTestDatabase(t)
	return &env{
		db:     db,
		fx:     testhelpers.NewFixtures(t, db),
		images: testhelpers.NewMemoryImageStore(),
	}
}

var nop = logger.Nop()

func count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func viewNames(views []service.RecipeView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Recipe.Name
	}
	return out
}

func names(recipes []models.Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Name
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
