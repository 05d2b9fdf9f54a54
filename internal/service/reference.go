package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferenceService serves the read-only tag and ingredient catalogs and
// bulk-loads them.
type ReferenceService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

var _ IReferenceService = (*ReferenceService)(nil)

func NewReferenceService(db *gorm.DB, log *zap.SugaredLogger) *ReferenceService {
	return &ReferenceService{
		db:  db,
		log: log,
	}
}

func (s *ReferenceService) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags := make([]models.Tag, 0)
	err := s.db.WithContext(ctx).Order("id").Find(&tags).Error
	return tags, err
}

func (s *ReferenceService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).First(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("tag", id)
	}
	return &tag, err
}

// SearchIngredients returns ingredients whose name starts with prefix,
// ignoring case. An empty prefix lists everything.
func (s *ReferenceService) SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	q := s.db.WithContext(ctx).Model(&models.Ingredient{})
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		pattern := escapeLike(prefix) + "%"
		if s.db.Dialector.Name() == "postgres" {
			q = q.Where("name ILIKE ? ESCAPE '\\'", pattern)
		} else {
			// SQLite's LOWER folds ASCII only, so a Cyrillic prefix matches
			// case-sensitively there.
			q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", strings.ToLower(pattern))
		}
	}
	ingredients := make([]models.Ingredient, 0)
	err := q.Order("name").Order("id").Find(&ingredients).Error
	return ingredients, err
}

func (s *ReferenceService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).First(&ingredient, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("ingredient", id)
	}
	return &ingredient, err
}

// LoadIngredients inserts the rows not already present, matching on
// (name, measurement_unit). It returns how many rows were added.
func (s *ReferenceService) LoadIngredients(ctx context.Context, rows []models.Ingredient) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
			DoNothing: true,
		}).
		CreateInBatches(&rows, 500)
	if res.Error != nil {
		return 0, res.Error
	}
	s.log.Infow("ingredients loaded", "submitted", len(rows), "inserted", res.RowsAffected)
	return res.RowsAffected, nil
}

// LoadTags upserts tags by slug so that reloading a fixture is harmless.
func (s *ReferenceService) LoadTags(ctx context.Context, tags []models.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	for i := range tags {
		if err := models.ValidateTag(&tags[i]); err != nil {
			return 0, err
		}
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).
		Create(&tags)
	if res.Error != nil {
		return 0, res.Error
	}
	s.log.Infow("tags loaded", "submitted", len(tags), "inserted", res.RowsAffected)
	return res.RowsAffected, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
