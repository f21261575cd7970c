package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateArtist(ctx context.Context, artist *models.Artist) (*models.Artist, error) {
	if err := r.db.WithContext(ctx).Create(artist).Error; err != nil {
		return nil, err
	}
	return artist, nil
}

func (r *repository) FindArtistByID(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	var artist models.Artist
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&artist).Error
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

func (r *repository) ListArtists(ctx context.Context, params pagination.Params) (*ArtistList, error) {
	limit, cursor, err := params.Decode()
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Artist{})
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var artists []models.Artist
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1).
		Find(&artists).Error
	if err != nil {
		return nil, err
	}

	list := &ArtistList{Artists: artists}
	if len(artists) > limit {
		list.Artists = artists[:limit]
		last := list.Artists[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &next
	}
	return list, nil
}

func (r *repository) UpdateArtist(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Artist{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteArtist(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Artist{}).Error
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Artist").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindProductByName(ctx context.Context, name string, artistName *string) (*models.Product, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Artist").
		Where("LOWER(products.name) = ?", strings.ToLower(strings.TrimSpace(name)))

	if artistName != nil && strings.TrimSpace(*artistName) != "" {
		query = query.
			Joins("JOIN artists ON artists.id = products.artist_id").
			Where("LOWER(artists.name) = ?", strings.ToLower(strings.TrimSpace(*artistName)))
	}

	var product models.Product
	if err := query.First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error) {
	limit, cursor, err := params.Decode()
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Product{}).Preload("Artist")
	if filters.ArtistID != nil {
		query = query.Where("artist_id = ?", *filters.ArtistID)
	}
	if filters.Genre != nil {
		query = query.Where("genre = ?", *filters.Genre)
	}
	if filters.Kind != nil {
		query = query.Where("kind = ?", *filters.Kind)
	}
	if filters.IsNew != nil {
		query = query.Where("is_new = ?", *filters.IsNew)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var products []models.Product
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	list := &ProductList{Products: products}
	if len(products) > limit {
		list.Products = products[:limit]
		last := list.Products[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &next
	}
	return list, nil
}

func (r *repository) UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Product{}).Error
}

func (r *repository) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *repository) LockProductsForUpdate(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	if tx == nil {
		tx = r.db
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*models.Product{}, nil
	}

	var rows []models.Product
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	locked := make(map[uuid.UUID]*models.Product, len(rows))
	for i := range rows {
		locked[rows[i].ID] = &rows[i]
	}
	return locked, nil
}

func (r *repository) DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if tx == nil {
		tx = r.db
	}
	if qty <= 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("CASE WHEN stock - ? < 0 THEN 0 ELSE stock - ? END", qty, qty)).Error
}
