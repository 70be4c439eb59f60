package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// likeEscaper makes a search term match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Repository persists the catalog in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed catalog. The caller owns the DB lifecycle and the schema
// (see Models and migrations.Run). A transaction handle may be passed to scope reads to it.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Models lists the records owned by this adapter for schema migration.
func Models() []any {
	return []any{&categoryRecord{}, &productRecord{}}
}

type categoryRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Name         string    `gorm:"column:name;size:254;uniqueIndex;not null"`
	FriendlyName string    `gorm:"column:friendly_name;size:254"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (categoryRecord) TableName() string { return "categories" }

type productRecord struct {
	ID          int64               `gorm:"primaryKey;column:id"`
	CategoryID  *int64              `gorm:"column:category_id;index"`
	Category    *categoryRecord     `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	SKU         string              `gorm:"column:sku;size:254;index"`
	Name        string              `gorm:"column:name;size:254;not null"`
	Description string              `gorm:"column:description;type:text"`
	HasSizes    bool                `gorm:"column:has_sizes"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	Rating      decimal.NullDecimal `gorm:"column:rating;type:numeric(6,2)"`
	ImageURL    string              `gorm:"column:image_url;size:1024"`
	CreatedAt   time.Time           `gorm:"column:created_at"`
	UpdatedAt   time.Time           `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Save inserts or updates a product aggregate.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("cannot save nil product")
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"category_id", "sku", "name", "description", "has_sizes",
				"price", "rating", "image_url", "updated_at",
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).Preload("Category").First(&record, "products.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// Product resolves the bare aggregate.
func (r *Repository) Product(ctx context.Context, id int64) (*domain.Product, error) {
	projection, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return projection.Entity, nil
}

// Delete removes a product by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Search filters by search term and category names and applies the requested ordering.
func (r *Repository) Search(ctx context.Context, query domain.Query) ([]*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	tx := db.Model(&productRecord{}).Select("products.*").Preload("Category")
	if term := strings.ToLower(strings.TrimSpace(query.SearchTerm)); term != "" {
		pattern := "%" + likeEscaper.Replace(term) + "%"
		tx = tx.Where(`(LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(products.description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if len(query.Categories) > 0 {
		tx = tx.Where("products.category_id IN (?)",
			db.Model(&categoryRecord{}).Select("id").Where("name IN ?", query.Categories))
	}
	tx = applyOrdering(tx, query)

	var records []productRecord
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	result := make([]*ports.ProductProjection, 0, len(records))
	for i := range records {
		result = append(result, records[i].toProjection())
	}
	return result, nil
}

// SaveCategory upserts a category keyed by name.
func (r *Repository) SaveCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.New("cannot save nil category")
	}
	var record categoryRecord
	err := r.db.WithContext(ctx).First(&record, "name = ?", category.Name).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = categoryRecord{Name: category.Name, FriendlyName: category.FriendlyName}
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case category.FriendlyName != "" && category.FriendlyName != record.FriendlyName:
		if err := r.db.WithContext(ctx).Model(&record).Update("friendly_name", category.FriendlyName).Error; err != nil {
			return nil, err
		}
		record.FriendlyName = category.FriendlyName
	}
	return record.toDomain(), nil
}

// CategoriesByName returns the stored categories matching any of the names.
func (r *Repository) CategoriesByName(ctx context.Context, names []string) ([]domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Category, 0, len(records))
	for i := range records {
		result = append(result, *records[i].toDomain())
	}
	return result, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func applyOrdering(tx *gorm.DB, query domain.Query) *gorm.DB {
	direction := " ASC"
	if query.Descending() {
		direction = " DESC"
	}
	switch query.Sort {
	case domain.SortName:
		tx = tx.Order("LOWER(products.name)" + direction)
	case domain.SortPrice:
		tx = tx.Order("products.price" + direction)
	case domain.SortSKU:
		tx = tx.Order("products.sku" + direction)
	case domain.SortRating:
		tx = tx.Order("CASE WHEN products.rating IS NULL THEN 0 ELSE 1 END" + direction).
			Order("products.rating" + direction)
	case domain.SortCategory:
		tx = tx.Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Order("COALESCE(categories.name, '')" + direction)
	}
	return tx.Order("products.id ASC")
}

func toRecord(p *domain.Product) productRecord {
	rec := productRecord{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		HasSizes:    p.HasSizes,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
	}
	if p.Rating != nil {
		rec.Rating = decimal.NewNullDecimal(*p.Rating)
	}
	if p.Category != nil && p.Category.ID != 0 {
		id := p.Category.ID
		rec.CategoryID = &id
	}
	return rec
}

func (r productRecord) toProjection() *ports.ProductProjection {
	product := &domain.Product{
		ID:          r.ID,
		SKU:         r.SKU,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		HasSizes:    r.HasSizes,
	}
	if r.Rating.Valid {
		rating := r.Rating.Decimal
		product.Rating = &rating
	}
	if r.Category != nil {
		product.Category = r.Category.toDomain()
	}
	return projection.New(product, r.CreatedAt, r.UpdatedAt)
}

func (r categoryRecord) toDomain() *domain.Category {
	return &domain.Category{ID: r.ID, Name: r.Name, FriendlyName: r.FriendlyName}
}
