package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog used for demos and tests.
type Repository struct {
	mu             sync.RWMutex
	products       map[int64]*storedProduct
	categories     map[string]domain.Category
	nextID         int64
	nextCategoryID int64
	now            func() time.Time
}

type storedProduct struct {
	product  *domain.Product
	metadata projection.Metadata
}

// NewRepository constructs an empty in-memory catalog.
func NewRepository() *Repository {
	return &Repository{
		products:   map[int64]*storedProduct{},
		categories: map[string]domain.Category{},
		now:        time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Save inserts or replaces a product while maintaining metadata. A zero ID allocates a new one.
func (r *Repository) Save(_ context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	if product == nil {
		return nil, errors.New("cannot save nil product")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := product.Clone()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	timestamp := r.now()
	metadata := projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp}
	if existing, ok := r.products[clone.ID]; ok {
		metadata.CreatedAt = existing.metadata.CreatedAt
	}
	stored := &storedProduct{product: clone, metadata: metadata}
	r.products[clone.ID] = stored
	return stored.projection(), nil
}

// GetByID fetches a product if present.
func (r *Repository) GetByID(_ context.Context, id int64) (*ports.ProductProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return entry.projection(), nil
}

// Product resolves the bare aggregate.
func (r *Repository) Product(ctx context.Context, id int64) (*domain.Product, error) {
	projection, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return projection.Entity, nil
}

// Delete removes a product.
func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// Search filters and orders the catalog in memory.
func (r *Repository) Search(_ context.Context, query domain.Query) ([]*ports.ProductProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*ports.ProductProjection, 0, len(r.products))
	for _, entry := range r.products {
		if query.Matches(entry.product) {
			result = append(result, entry.projection())
		}
	}
	sortProjections(result, query)
	return result, nil
}

// SaveCategory upserts a category keyed by name.
func (r *Repository) SaveCategory(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("cannot save nil category")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.categories[category.Name]
	if !ok {
		r.nextCategoryID++
		existing = domain.Category{ID: r.nextCategoryID, Name: category.Name}
	}
	if category.FriendlyName != "" {
		existing.FriendlyName = category.FriendlyName
	}
	r.categories[category.Name] = existing
	saved := existing
	return &saved, nil
}

// CategoriesByName returns the known categories matching any of the names.
func (r *Repository) CategoriesByName(_ context.Context, names []string) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Category
	for _, name := range names {
		if cat, ok := r.categories[name]; ok {
			result = append(result, cat)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *storedProduct) projection() *ports.ProductProjection {
	return projection.New(s.product.Clone(), s.metadata.CreatedAt, s.metadata.UpdatedAt)
}

func sortProjections(list []*ports.ProductProjection, query domain.Query) {
	compare := func(a, b *domain.Product) int {
		switch query.Sort {
		case domain.SortName:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case domain.SortPrice:
			return a.Price.Cmp(b.Price)
		case domain.SortRating:
			return compareRating(a, b)
		case domain.SortCategory:
			return strings.Compare(categoryName(a), categoryName(b))
		case domain.SortSKU:
			return strings.Compare(a.SKU, b.SKU)
		default:
			return 0
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].Entity, list[j].Entity
		cmp := compare(a, b)
		if cmp == 0 {
			return a.ID < b.ID
		}
		if query.Descending() {
			return cmp > 0
		}
		return cmp < 0
	})
}

// compareRating orders unrated products before rated ones.
func compareRating(a, b *domain.Product) int {
	switch {
	case a.Rating == nil && b.Rating == nil:
		return 0
	case a.Rating == nil:
		return -1
	case b.Rating == nil:
		return 1
	default:
		return a.Rating.Cmp(*b.Rating)
	}
}

func categoryName(p *domain.Product) string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}
