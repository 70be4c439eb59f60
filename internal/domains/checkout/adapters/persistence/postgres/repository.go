package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	catalogpostgres "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/persistence/postgres"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

var (
	_ ports.UnitOfWork      = (*Repository)(nil)
	_ ports.OrderRepository = (*Repository)(nil)
)

// Repository persists orders in PostgreSQL using GORM. Do runs one database transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed order store. The caller owns the DB lifecycle and the schema.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Models lists the records owned by this adapter for schema migration.
func Models() []any {
	return []any{&orderRecord{}, &lineItemRecord{}}
}

type orderRecord struct {
	ID              int64            `gorm:"primaryKey;column:id"`
	OrderNumber     string           `gorm:"column:order_number;size:32;uniqueIndex;not null"`
	FullName        string           `gorm:"column:full_name;size:50;not null"`
	Email           string           `gorm:"column:email;size:254;not null"`
	PhoneNumber     string           `gorm:"column:phone_number;size:20;not null"`
	Country         string           `gorm:"column:country;size:2;not null"`
	Postcode        string           `gorm:"column:postcode;size:20"`
	TownOrCity      string           `gorm:"column:town_or_city;size:40;not null"`
	StreetAddress1  string           `gorm:"column:street_address1;size:80;not null"`
	StreetAddress2  string           `gorm:"column:street_address2;size:80"`
	County          string           `gorm:"column:county;size:80"`
	Date            time.Time        `gorm:"column:date;not null"`
	DeliveryCost    decimal.Decimal  `gorm:"column:delivery_cost;type:numeric(6,2);not null;default:0"`
	OrderTotal      decimal.Decimal  `gorm:"column:order_total;type:numeric(10,2);not null;default:0"`
	GrandTotal      decimal.Decimal  `gorm:"column:grand_total;type:numeric(10,2);not null;default:0"`
	OriginalBag     string           `gorm:"column:original_bag;type:text;not null;default:''"`
	PaymentIntentID string           `gorm:"column:stripe_pid;size:254;not null;default:''"`
	LineItems       []lineItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time        `gorm:"column:created_at"`
	UpdatedAt       time.Time        `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// lineItemRecord has no foreign key to products so order history survives catalog deletes.
type lineItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;index;not null"`
	ProductID int64           `gorm:"column:product_id;index;not null"`
	Size      *string         `gorm:"column:product_size;size:8"`
	Quantity  int             `gorm:"column:quantity;not null"`
	LineTotal decimal.Decimal `gorm:"column:lineitem_total;type:numeric(10,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (lineItemRecord) TableName() string { return "order_line_items" }

// Do runs fn inside a single database transaction. Returning an error rolls everything back.
func (r *Repository) Do(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormTx{db: tx, catalog: catalogpostgres.NewRepository(tx)})
	})
}

// GetByOrderNumber loads an order with its line items.
func (r *Repository) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("order_line_items.id") }).
		First(&record, "order_number = ?", orderNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

type gormTx struct {
	db      *gorm.DB
	catalog *catalogpostgres.Repository
}

func (t *gormTx) Product(ctx context.Context, id int64) (*catalogdomain.Product, error) {
	return t.catalog.Product(ctx, id)
}

func (t *gormTx) CreateOrder(ctx context.Context, order *domain.Order) error {
	record := toOrderRecord(order)
	if err := t.db.WithContext(ctx).Omit("LineItems").Create(&record).Error; err != nil {
		return err
	}
	order.ID = record.ID
	return nil
}

func (t *gormTx) CreateLineItems(ctx context.Context, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	records := make([]lineItemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, toLineItemRecord(item))
	}
	if err := t.db.WithContext(ctx).Create(&records).Error; err != nil {
		return err
	}
	for i := range records {
		items[i].ID = records[i].ID
	}
	return nil
}

func (t *gormTx) UpdateTotals(ctx context.Context, order *domain.Order) error {
	result := t.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", order.ID).Updates(map[string]any{
		"order_total":   order.OrderTotal,
		"delivery_cost": order.DeliveryCost,
		"grand_total":   order.GrandTotal,
		"updated_at":    time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrOrderNotFound
	}
	return nil
}

// DeleteOrder removes the order and its line items explicitly.
func (t *gormTx) DeleteOrder(ctx context.Context, orderID int64) error {
	db := t.db.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&lineItemRecord{}).Error; err != nil {
		return err
	}
	result := db.Delete(&orderRecord{}, orderID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrOrderNotFound
	}
	return nil
}

func toOrderRecord(o *domain.Order) orderRecord {
	return orderRecord{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		FullName:        o.Contact.FullName,
		Email:           o.Contact.Email,
		PhoneNumber:     o.Contact.PhoneNumber,
		Country:         o.Address.Country,
		Postcode:        o.Address.Postcode,
		TownOrCity:      o.Address.TownOrCity,
		StreetAddress1:  o.Address.StreetAddress1,
		StreetAddress2:  o.Address.StreetAddress2,
		County:          o.Address.County,
		Date:            o.Date,
		DeliveryCost:    o.DeliveryCost,
		OrderTotal:      o.OrderTotal,
		GrandTotal:      o.GrandTotal,
		OriginalBag:     o.OriginalBag,
		PaymentIntentID: o.PaymentIntentID,
	}
}

func toLineItemRecord(item domain.LineItem) lineItemRecord {
	rec := lineItemRecord{
		ID:        item.ID,
		OrderID:   item.OrderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		LineTotal: item.LineTotal,
	}
	if item.Size != "" {
		size := item.Size
		rec.Size = &size
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:          r.ID,
		OrderNumber: r.OrderNumber,
		Contact:     domain.Contact{FullName: r.FullName, Email: r.Email, PhoneNumber: r.PhoneNumber},
		Address: domain.Address{
			Country:        r.Country,
			Postcode:       r.Postcode,
			TownOrCity:     r.TownOrCity,
			StreetAddress1: r.StreetAddress1,
			StreetAddress2: r.StreetAddress2,
			County:         r.County,
		},
		Date:            r.Date,
		DeliveryCost:    r.DeliveryCost,
		OrderTotal:      r.OrderTotal,
		GrandTotal:      r.GrandTotal,
		OriginalBag:     r.OriginalBag,
		PaymentIntentID: r.PaymentIntentID,
	}
	items := make([]domain.LineItem, 0, len(r.LineItems))
	for _, rec := range r.LineItems {
		item := domain.LineItem{
			ID:        rec.ID,
			OrderID:   rec.OrderID,
			ProductID: rec.ProductID,
			Quantity:  rec.Quantity,
			LineTotal: rec.LineTotal,
		}
		if rec.Size != nil {
			item.Size = *rec.Size
		}
		items = append(items, item)
	}
	order.LineItems = items
	return order
}
