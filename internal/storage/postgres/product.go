package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-cart/internal/domain/product"
)

const (
	listProductsSQL = `SELECT id, name, price, category, image, variant_options, available
		FROM products ORDER BY id`

	getProductByIDSQL = `SELECT id, name, price, category, image, variant_options, available
		FROM products WHERE id = $1`

	getProductsByIDsSQL = `SELECT id, name, price, category, image, variant_options, available
		FROM products WHERE id = ANY($1)`

	checkAvailabilitySQL = `SELECT available FROM products WHERE id = $1`

	upsertProductSQL = `INSERT INTO products (id, name, price, category, image, variant_options, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			image = EXCLUDED.image,
			variant_options = EXCLUDED.variant_options,
			available = EXCLUDED.available`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products from the catalog ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// CheckAvailability reports whether the product can still be purchased.
// Unknown products are unavailable, not an error.
func (r *ProductRepository) CheckAvailability(ctx context.Context, id string) (bool, error) {
	var available bool
	err := r.pool.QueryRow(ctx, checkAvailabilitySQL, id).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("checking availability of %q: %w", id, err)
	}
	return available, nil
}

// Upsert inserts or updates a single catalog product.
func (r *ProductRepository) Upsert(ctx context.Context, p product.Product) error {
	_, err := r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name, p.Price, p.Category, p.Image, p.VariantOptions, p.Available)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

// UpsertBatch upserts products in a single round trip using a pgx batch.
func (r *ProductRepository) UpsertBatch(ctx context.Context, products []product.Product) error {
	if len(products) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(upsertProductSQL,
			p.ID, p.Name, p.Price, p.Category, p.Image, p.VariantOptions, p.Available)
	}

	res := r.pool.SendBatch(ctx, batch)
	defer func() { _ = res.Close() }()

	for _, p := range products {
		if _, err := res.Exec(); err != nil {
			return fmt.Errorf("upserting product %q: %w", p.ID, err)
		}
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p     product.Product
		price decimal.Decimal
	)
	err := row.Scan(
		&p.ID, &p.Name, &price, &p.Category,
		&p.Image, &p.VariantOptions, &p.Available,
	)
	p.Price = price
	return p, err
}
