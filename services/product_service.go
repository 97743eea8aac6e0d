package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/database"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs/tables"
)

type ProductService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
}

func NewProductService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *ProductService {
	return &ProductService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
	}
}

// ProductListOptions contains filtering and pagination options for catalog queries
type ProductListOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	IsActive   *bool   `json:"is_active,omitempty"`
	Brand      string  `json:"brand,omitempty"`
	MinPrice   *uint64 `json:"min_price,omitempty"` // cents
	MaxPrice   *uint64 `json:"max_price,omitempty"` // cents
	SearchTerm string  `json:"search_term,omitempty"`
	InStock    bool    `json:"in_stock,omitempty"` // only products with at least one stocked variant

	SortBy        string `json:"sort_by"`        // created_at, price, name, sold_count
	SortDirection string `json:"sort_direction"` // ASC or DESC

	IncludeVariants bool `json:"include_variants"`

	Timeout time.Duration `json:"-"`
}

// ProductListResult wraps the product list response with metadata
type ProductListResult struct {
	Products   []tables.Product    `json:"products"`
	Pagination database.Pagination `json:"pagination"`
	Filters    ProductListOptions  `json:"filters"`
	QueryTime  time.Duration       `json:"query_time"`
}

// cacheKey derives a stable signature for the filter combination so cached
// pages never bleed across different filter sets.
func (opts *ProductListOptions) cacheKey() string {
	active := "any"
	if opts.IsActive != nil {
		active = fmt.Sprintf("%v", *opts.IsActive)
	}
	minPrice, maxPrice := uint64(0), uint64(0)
	if opts.MinPrice != nil {
		minPrice = *opts.MinPrice
	}
	if opts.MaxPrice != nil {
		maxPrice = *opts.MaxPrice
	}
	return fmt.Sprintf("active:%s:brand:%s:price:%d-%d:q:%s:stock:%v:sort:%s-%s:variants:%v",
		active, strings.ToLower(opts.Brand), minPrice, maxPrice,
		strings.ToLower(opts.SearchTerm), opts.InStock,
		opts.SortBy, opts.SortDirection, opts.IncludeVariants)
}

// GetAllProducts retrieves products with filtering, pagination and caching.
func (ps *ProductService) GetAllProducts(ctx context.Context, opts *ProductListOptions) (*ProductListResult, error) {
	startTime := time.Now()

	if opts == nil {
		opts = &ProductListOptions{}
	}
	ps.applyDefaultOptions(opts)

	if err := ps.validateOptions(opts); err != nil {
		ps.logger.Error("Invalid product list options", gecho.Field("error", err))
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	filterKey := opts.cacheKey()
	cached, err := ps.cacheService.GetProductList(filterKey, opts.Page, opts.PageSize)
	if err != nil {
		ps.logger.Warn("Failed to get products from cache", gecho.Field("error", err))
	} else if cached != nil {
		total := len(cached)
		if count, countErr := ps.cacheService.GetProductCount(filterKey); countErr == nil && count != nil {
			total = *count
		}
		return &ProductListResult{
			Products: cached,
			Pagination: database.Pagination{
				Page:     opts.Page,
				PageSize: opts.PageSize,
				Total:    total,
			},
			Filters:   *opts,
			QueryTime: time.Since(startTime),
		}, nil
	}

	queryCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	query := database.Query[tables.Product](ps.db)
	query = ps.applyFilters(query, opts)
	query = ps.applySorting(query, opts)

	if opts.IncludeVariants {
		query = query.Relation("Variants")
	}

	result, err := database.Paginate(query, queryCtx, opts.Page, opts.PageSize)
	if err != nil {
		ps.logger.Error("Failed to fetch products",
			gecho.Field("error", err),
			gecho.Field("page", opts.Page),
			gecho.Field("pageSize", opts.PageSize),
			gecho.Field("duration", time.Since(startTime)))
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	ps.logger.Debug("Products fetched successfully",
		gecho.Field("count", len(result.Data)),
		gecho.Field("total", result.Pagination.Total),
		gecho.Field("page", result.Pagination.Page),
		gecho.Field("duration", time.Since(startTime)),
	)

	go func() {
		if err := ps.cacheService.SetProductList(filterKey, opts.Page, opts.PageSize, result.Data); err != nil {
			ps.logger.Warn("Failed to cache product list", gecho.Field("error", err))
		}
		if err := ps.cacheService.SetProductCount(filterKey, result.Pagination.Total); err != nil {
			ps.logger.Warn("Failed to cache product count", gecho.Field("error", err))
		}
	}()

	return &ProductListResult{
		Products:   result.Data,
		Pagination: result.Pagination,
		Filters:    *opts,
		QueryTime:  time.Since(startTime),
	}, nil
}

// GetProductByID retrieves a single product by ID with its variants.
func (ps *ProductService) GetProductByID(ctx context.Context, id string) (*tables.Product, error) {
	startTime := time.Now()

	cachedProduct, err := ps.cacheService.GetProductByID(id)
	if err != nil {
		ps.logger.Warn("Failed to get product from cache", gecho.Field("error", err), gecho.Field("id", id))
	} else if cachedProduct != nil {
		ps.logger.Debug("Product retrieved from cache", gecho.Field("id", id), gecho.Field("duration", time.Since(startTime)))
		return cachedProduct, nil
	}

	product, err := database.Query[tables.Product](ps.db).
		Where("id", id).
		Relation("Variants").
		Timeout(5 * time.Second).
		First(ctx)
	if err != nil {
		ps.logger.Error("Failed to fetch product by ID",
			gecho.Field("id", id),
			gecho.Field("error", err),
			gecho.Field("duration", time.Since(startTime)),
		)
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	if product == nil {
		return nil, nil
	}

	go func() {
		if err := ps.cacheService.SetProductByID(product); err != nil {
			ps.logger.Warn("Failed to cache product", gecho.Field("error", err), gecho.Field("id", id))
		}
	}()

	return product, nil
}

// GetActiveProducts is a convenience method for the public storefront: active
// catalog only, newest first.
func (ps *ProductService) GetActiveProducts(ctx context.Context, page, pageSize int, includeVariants bool) (*ProductListResult, error) {
	isActive := true
	return ps.GetAllProducts(ctx, &ProductListOptions{
		Page:            page,
		PageSize:        pageSize,
		IsActive:        &isActive,
		IncludeVariants: includeVariants,
		SortBy:          "created_at",
		SortDirection:   "DESC",
	})
}

// GetProductCount returns the total count of products matching the filters
func (ps *ProductService) GetProductCount(ctx context.Context, opts *ProductListOptions) (int, error) {
	if opts == nil {
		opts = &ProductListOptions{}
	}

	query := database.Query[tables.Product](ps.db)
	query = ps.applyFilters(query, opts)

	count, err := query.Count(ctx)
	if err != nil {
		ps.logger.Error("Failed to count products", gecho.Field("error", err))
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// applyDefaultOptions sets default values for unspecified options
func (ps *ProductService) applyDefaultOptions(opts *ProductListOptions) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 20
	}
	if opts.PageSize > 100 {
		opts.PageSize = 100
	}
	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}
	if opts.SortDirection == "" {
		opts.SortDirection = "DESC"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
}

// validateOptions validates the provided options
func (ps *ProductService) validateOptions(opts *ProductListOptions) error {
	validSortFields := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"price":      true,
		"name":       true,
		"sold_count": true,
	}
	if !validSortFields[opts.SortBy] {
		return fmt.Errorf("invalid sort field: %s", opts.SortBy)
	}

	if opts.SortDirection != "ASC" && opts.SortDirection != "DESC" {
		return fmt.Errorf("invalid sort direction: %s (must be ASC or DESC)", opts.SortDirection)
	}

	if opts.MinPrice != nil && opts.MaxPrice != nil && *opts.MinPrice > *opts.MaxPrice {
		return fmt.Errorf("min_price cannot be greater than max_price")
	}

	return nil
}

// applyFilters applies all filter conditions to the query
func (ps *ProductService) applyFilters(query *database.QueryBuilder[tables.Product], opts *ProductListOptions) *database.QueryBuilder[tables.Product] {
	if opts.IsActive != nil {
		query = query.Where("is_active", *opts.IsActive)
	}

	if opts.Brand != "" {
		query = query.WhereRaw("LOWER(brand) = LOWER(?)", opts.Brand)
	}

	if opts.MinPrice != nil {
		query = query.WhereOp("price_cents", ">=", *opts.MinPrice)
	}
	if opts.MaxPrice != nil {
		query = query.WhereOp("price_cents", "<=", *opts.MaxPrice)
	}

	if opts.SearchTerm != "" {
		searchPattern := "%" + opts.SearchTerm + "%"
		query = query.WhereRaw(
			"(name ILIKE ? OR description ILIKE ? OR brand ILIKE ?)",
			searchPattern, searchPattern, searchPattern,
		)
	}

	if opts.InStock {
		query = query.WhereRaw(
			"EXISTS (SELECT 1 FROM product_variants pv WHERE pv.product_id = p.id AND pv.stock > 0)",
		)
	}

	return query
}

// applySorting applies sorting to the query
func (ps *ProductService) applySorting(query *database.QueryBuilder[tables.Product], opts *ProductListOptions) *database.QueryBuilder[tables.Product] {
	var direction database.OrderDirection
	if opts.SortDirection == "ASC" {
		direction = database.ASC
	} else {
		direction = database.DESC
	}

	sortColumn := opts.SortBy
	if sortColumn == "price" {
		sortColumn = "price_cents"
	}

	query = query.OrderBy(sortColumn, direction)

	// Secondary sort by ID for stable ordering across pages
	query = query.OrderBy("id", database.ASC)

	return query
}
