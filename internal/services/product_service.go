package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agamariel/shopmart/internal/cache"
	"github.com/agamariel/shopmart/internal/models"
	"github.com/agamariel/shopmart/internal/seo"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	productCacheTTL = 5 * time.Minute
	seoCacheTTL     = 24 * time.Hour
)

// ValidationError - некорректные данные запроса.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ImportItemError указывает на первый некорректный элемент пакетной загрузки (нумерация с 1).
type ImportItemError struct {
	Index   int
	Message string
}

func (e *ImportItemError) Error() string {
	return fmt.Sprintf("Item #%d: %s", e.Index, e.Message)
}

// ProductService определяет операции каталога.
type ProductService interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, req *models.ProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *models.ProductRequest) (*models.Product, error)
	ImportProducts(ctx context.Context, items []*models.ImportItem) (int, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	ListStatuses(ctx context.Context) ([]*models.StatusRecord, error)
	SEODescription(ctx context.Context, id int64) (*models.SEODescriptionResponse, error)
}

// ProductServiceImpl реализует ProductService.
type ProductServiceImpl struct {
	catalog   CatalogStorage
	cache     cache.Cache
	generator seo.Generator
	logger    *log.Entry
}

// NewProductService создаёт сервис каталога. cache и generator могут быть nil.
func NewProductService(catalog CatalogStorage, c cache.Cache, generator seo.Generator) *ProductServiceImpl {
	if c == nil {
		c = cache.NopCache{ServiceName: "shopmart"}
	}
	return &ProductServiceImpl{
		catalog:   catalog,
		cache:     c,
		generator: generator,
		logger:    log.WithField("component", "product-service"),
	}
}

// ListProducts возвращает каталог, по возможности из кэша.
func (s *ProductServiceImpl) ListProducts(ctx context.Context) ([]*models.Product, error) {
	key := s.cache.Key("products", "all")

	var products []*models.Product
	if s.cacheGet(ctx, key, &products) {
		return products, nil
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []*models.Product{}
	}

	s.cacheSet(ctx, key, products, productCacheTTL)
	return products, nil
}

// GetProduct возвращает товар по ID.
func (s *ProductServiceImpl) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	key := s.productKey(id)

	var product models.Product
	if s.cacheGet(ctx, key, &product) {
		return &product, nil
	}

	p, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, p, productCacheTTL)
	return p, nil
}

// CreateProduct добавляет товар в каталог.
func (s *ProductServiceImpl) CreateProduct(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {
	if msg := validateProduct(req); msg != "" {
		return nil, &ValidationError{Message: msg}
	}

	product := productFromRequest(req)
	if err := s.catalog.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return product, nil
}

// UpdateProduct изменяет товар. Позиции оформленных заказов сохраняют старую цену.
func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, id int64, req *models.ProductRequest) (*models.Product, error) {
	if msg := validateProduct(req); msg != "" {
		return nil, &ValidationError{Message: msg}
	}

	product := productFromRequest(req)
	product.ID = id
	if err := s.catalog.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, s.productKey(id), s.cache.Key("seo", strconv.FormatInt(id, 10)))
	return product, nil
}

// ImportProducts загружает пакет товаров целиком или не загружает ничего.
func (s *ProductServiceImpl) ImportProducts(ctx context.Context, items []*models.ImportItem) (int, error) {
	if len(items) == 0 {
		return 0, &ValidationError{Message: "import payload must be a non-empty array"}
	}

	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}
	known := make(map[int64]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}

	products := make([]*models.Product, 0, len(items))
	for i, item := range items {
		if msg := validateImportItem(item, known); msg != "" {
			return 0, &ImportItemError{Index: i + 1, Message: msg}
		}
		products = append(products, &models.Product{
			Name:        strings.TrimSpace(*item.Name),
			Description: strings.TrimSpace(*item.Description),
			UnitPrice:   *item.UnitPrice,
			UnitWeight:  *item.UnitWeight,
			CategoryID:  *item.CategoryID,
		})
	}

	if err := s.catalog.CreateProducts(ctx, products); err != nil {
		return 0, err
	}

	s.invalidate(ctx)
	s.logger.WithField("count", len(products)).Info("catalog imported")
	return len(products), nil
}

// ListCategories возвращает категории.
func (s *ProductServiceImpl) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return categories, nil
}

// ListStatuses возвращает справочник статусов заказа.
func (s *ProductServiceImpl) ListStatuses(ctx context.Context) ([]*models.StatusRecord, error) {
	statuses, err := s.catalog.ListStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	if statuses == nil {
		statuses = []*models.StatusRecord{}
	}
	return statuses, nil
}

// SEODescription генерирует (или берёт из кэша) SEO-описание товара.
func (s *ProductServiceImpl) SEODescription(ctx context.Context, id int64) (*models.SEODescriptionResponse, error) {
	if s.generator == nil {
		return nil, seo.ErrNotConfigured
	}

	key := s.cache.Key("seo", strconv.FormatInt(id, 10))

	var resp models.SEODescriptionResponse
	if s.cacheGet(ctx, key, &resp) {
		return &resp, nil
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	text, err := s.generator.GenerateDescription(ctx, product)
	if err != nil {
		return nil, err
	}

	resp = models.SEODescriptionResponse{ProductID: id, Description: text}
	s.cacheSet(ctx, key, resp, seoCacheTTL)
	return &resp, nil
}

func (s *ProductServiceImpl) productKey(id int64) string {
	return s.cache.Key("product", strconv.FormatInt(id, 10))
}

// cacheGet читает значение из кэша; любая ошибка считается промахом.
func (s *ProductServiceImpl) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WithError(err).WithField("key", key).Warn("cache get failed")
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("cache entry is corrupted")
		return false
	}
	return true
}

func (s *ProductServiceImpl) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("cache encode failed")
		return
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}

// invalidate сбрасывает список товаров и переданные ключи.
func (s *ProductServiceImpl) invalidate(ctx context.Context, keys ...string) {
	keys = append(keys, s.cache.Key("products", "all"))
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.WithError(err).Warn("cache invalidation failed")
	}
}

func productFromRequest(req *models.ProductRequest) *models.Product {
	return &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		UnitPrice:   req.UnitPrice,
		UnitWeight:  req.UnitWeight,
		CategoryID:  req.CategoryID,
	}
}

func validateProduct(req *models.ProductRequest) string {
	switch {
	case req == nil:
		return "request body is required"
	case strings.TrimSpace(req.Name) == "":
		return "name is required"
	case !req.UnitPrice.GreaterThan(decimal.Zero):
		return "unit price must be greater than zero"
	case !req.UnitWeight.GreaterThan(decimal.Zero):
		return "unit weight must be greater than zero"
	case req.CategoryID <= 0:
		return "category is required"
	}
	return ""
}

func validateImportItem(item *models.ImportItem, categories map[int64]bool) string {
	switch {
	case item == nil:
		return "item must be an object"
	case item.Name == nil || strings.TrimSpace(*item.Name) == "":
		return "name is required"
	case item.Description == nil || strings.TrimSpace(*item.Description) == "":
		return "description is required"
	case item.UnitPrice == nil || !item.UnitPrice.GreaterThan(decimal.Zero):
		return "unit price must be greater than zero"
	case item.UnitWeight == nil || !item.UnitWeight.GreaterThan(decimal.Zero):
		return "unit weight must be greater than zero"
	case item.CategoryID == nil:
		return "category id is required"
	case !categories[*item.CategoryID]:
		return fmt.Sprintf("category %d not found", *item.CategoryID)
	}
	return ""
}
