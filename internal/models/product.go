package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category - категория товаров.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Product - товар каталога.
type Product struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unitPrice"`
	UnitWeight  decimal.Decimal `db:"unit_weight" json:"unitWeight"`
	CategoryID  int64           `db:"category_id" json:"categoryId"`
	Category    *Category       `json:"category,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"-"`
	UpdatedAt   time.Time       `db:"updated_at" json:"-"`
}

// ProductRequest - запрос на создание или изменение товара.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	UnitWeight  decimal.Decimal `json:"unitWeight"`
	CategoryID  int64           `json:"categoryId"`
}

// ImportItem - элемент массива первичной загрузки каталога.
// Поля-указатели позволяют отличить отсутствующее значение от нулевого.
type ImportItem struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"`
	UnitWeight  *decimal.Decimal `json:"unitWeight"`
	CategoryID  *int64           `json:"categoryId"`
}

// ImportResponse - результат первичной загрузки каталога.
type ImportResponse struct {
	Count int `json:"count"`
}

// SEODescriptionResponse - сгенерированное SEO-описание товара.
type SEODescriptionResponse struct {
	ProductID   int64  `json:"productId"`
	Description string `json:"description"`
}
