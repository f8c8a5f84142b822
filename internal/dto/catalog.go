package dto

import (
	"time"

	"bookswap-api/internal/models"
)

type CreateProductRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category"`
	PriceCents   int64  `json:"price_cents" binding:"min=0"`
	StockCurrent int32  `json:"stock_current" binding:"min=0"`
	StockTotal   int32  `json:"stock_total" binding:"min=0"`
	Supplier     string `json:"supplier"`
}

type UpdateProductRequest struct {
	Name         *string `json:"name"`
	Category     *string `json:"category"`
	PriceCents   *int64  `json:"price_cents"`
	StockCurrent *int32  `json:"stock_current"`
	StockTotal   *int32  `json:"stock_total"`
	Supplier     *string `json:"supplier"`
}

type ProductResponse struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Category     string    `json:"category,omitempty"`
	PriceCents   int64     `json:"price_cents"`
	StockCurrent int32     `json:"stock_current"`
	StockTotal   int32     `json:"stock_total"`
	Status       string    `json:"status"`
	Supplier     string    `json:"supplier,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID.String(),
		Code:         p.Code,
		Name:         p.Name,
		Category:     p.Category,
		PriceCents:   p.PriceCents,
		StockCurrent: p.StockCurrent,
		StockTotal:   p.StockTotal,
		Status:       p.Status(),
		Supplier:     p.Supplier,
		CreatedAt:    p.CreatedAt,
	}
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
}

type BookResponse struct {
	BookID     string `json:"book_id"`
	ItemName   string `json:"item_name"`
	Quantity   int32  `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

func ToBookResponse(b *models.Book) BookResponse {
	return BookResponse{
		BookID:     b.BookID,
		ItemName:   b.ItemName,
		Quantity:   b.Quantity,
		PriceCents: b.PriceCents,
	}
}

type SyncToInventoryResponse struct {
	Synced int `json:"synced"`
}

type SupplierRequest struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type SupplierResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func ToSupplierResponse(s *models.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:      s.ID.String(),
		Name:    s.Name,
		Contact: s.Contact,
		Email:   s.Email,
		Phone:   s.Phone,
		Address: s.Address,
	}
}
