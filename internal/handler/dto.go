package handler

import "github.com/mercadolite/storefront/internal/domain/product"

// Wire types mirror the JSON contract the web client consumes. Prices are
// serialized as plain numbers.

type productDTO struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Price         float64      `json:"price"`
	OriginalPrice *float64     `json:"originalPrice,omitempty"`
	Currency      string       `json:"currency"`
	Image         string       `json:"image"`
	Category      string       `json:"category"`
	Seller        sellerDTO    `json:"seller"`
	Rating        float64      `json:"rating"`
	Reviews       int          `json:"reviews"`
	Shipping      shippingDTO  `json:"shipping"`
	Stock         int          `json:"stock"`
	Discount      *discountDTO `json:"discount,omitempty"`
}

type sellerDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Reputation int    `json:"reputation"`
	Location   string `json:"location"`
}

type shippingDTO struct {
	Free bool     `json:"free"`
	Cost *float64 `json:"cost,omitempty"`
}

type discountDTO struct {
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
}

type paginatedDTO struct {
	Items      []productDTO `json:"items"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"totalPages"`
}

type statsDTO struct {
	TotalProducts int           `json:"totalProducts"`
	Categories    []string      `json:"categories"`
	PriceRange    priceRangeDTO `json:"priceRange"`
	StockTotal    int           `json:"stockTotal"`
}

type priceRangeDTO struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

func toProductDTO(p product.Product) productDTO {
	dto := productDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Currency:    p.Currency,
		Image:       p.Image,
		Category:    p.Category,
		Seller: sellerDTO{
			ID:         p.Seller.ID,
			Name:       p.Seller.Name,
			Reputation: p.Seller.Reputation,
			Location:   p.Seller.Location,
		},
		Rating:   p.Rating,
		Reviews:  p.Reviews,
		Shipping: shippingDTO{Free: p.Shipping.Free},
		Stock:    p.Stock,
	}
	if p.OriginalPrice != nil {
		v := p.OriginalPrice.InexactFloat64()
		dto.OriginalPrice = &v
	}
	if p.Shipping.Cost != nil {
		v := p.Shipping.Cost.InexactFloat64()
		dto.Shipping.Cost = &v
	}
	if p.Discount != nil {
		dto.Discount = &discountDTO{
			Percentage: p.Discount.Percentage.InexactFloat64(),
			Amount:     p.Discount.Amount.InexactFloat64(),
		}
	}
	return dto
}

func toProductDTOs(products []product.Product) []productDTO {
	out := make([]productDTO, len(products))
	for i, p := range products {
		out[i] = toProductDTO(p)
	}
	return out
}
