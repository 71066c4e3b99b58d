package domain

import (
	"math"
	"time"
)

// UploadRequest is the body of POST /api/upload-image. It only lives for the
// duration of one upload call.
type UploadRequest struct {
	ImageData   string `json:"imageData" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

type UploadResult struct {
	ImageURL string `json:"imageUrl"`
}

type OrderRef struct {
	OrderNumber string `json:"orderNumber"`
}

type CustomerRef struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ImageRecord is owned by the server; clients only read or delete it.
type ImageRecord struct {
	ID        string       `json:"id"`
	URL       string       `json:"url"`
	AltText   *string      `json:"altText,omitempty"`
	OrderID   string       `json:"orderId"`
	Order     *OrderRef    `json:"order,omitempty"`
	Customer  *CustomerRef `json:"customer,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (r ImageRecord) CustomerName() string {
	if r.Customer == nil {
		return ""
	}
	if r.Customer.LastName == "" {
		return r.Customer.FirstName
	}
	return r.Customer.FirstName + " " + r.Customer.LastName
}

type Pagination struct {
	Page        int  `json:"page"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
	Total       int  `json:"total"`
}

func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		Page:        page,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
		Total:       total,
	}
}

type PageResult struct {
	Images     []ImageRecord `json:"images"`
	Pagination Pagination    `json:"pagination"`
}

// ErrorResponse is the failure body returned by every endpoint.
type ErrorResponse struct {
	Message string `json:"message"`
}
