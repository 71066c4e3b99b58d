package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/almaghboub/FixerUpper/internal/domain"
)

func TestUploadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/upload-image", r.URL.Path)

		var req domain.UploadRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "data:image/png;base64,AAAA", req.ImageData)
		assert.Equal(t, "image/png", req.ContentType)

		_, _ = w.Write([]byte(`{"imageUrl":"https://x/y.png"}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL, zap.NewNop()).UploadImage(context.Background(), domain.UploadRequest{
		ImageData:   "data:image/png;base64,AAAA",
		ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://x/y.png", res.ImageURL)
}

func TestErrorBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message envelope", `{"message":"Invalid file type, only PNG allowed"}`, "Invalid file type, only PNG allowed"},
		{"error envelope", `{"error":"File too large"}`, "File too large"},
		{"plain text", "bad gateway\n", "bad gateway"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, zap.NewNop()).UploadImage(context.Background(), domain.UploadRequest{})

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestListOrderImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/order-images", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "12", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{
			"images": [{"id":"img-1","url":"https://x/1.png","orderId":"o-1",
				"order":{"orderNumber":"ORD-7"},"customer":{"firstName":"Sam","lastName":"Lee"},
				"createdAt":"2026-10-01T10:00:00Z"}],
			"pagination": {"page":2,"totalPages":2,"hasNext":false,"hasPrevious":true,"total":13}
		}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL+"/", zap.NewNop()).ListOrderImages(context.Background(), 2, 12)
	require.NoError(t, err)
	require.Len(t, res.Images, 1)
	assert.Equal(t, "ORD-7", res.Images[0].Order.OrderNumber)
	assert.Equal(t, "Sam Lee", res.Images[0].CustomerName())
	assert.Equal(t, domain.Pagination{Page: 2, TotalPages: 2, HasPrevious: true, Total: 13}, res.Pagination)
}

func TestDeleteOrderImage(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/order-images/img-42", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"Image deleted successfully"}`))
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL, zap.NewNop()).DeleteOrderImage(context.Background(), "img-42"))
	assert.Equal(t, 1, calls)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New(url, zap.NewNop()).DeleteOrderImage(context.Background(), "x")
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
