package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Runs against a real PostgreSQL when TEST_DATABASE_URL is set.
func TestImageRepositoryPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := NewPostgresPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	repo, err := NewImageRepository(ctx, pool, true, zap.NewNop())
	require.NoError(t, err)

	customerID, orderID := uuid.NewString(), uuid.NewString()
	orderNumber := "ORD-" + orderID[:8]
	_, err = pool.Exec(ctx, "INSERT INTO customers (id, first_name, last_name) VALUES ($1, 'Mona', 'Said')", customerID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, "INSERT INTO orders (id, order_number, customer_id) VALUES ($1, $2, $3)", orderID, orderNumber, customerID)
	require.NoError(t, err)

	id := uuid.NewString()
	alt := "front bumper"
	_, err = repo.CreateImage(ctx, NewImage{
		ID:          id,
		URL:         "https://cdn.test/" + id + ".png",
		ObjectKey:   "test/" + id + ".png",
		AltText:     &alt,
		OrderID:     &orderID,
		ContentType: "image/png",
		SizeBytes:   42,
	})
	require.NoError(t, err)

	images, total, err := repo.ListImages(ctx, 1, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, 1)
	require.Len(t, images, 1)
	assert.Equal(t, id, images[0].ID)
	assert.Equal(t, orderID, images[0].OrderID)
	require.NotNil(t, images[0].Order)
	assert.Equal(t, orderNumber, images[0].Order.OrderNumber)
	assert.Equal(t, "Mona Said", images[0].CustomerName())
	require.NotNil(t, images[0].AltText)
	assert.Equal(t, alt, *images[0].AltText)

	key, err := repo.DeleteImage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "test/"+id+".png", key)

	_, err = repo.DeleteImage(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
