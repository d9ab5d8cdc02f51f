package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/nursery/internal/domain"
)

func Test_productArgs(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := domain.ProductRecord{
		ID:       7,
		Name:     "Blue Spruce",
		Price:    45.5,
		Features: []string{"Hardy"},
		Care:     domain.Care{Light: "Full sun"},
		Extended: domain.Extended{SKU: "CON-PIC-5GAL-007", Supplier: "Monrovia"},
	}

	args, err := productArgs(p, "run-1", now)
	require.NoError(t, err)
	require.Len(t, args, 17)

	assert.Equal(t, int64(7), args[0])
	assert.Equal(t, 45.5, args[4])
	assert.JSONEq(t, `["Hardy"]`, string(args[7].([]byte)))
	assert.JSONEq(t, `{"light":"Full sun"}`, string(args[8].([]byte)))
	assert.JSONEq(t, `[]`, string(args[10].([]byte)))
	assert.Equal(t, "CON-PIC-5GAL-007", args[12])
	assert.JSONEq(t, `{"sku":"CON-PIC-5GAL-007","supplier":"Monrovia"}`, string(args[13].([]byte)))
	assert.Nil(t, args[14].([]byte))
	assert.Equal(t, now, args[16])
}

func Test_productArgs_ProductCard(t *testing.T) {
	p := domain.ProductRecord{ID: 1, ProductCard: map[string]string{domain.CardImage: "/images/product-cards/a.png"}}

	args, err := productArgs(p, "run", time.Now())
	require.NoError(t, err)
	assert.JSONEq(t, `{"card_image":"/images/product-cards/a.png"}`, string(args[14].([]byte)))
}

func Test_Open_RequiresURL(t *testing.T) {
	_, err := Open(context.Background(), "", zerolog.Nop())
	assert.True(t, domain.IsCode(err, domain.EINVALID))
}

// Test_Mirror_Sync runs against a real database when NURSERY_TEST_DATABASE_URL is set.
func Test_Mirror_Sync(t *testing.T) {
	url := os.Getenv("NURSERY_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("NURSERY_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	m, err := Open(ctx, url, zerolog.Nop())
	require.NoError(t, err)
	defer m.Close()

	c := &domain.Catalog{Products: []domain.ProductRecord{
		{ID: 1, Name: "Hosta"},
		{ID: 2, Name: "Boxwood"},
	}}
	_, err = m.Sync(ctx, c, "test-run-1")
	require.NoError(t, err)

	c.Products = c.Products[:1]
	res, err := m.Sync(ctx, c, "test-run-2")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Upserted)
	assert.GreaterOrEqual(t, res.Deleted, 1)

	n, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
