package product

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/slobi-app/slobi-backend/pkg/db/models"
	"github.com/slobi-app/slobi-backend/pkg/enums"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  creator_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price_kobo INTEGER NOT NULL,
  discount_percentage INTEGER,
  delivery_kind TEXT NOT NULL DEFAULT 'file',
  file_key TEXT,
  content_url TEXT,
  delivery_note TEXT,
  position INTEGER NOT NULL DEFAULT 0,
  is_deleted INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func mustCreateTestProduct(t *testing.T, db *gorm.DB, creatorID uuid.UUID, position int) *models.Product {
	t.Helper()
	url := "https://files.slobi.app/guide.pdf"
	product := &models.Product{
		ID:           uuid.New(),
		CreatorID:    creatorID,
		Name:         fmt.Sprintf("Product %d", position),
		PriceKobo:    500000,
		DeliveryKind: enums.DeliveryKindFile,
		ContentURL:   &url,
		Position:     position,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
