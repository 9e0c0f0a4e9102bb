package seed

import (
	"fmt"
	"testing"

	"docmanager/internal/database"
	"docmanager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeederRun(t *testing.T) {
	db := newSeedDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{
		NumClients:   5,
		NumDocuments: 10,
		NumRequests:  8,
		ShouldClean:  false,
	}))

	var users, documents, requests int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Document{}).Count(&documents).Error)
	require.NoError(t, db.Model(&models.DocumentRequest{}).Count(&requests).Error)

	// 4 fixed staff accounts plus the requested clients.
	assert.Equal(t, int64(9), users)
	assert.Equal(t, int64(10), documents)
	assert.Equal(t, int64(8), requests)

	var denied []models.DocumentRequest
	require.NoError(t, db.Where("status = ?", models.DocumentRequestStatusDenied).Find(&denied).Error)
	for _, r := range denied {
		assert.NotEmpty(t, r.Remarks, "denied requests always carry remarks")
	}

	var head models.User
	require.NoError(t, db.Where("email = ?", "head@docmanager.local").First(&head).Error)
	assert.Equal(t, models.RoleHead, head.Role)
}

func TestSeederClearAll(t *testing.T) {
	db := newSeedDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumClients: 2, NumDocuments: 3, NumRequests: 2}))
	require.NoError(t, s.ClearAll())

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}
