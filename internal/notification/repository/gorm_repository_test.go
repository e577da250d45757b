package repository

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/web5lab/customer-bot-app/internal/notification/domain"
)

// Runs the shared suite against a real database. Set TEST_DATABASE_URL to
// a scratch postgres instance to enable; the device_tokens table is
// truncated between tests.
func TestTokenRepository_Gorm(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.DeviceToken{}))

	runRepositoryTests(t, func(t *testing.T) TokenRepository {
		require.NoError(t, db.Exec("TRUNCATE TABLE device_tokens").Error)
		return NewGormRepository(db)
	})
}
