package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-companion-be/internal/constant"
	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/repository/specification"
	"ai-companion-be/internal/repository/unitofwork"
	"ai-companion-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ChatSessionRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Affect Config Repository", func(t *testing.T) {
		rows, err := uow.AffectConfigRepository().FindAllActive(context.Background())
		assert.NoError(t, err)
		t.Logf("Active affect lists: %d", len(rows))
	})

	t.Run("Message round trip keeps order", func(t *testing.T) {
		ctx := context.Background()
		session := &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    uuid.New(),
			Title:     "integration",
			StartedAt: time.Now(),
		}
		require.NoError(t, uow.ChatSessionRepository().Create(ctx, session))

		now := time.Now()
		for i, role := range []string{constant.MessageRoleUser, constant.MessageRoleCompanion} {
			msg := &entity.Message{
				Id:            uuid.New(),
				ChatSessionId: session.Id,
				Role:          role,
				Content:       "turno de prueba",
				CreatedAt:     now.Add(time.Duration(i) * time.Millisecond),
			}
			require.NoError(t, uow.MessageRepository().Append(ctx, msg))
			assert.NotZero(t, msg.Seq, "database must assign seq")
		}

		stored, err := uow.MessageRepository().FindAll(ctx, specification.ByChatSessionID{ChatSessionID: session.Id})
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, constant.MessageRoleUser, stored[0].Role)
		assert.Equal(t, constant.MessageRoleCompanion, stored[1].Role)
	})
}
