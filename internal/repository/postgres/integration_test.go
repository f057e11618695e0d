//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/secrets-server/internal/model"
	repo "github.com/dtroode/secrets-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "secrets_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/secrets_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.Ping(ctx))

	users := repo.NewUserRepository(conn)
	sessions := repo.NewSessionRepository(conn)

	t.Run("local user", func(t *testing.T) {
		u, err := users.CreateLocal(ctx, model.User{
			Username: "alice",
			Local:    &model.LocalCredential{PasswordHash: []byte("hash"), Salt: []byte("salt"), KDF: []byte(`{"time":1}`)},
		})
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, u.ID)

		_, err = users.CreateLocal(ctx, model.User{
			Username: "alice",
			Local:    &model.LocalCredential{PasswordHash: []byte("other"), Salt: []byte("salt")},
		})
		require.ErrorIs(t, err, model.ErrDuplicateUsername)

		byName, err := users.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, u.ID, byName.ID)
		require.NotNil(t, byName.Local)
		require.Equal(t, []byte("hash"), byName.Local.PasswordHash)

		secret := "meet at noon"
		byName.Secret = &secret
		saved, err := users.Save(ctx, byName)
		require.NoError(t, err)
		require.Equal(t, secret, saved.SecretText())

		list, err := users.ListWithSecret(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, u.ID, list[0].ID)
	})

	t.Run("oauth find or create is idempotent under concurrency", func(t *testing.T) {
		const n = 10
		ids := make([]uuid.UUID, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				u, err := users.FindOrCreateOAuth(ctx, model.User{
					OAuth: &model.OAuthCredential{Provider: "google", Subject: "108"},
				})
				require.NoError(t, err)
				ids[i] = u.ID
			}(i)
		}
		wg.Wait()

		for _, id := range ids {
			require.Equal(t, ids[0], id)
		}

		got, err := users.GetByOAuthID(ctx, "google", "108")
		require.NoError(t, err)
		require.Equal(t, ids[0], got.ID)
		require.Equal(t, "", got.Username)
	})

	t.Run("sessions", func(t *testing.T) {
		u, err := users.GetByUsername(ctx, "alice")
		require.NoError(t, err)

		now := time.Now().UTC().Truncate(time.Microsecond)
		live := model.Session{ID: uuid.New(), Identity: model.Identity{UserID: u.ID, Username: u.Username}, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
		stale := model.Session{ID: uuid.New(), Identity: model.Identity{UserID: u.ID}, CreatedAt: now, ExpiresAt: now.Add(-time.Minute)}
		require.NoError(t, sessions.Create(ctx, live))
		require.NoError(t, sessions.Create(ctx, stale))

		got, err := sessions.GetByID(ctx, live.ID)
		require.NoError(t, err)
		require.Equal(t, live.Identity, got.Identity)

		n, err := sessions.DeleteExpired(ctx, now)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		require.NoError(t, sessions.Delete(ctx, live.ID))
		_, err = sessions.GetByID(ctx, live.ID)
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}
