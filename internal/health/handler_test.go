package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/bookclub/internal/testutil"
)

type fixedChat int

func (f fixedChat) Connections() int { return int(f) }

func setupRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", handler.Check)
	return router
}

func check(t *testing.T, handler *Handler) (int, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	setupRouter(handler).ServeHTTP(w, req)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHandler_Check(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		db := testutil.NewDB(t)
		code, resp := check(t, New(db, fixedChat(3), zap.NewNop().Sugar()))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "up", resp.Database)
		assert.Equal(t, 3, resp.ChatConnections)
		assert.GreaterOrEqual(t, resp.OpenConnections, 1)
	})

	t.Run("without chat", func(t *testing.T) {
		db := testutil.NewDB(t)
		code, resp := check(t, New(db, nil, zap.NewNop().Sugar()))

		assert.Equal(t, http.StatusOK, code)
		assert.Zero(t, resp.ChatConnections)
	})

	t.Run("database unavailable", func(t *testing.T) {
		db := testutil.NewDB(t)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		code, resp := check(t, New(db, fixedChat(1), zap.NewNop().Sugar()))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "down", resp.Database)
	})

	t.Run("nil database", func(t *testing.T) {
		code, _ := check(t, New(nil, nil, zap.NewNop().Sugar()))
		assert.Equal(t, http.StatusServiceUnavailable, code)
	})

	t.Run("concurrent checks", func(t *testing.T) {
		db := testutil.NewDB(t)
		router := setupRouter(New(db, nil, zap.NewNop().Sugar()))

		// collect codes so asserts run on the test goroutine
		results := make(chan int, 10)
		for i := 0; i < 10; i++ {
			go func() {
				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
				results <- w.Code
			}()
		}
		for i := 0; i < 10; i++ {
			assert.Equal(t, http.StatusOK, <-results)
		}
	})
}
