//go:build !integration

package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// --- Бенчмарки ---

// Создание консьюмера (идемпотентный путь) — LEAN vs FULL пайплайн middleware
func BenchmarkHTTP_CreateConsumer(b *testing.B) {
	h := NewHandler(factoryStub{}, devicesStub{}, nopLogger{}, 2*time.Second)

	lean := makeLeanRouter(h)
	full := makeFullRouter(h)

	b.Run("lean/no-mw", func(b *testing.B) {
		benchServe(b, lean, http.MethodPost, "/v1/command-consumers/DEFAULT_TENANT", http.StatusNoContent)
	})
	b.Run("full/prod-mw", func(b *testing.B) {
		benchServe(b, full, http.MethodPost, "/v1/command-consumers/DEFAULT_TENANT", http.StatusNoContent)
	})
}

// Список активных тенантов: 10/100/1000 — рост аллокаций на маршалинге
func BenchmarkHTTP_ListConsumers(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run("N="+strconv.Itoa(n), func(b *testing.B) {
			tenants := make([]string, 0, n)
			for i := 0; i < n; i++ {
				tenants = append(tenants, "tenant-"+strconv.Itoa(i))
			}
			h := NewHandler(factoryStub{tenants: tenants}, devicesStub{}, nopLogger{}, 2*time.Second)

			lean := makeLeanRouter(h)
			benchServe(b, lean, http.MethodGet, "/v1/command-consumers?limit="+strconv.Itoa(n), http.StatusOK)
		})
	}
}

// Ошибочный путь (404): "цена" роутера и 404-хендлера
func BenchmarkHTTP_404(b *testing.B) {
	h := NewHandler(factoryStub{}, devicesStub{}, nopLogger{}, 2*time.Second)
	benchServe(b, makeLeanRouter(h), http.MethodGet, "/nope", http.StatusNotFound)
}

// --- nopLogger — логгер, который не делает ничего. ---

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// --- Стабы ---

type factoryStub struct{ tenants []string }

func (factoryStub) CreateCommandConsumer(context.Context, string) error { return nil }
func (factoryStub) StopCommandConsumer(context.Context, string) error   { return nil }
func (f factoryStub) Tenants() []string                                 { return f.tenants }
func (factoryStub) Health() map[string]string                           { return nil }

type devicesStub struct{}

func (devicesStub) SetAdapterInstance(context.Context, string, string, string, time.Duration) error {
	return nil
}
func (devicesStub) RemoveAdapterInstance(context.Context, string, string, string) (bool, error) {
	return true, nil
}
func (devicesStub) SetLastKnownGateway(context.Context, string, string, string) error { return nil }

// --- функции-помощники ---

func makeLeanRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New() // без Recovery/otel/logger — получаем меньшую аллокацию
	r.GET("/v1/command-consumers", h.listConsumers)
	r.POST("/v1/command-consumers/:tenant", h.createConsumer)
	return r
}

func makeFullRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	// prod пайплайн из NewRouter
	return NewRouter(h, "")
}

func benchServe(b *testing.B, r *gin.Engine, method, path string, wantCode int) {
	b.Helper()
	b.ReportAllocs()
	b.ResetTimer()

	// Параллельный режим ближе к реальности без TCP
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(method, path, http.NoBody)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			// вычитываем тело
			_, _ = io.Copy(io.Discard, w.Body)
			if w.Code != wantCode {
				b.Fatalf("status=%d", w.Code)
			}
		}
	})
}
