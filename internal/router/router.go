package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	mem "smart-pantry/internal/adapters/storage/memory"
	pg "smart-pantry/internal/adapters/storage/postgres"
	sqlt "smart-pantry/internal/adapters/storage/sqlite"
	"smart-pantry/internal/domain/pantry"
	"smart-pantry/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	// Opcional: si viene, se usa como backend Postgres.
	// Si no, se resuelve por env (ver abajo).
	DB *sql.DB

	// Config del service; vacío = defaults (umbral 5, ventana 3 días).
	Pantry pantry.Config

	Log logger.Logger
}

// NewRouter arma el stack completo: storage, service y rutas.
// Backend por env cuando no viene DB explícita:
// - DB_DSN       => Postgres
// - SQLITE_PATH  => sqlite local
// - nada         => in-memory (dev/tests)
func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var repo pantry.Repository

	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err != nil {
				log.Error("postgres open failed, falling back", map[string]any{"err": err.Error()})
			} else {
				db = opened
			}
		}
	}

	switch {
	case db != nil:
		repo = pg.NewPantryRepo(db)
		log.Info("storage backend", map[string]any{"backend": "postgres"})
	case os.Getenv("SQLITE_PATH") != "":
		path := os.Getenv("SQLITE_PATH")
		sdb, err := sqlt.Open(path)
		if err != nil {
			log.Error("sqlite open failed, using in-memory", map[string]any{"err": err.Error(), "path": path})
			repo = mem.NewPantryRepo()
		} else {
			repo = sqlt.NewPantryRepo(sdb)
			log.Info("storage backend", map[string]any{"backend": "sqlite", "path": path})
		}
	default:
		repo = mem.NewPantryRepo()
		log.Info("storage backend", map[string]any{"backend": "memory"})
	}

	svc := pantry.NewService(repo, opts.Pantry, log)

	if os.Getenv("SEED_DEMO_DATA") == "1" {
		if err := pantry.SeedDemoData(context.Background(), svc, log); err != nil {
			log.Error("seed failed", map[string]any{"err": err.Error()})
		}
	}

	pantry.RegisterRoutes(r, svc)
	pantry.RegisterWebRoutes(r, svc)

	return r
}
