package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/go-identity"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	ctx := context.Background()

	cfg, err := auth.NewEnvConfig()
	if err != nil {
		log.Fatal(err)
	}

	dsn := os.Getenv("AUTH_DSN")
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	db, err := openDatabase(ctx, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	repo := auth.NewRepositoryManager(db)
	provider := auth.NewUserProvider(repo.Users())
	auther := auth.NewAuthenticator(provider, cfg)

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: true,
			StrictRouting:     false,
		}))
	})

	auth.RegisterAuthRoutes(
		srv.Router(),
		auth.WithControllerRepo(repo),
		auth.WithControllerAuther(auther),
		auth.WithControllerConfig(cfg),
	)

	addr := os.Getenv("AUTH_HTTP_ADDR")
	if addr == "" {
		addr = ":8572"
	}

	srv.Serve(addr)

	sig := WaitExitSignal()
	fmt.Printf("received %s, shutting down\n", sig)
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	models := []any{
		(*auth.User)(nil),
		(*auth.UserFollow)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// WaitExitSignal blocks until the process gets asked to quit
func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
