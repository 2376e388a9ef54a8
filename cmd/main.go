package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"billingBack/internal/config"
	"billingBack/internal/schema"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	addr := flag.String("addr", cfg.Server.Address, "HTTP network address")
	bootstrap := flag.String("bootstrap", "", "apply the table description in this JSON file and exit")
	reset := flag.Bool("reset", false, "drop the described tables before -bootstrap creates them")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	db, err := openDB(cfg)
	if err != nil {
		errorLog.Fatal(err)
	}
	defer db.Close()

	if *bootstrap != "" {
		if err := runBootstrap(db, *bootstrap, *reset, infoLog); err != nil {
			errorLog.Fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp(ctx, db, cfg, errorLog, infoLog)
	if err != nil {
		errorLog.Fatal(err)
	}
	defer app.close()

	go app.paymentHub.Run(ctx)
	startOverdueReporter(ctx, app.invoiceService, cfg.Workers.OverdueInterval, infoLog, errorLog)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
	})

	srv := &http.Server{
		Addr:         *addr,
		ErrorLog:     errorLog,
		Handler:      c.Handler(app.routes()),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errorLog.Printf("shutdown: %v", err)
		}
	}()

	infoLog.Printf("Starting server on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errorLog.Fatal(err)
	}
	infoLog.Print("Server stopped")
}

func openDB(cfg config.Config) (*sql.DB, error) {
	dsn, err := mysql.ParseDSN(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	dsn.ParseTime = true

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// runBootstrap creates the described tables on a single connection, so that a
// reset's FOREIGN_KEY_CHECKS toggle applies to every DROP.
func runBootstrap(db *sql.DB, path string, reset bool, infoLog *log.Logger) error {
	tables, err := schema.Load(path)
	if err != nil {
		return err
	}
	plan, err := schema.NewPlan(tables)
	if err != nil {
		return err
	}
	if plan.Cyclic {
		infoLog.Printf("bootstrap: cycle among %v, creating tables in declaration order", plan.Cycle)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := schema.Apply(ctx, conn, plan, schema.Options{Reset: reset, Logger: infoLog}); err != nil {
		return err
	}
	infoLog.Printf("bootstrap: %d tables, %d foreign keys", len(plan.Creates), len(plan.Constraints))
	return nil
}
