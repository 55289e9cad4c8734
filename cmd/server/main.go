package main

import (
	"context"
	"database/sql"
	"log"
	"net/smtp"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/storekit/auth"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	cfg := MustLoadConfig()

	lgr := stdLogger{}
	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.DSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	auther := auth.NewAuthenticator(repo.Users(), repo.SessionTokens(), cfg).
		WithLogger(lgr).
		WithMailer(buildMailer(cfg, lgr))

	httpAuth, err := auth.NewHTTPAuthenticator(auther, cfg)
	if err != nil {
		log.Fatalf("http auth: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "storekit-auth",
	})

	auth.RegisterAuthRoutes(app,
		auth.WithControllerAuther(auther),
		auth.WithControllerHTTP(httpAuth),
		auth.WithControllerLogger(lgr),
		auth.WithControllerDebug(cfg.Debug),
	)

	go func() {
		if err := app.Listen(cfg.Address); err != nil {
			log.Fatalf("server: %v", err)
		}
	}()

	lgr.Info("auth service listening on %s", cfg.Address)

	WaitExitSignal()

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		lgr.Error("shutdown: %s", err)
	}
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	for _, model := range []any{
		(*auth.User)(nil),
		(*auth.SessionToken)(nil),
	} {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func buildMailer(cfg *Config, lgr auth.Logger) auth.VerificationSender {
	if cfg.SMTPAddr == "" {
		lgr.Warn("no SMTP address configured, verification emails go nowhere")
		return auth.NoopVerificationSender{}
	}

	var smtpAuth smtp.Auth
	if cfg.SMTPUser != "" {
		host := cfg.SMTPAddr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		smtpAuth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, host)
	}

	return auth.NewSMTPVerificationSender(cfg.SMTPAddr, cfg.SMTPFrom, smtpAuth).
		WithLogger(lgr)
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}

type stdLogger struct{}

func (stdLogger) Debug(format string, args ...any) { log.Printf("[DBG] "+format, args...) }
func (stdLogger) Info(format string, args ...any)  { log.Printf("[INF] "+format, args...) }
func (stdLogger) Warn(format string, args ...any)  { log.Printf("[WRN] "+format, args...) }
func (stdLogger) Error(format string, args ...any) { log.Printf("[ERR] "+format, args...) }
