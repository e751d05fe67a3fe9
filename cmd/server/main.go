package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	_ "modernc.org/sqlite"

	emailPkg "hoteladmin/internal/adapters/email"
	"hoteladmin/internal/adapters/export"
	web "hoteladmin/internal/adapters/http"
	"hoteladmin/internal/adapters/http/perf"
	"hoteladmin/internal/adapters/images"
	"hoteladmin/internal/adapters/storage"
	accountStore "hoteladmin/internal/adapters/storage/account"
	auditStore "hoteladmin/internal/adapters/storage/audit"
	contentStore "hoteladmin/internal/adapters/storage/content"
	inquiryStore "hoteladmin/internal/adapters/storage/inquiry"
	outboxStore "hoteladmin/internal/adapters/storage/outbox"
	reservationStore "hoteladmin/internal/adapters/storage/reservation"
	roomStore "hoteladmin/internal/adapters/storage/room"
	"hoteladmin/internal/application/orchestrators"
	"hoteladmin/internal/application/projections"
	"hoteladmin/internal/domain/account"
	"hoteladmin/internal/domain/occupancy"
	"hoteladmin/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hotel",
		Short:        "Hotel back-office: rooms, reservations, inquiries and statistics",
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newCreateAdminCmd(), newExportStatsCmd(), newBackupCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var email, role string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a back-office account, prompting for the password",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			password, err := promptPassword()
			if err != nil {
				return err
			}
			db, timed, err := openDB(cfg.DBPath, nil, cfg.SlowQuery)
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := orchestrators.ExecuteCreateAccount(cmd.Context(), orchestrators.CreateAccountInput{
				Email:    email,
				Password: password,
				Role:     role,
			}, orchestrators.CreateAccountDeps{
				AccountStore: accountStore.NewSQLiteStore(timed),
				GenerateID:   newID,
				Now:          time.Now,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s account %s (%s)\n", role, email, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&role, "role", account.RoleAdmin, "account role: admin or staff")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newExportStatsCmd() *cobra.Command {
	var format, month, out string
	var months int
	cmd := &cobra.Command{
		Use:   "export-stats",
		Short: "Write the statistics dashboard as XLSX or CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if format != export.FormatXLSX && format != export.FormatCSV {
				return export.ErrUnknownFormat
			}
			end, err := occupancy.ParseCursor(month, occupancy.CursorFor(time.Now()))
			if err != nil {
				return fmt.Errorf("--month must be YYYY-MM: %w", err)
			}
			db, timed, err := openDB(cfg.DBPath, nil, cfg.SlowQuery)
			if err != nil {
				return err
			}
			defer db.Close()

			d, err := projections.QueryDashboard(cmd.Context(), projections.DashboardQuery{End: end, Months: months}, projections.DashboardDeps{
				RoomStore:        roomStore.NewSQLiteStore(timed),
				ReservationStore: reservationStore.NewSQLiteStore(timed),
			})
			if err != nil {
				return err
			}

			if out == "" {
				out = export.FileName(format, time.Now())
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.Write(f, format, d.Tables()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s to %s)\n", out, d.From, d.To)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", export.FormatXLSX, "xlsx or csv")
	cmd.Flags().StringVar(&month, "month", "", "last month of the window, YYYY-MM (default current)")
	cmd.Flags().IntVar(&months, "months", 0, "window length in months (default 6)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default hotel-statistics-<date>.<format>)")
	return cmd
}

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <dest>",
		Short: "Write a consistent copy of the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, _, err := openDB(cfg.DBPath, nil, cfg.SlowQuery)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := storage.Backup(cmd.Context(), db, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backed up %s to %s\n", cfg.DBPath, args[0])
			return nil
		},
	}
}

// openDB opens and migrates the SQLite database at path and wraps it with query timing.
func openDB(path string, collector *perf.Collector, slowQuery time.Duration) (*sql.DB, *storage.TimedDB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.InitDB(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	if err := storage.MigrateDB(db, path); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, storage.NewTimedDB(db, collector, slowQuery), nil
}

func newStores(db storage.SQLDB) web.Stores {
	return web.Stores{
		AccountStore:     accountStore.NewSQLiteStore(db),
		RoomStore:        roomStore.NewSQLiteStore(db),
		ReservationStore: reservationStore.NewSQLiteStore(db),
		InquiryStore:     inquiryStore.NewSQLiteStore(db),
		ContentStore:     contentStore.NewSQLiteStore(db),
		OutboxStore:      outboxStore.NewSQLiteStore(db),
		AuditStore:       auditStore.NewSQLiteStore(db),
	}
}

func serve(ctx context.Context, cfg Config) error {
	collector := perf.NewCollector(perf.DefaultRingSize)
	db, timed, err := openDB(cfg.DBPath, collector, cfg.SlowQuery)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Println("Database initialized successfully!")

	stores := newStores(timed)

	seedDeps := orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore, GenerateID: newID, Now: time.Now}
	if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := orchestrators.ExecuteSeedContent(ctx, orchestrators.ContentDeps{ContentStore: stores.ContentStore, Now: time.Now}); err != nil {
		return fmt.Errorf("seed content: %w", err)
	}

	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.Production() {
			log.Println("WARNING: HOTEL_RESEND_KEY is not set, inquiry replies will not be delivered")
		} else {
			log.Println("Email sender configured (noop, set HOTEL_RESEND_KEY for real delivery)")
		}
	}

	imgs, err := images.NewLocalStore(cfg.ImageDir, web.ImageURLPrefix)
	if err != nil {
		return err
	}

	processor := orchestrators.NewOutboxProcessor(stores.OutboxStore, map[string]orchestrators.ActionExecutor{
		outbox.ActionTypeInquiryReply: &orchestrators.EmailExecutor{Sender: sender, From: cfg.EmailFrom, ReplyTo: cfg.ReplyTo},
	}, time.Now)
	stopOutbox := make(chan struct{})
	orchestrators.StartBackgroundWorker(processor, cfg.OutboxInterval, stopOutbox)
	defer close(stopOutbox)

	srv := web.NewServer(stores, web.Options{
		CSRFKey:            cfg.CSRFKey,
		Production:         cfg.Production(),
		TrustedOrigins:     cfg.TrustedOrigins,
		RateLimitPerSecond: cfg.RateLimit,
		SlowRequest:        cfg.SlowRequest,
		Images:             imgs,
		ImageDir:           cfg.ImageDir,
		Outbox:             processor,
		Perf:               collector,
		Palette:            occupancy.DefaultPalette,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Hotel %s starting on %s (env=%s, schema=%d)", version, cfg.Addr, cfg.Env, storage.LatestSchemaVersion())
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func newID() string {
	return uuid.New().String()
}

// promptPassword reads the password twice without echo.
func promptPassword() (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return "", errors.New("create-admin needs an interactive terminal")
	}
	fmt.Print("Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Print("Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
