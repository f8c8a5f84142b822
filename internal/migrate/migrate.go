package migrate

import (
	"context"

	"bookswap-api/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	WithPasswordReset   bool // password_reset_tokens
	CreateFunctionalIdx bool // lower(email) unique index on users
	SeedSystemWallet    bool // singleton system wallet row
	SeedCounters        bool // ORD/PAY/REF counter rows
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		WithPasswordReset:   true,
		CreateFunctionalIdx: true,
		SeedSystemWallet:    true,
		SeedCounters:        true,
	}
}

func MigrateBookswapDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("starting database migration")

	if err := db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		log.Error("failed to enable pgcrypto extension", zap.Error(err))
		return err
	}
	if err := db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Error("failed to enable uuid-ossp extension", zap.Error(err))
		return err
	}

	modelsAny := []any{
		&models.User{},
		&models.Product{},
		&models.Book{},
		&models.Order{},
		&models.OrderItem{},
		&models.Ticket{},
		&models.TicketResponse{},
		&models.Payment{},
		&models.Refund{},
		&models.Fine{},
		&models.Wallet{},
		&models.Notification{},
		&models.Supplier{},
		&models.Loan{},
		&models.Counter{},
	}
	if opt.WithPasswordReset {
		modelsAny = append(modelsAny, &models.PasswordResetToken{})
	}

	if err := db.WithContext(ctx).AutoMigrate(modelsAny...); err != nil {
		log.Error("failed to create tables", zap.Error(err))
		return err
	}

	if opt.CreateFunctionalIdx {
		if err := db.WithContext(ctx).Exec(
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email_lower ON users (lower(email))`,
		).Error; err != nil {
			log.Error("failed to create lower(email) index", zap.Error(err))
			return err
		}
	}

	// Non-negative stock and balances belong to the schema, not just the code.
	checks := []string{
		`ALTER TABLE books ADD CONSTRAINT chk_books_quantity_nonneg CHECK (quantity >= 0)`,
		`ALTER TABLE products ADD CONSTRAINT chk_products_stock_nonneg CHECK (stock_current >= 0)`,
		`ALTER TABLE order_items ADD CONSTRAINT chk_order_items_qty_pos CHECK (quantity > 0)`,
		`ALTER TABLE wallets ADD CONSTRAINT chk_wallets_balance_nonneg CHECK (balance_cents >= 0)`,
	}
	for _, stmt := range checks {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			// constraint may already exist from a previous run
			log.Warn("check constraint not applied", zap.String("stmt", stmt), zap.Error(err))
		}
	}

	if opt.SeedCounters {
		for _, name := range []string{"ORD", "PAY", "REF"} {
			if err := db.WithContext(ctx).Exec(
				`INSERT INTO counters (name, value) VALUES (?, 0) ON CONFLICT (name) DO NOTHING`, name,
			).Error; err != nil {
				log.Error("failed to seed counter", zap.String("name", name), zap.Error(err))
				return err
			}
		}
	}

	if opt.SeedSystemWallet {
		if err := db.WithContext(ctx).Exec(
			`INSERT INTO wallets (type, balance_cents) SELECT 'system', 0
			 WHERE NOT EXISTS (SELECT 1 FROM wallets WHERE type = 'system')`,
		).Error; err != nil {
			log.Error("failed to seed system wallet", zap.Error(err))
			return err
		}
	}

	log.Info("database migration finished")
	return nil
}
