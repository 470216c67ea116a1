// Command seed applies the database schema and provisions the initial admin
// account. The generated temporary password is printed exactly once and must
// be rotated on first login.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"

	"driverhub/api/internal/config"
	"driverhub/api/internal/database"
	"driverhub/api/internal/ids"
	"driverhub/api/internal/log"
	"driverhub/api/internal/models"
	"driverhub/api/internal/repository"
	"driverhub/api/internal/security"
)

// No 0/O/1/l/I to keep the password readable when handed over on paper.
const tempPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"
const tempPasswordLength = 12

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(cfg.Environment)
	ctx := context.Background()

	if err := database.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}
	logger.Info().Msg("database schema up to date")

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer pool.Close()

	users := repository.NewUserRepository(pool)

	if _, err := users.FindByUsername(ctx, "admin"); err == nil {
		logger.Info().Msg("admin user already exists, nothing to do")
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		logger.Fatal().Err(err).Msg("admin lookup failed")
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		logger.Fatal().Err(err).Msg("temp password generation failed")
	}

	hasher := security.NewHasher(cfg.Security.BcryptCost)
	hash, err := hasher.Hash(tempPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("password hash failed")
	}

	admin := models.User{
		ID:                 ids.New(),
		Username:           "admin",
		PasswordHash:       hash,
		Role:               models.UserRoleAdmin,
		MustChangePassword: true,
	}
	if err := users.Create(ctx, admin); err != nil {
		logger.Fatal().Err(err).Msg("admin create failed")
	}

	fmt.Println("========================================")
	fmt.Println("  INITIAL ADMIN CREDENTIALS")
	fmt.Println("========================================")
	fmt.Println("  Username: admin")
	fmt.Printf("  Password: %s\n", tempPassword)
	fmt.Println("========================================")
	fmt.Println("  This password MUST be changed on")
	fmt.Println("  first login.")
	fmt.Println("========================================")
}

func generateTempPassword() (string, error) {
	password := make([]byte, tempPasswordLength)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range password {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		password[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(password), nil
}
