package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/docgenius-ai/docgenius/internal/config"
	"github.com/docgenius-ai/docgenius/internal/repository"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
		Long:  "Inspect and verify user accounts",
	}

	cmd.AddCommand(UserVerifyCmd())
	cmd.AddCommand(UserShowCmd())

	return cmd
}

func UserVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <email>",
		Short: "Mark a user as verified",
		Long:  "Mark the account with the given email as verified, bypassing the email round-trip",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserVerify,
	}
}

func runUserVerify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	user, err := userRepo.GetByEmail(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Verified {
		fmt.Printf("user %s is already verified\n", user.Email)
		return nil
	}

	if err := userRepo.SetVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}

	fmt.Printf("verified user %s (id: %s)\n", user.Email, user.ID)
	return nil
}

func UserShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <email>",
		Short: "Show a user account",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserShow,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runUserShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	outputFormat, _ := cmd.Flags().GetString("output")

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	user, err := userRepo.GetByEmail(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if outputFormat == "json" {
		payload, err := json.MarshalIndent(map[string]interface{}{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"verified":   user.Verified,
			"created_at": user.CreatedAt,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
		return nil
	}

	fmt.Printf("ID:       %s\n", user.ID)
	fmt.Printf("Name:     %s\n", user.Name)
	fmt.Printf("Email:    %s\n", user.Email)
	fmt.Printf("Verified: %t\n", user.Verified)
	fmt.Printf("Created:  %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func getDBPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
