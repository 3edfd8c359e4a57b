// Command provision manages accounts out of band. There is no sign-up in
// the web application; every account is created here.
//
//	provision -username anna -password 's3cret-pass' -role USER
//	provision -username anna -set-role ADMIN
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/sakif/cabin-manager/internal/apperror"
	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/config"
	"github.com/sakif/cabin-manager/internal/repository"
	"github.com/sakif/cabin-manager/internal/service"
	"github.com/sakif/cabin-manager/internal/storage"
)

func main() {
	username := flag.String("username", "", "account username (required)")
	password := flag.String("password", "", "password for a new account")
	role := flag.String("role", "USER", "role for a new account: ADMIN, USER or DUMMY")
	setRole := flag.String("set-role", "", "change the role of an existing account instead of creating one")
	flag.Parse()

	_ = godotenv.Load()
	logger := config.NewLogger(true, os.Stderr)

	if err := run(context.Background(), logger, *username, *password, *role, *setRole); err != nil {
		fmt.Fprintln(os.Stderr, "provision:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, username, password, role, setRole string) error {
	if username == "" {
		flag.Usage()
		return errors.New("-username is required")
	}

	store, err := storage.Open(ctx, config.LoadStorage(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := newAuthService(store, logger)

	if setRole != "" {
		user, err := svc.SetRole(ctx, username, setRole)
		if err != nil {
			return describe(err)
		}
		fmt.Printf("%s is now %s\n", user.Username, user.Role)
		return nil
	}

	user, err := svc.CreateUser(ctx, username, password, role)
	if err != nil {
		return describe(err)
	}
	fmt.Printf("created %s (%s) with id %s\n", user.Username, user.Role, user.ID)
	return nil
}

// newAuthService builds an AuthService for account management only; it
// never issues tokens, so the token service gets a throwaway secret.
func newAuthService(store repository.Store, logger *slog.Logger) *service.AuthService {
	tokens, _ := auth.NewTokenService("provision-only-never-signs", 0)
	return service.NewAuthService(store.Users(), tokens, auth.NewPasswordService(), logger)
}

// describe turns service errors into messages fit for a terminal.
func describe(err error) error {
	var appErr *apperror.AppError
	switch {
	case errors.Is(err, apperror.ErrConflict):
		return errors.New("that username is already taken")
	case errors.Is(err, apperror.ErrNotFound):
		return errors.New("no such user")
	case errors.As(err, &appErr):
		return errors.New(appErr.Message)
	default:
		return err
	}
}
