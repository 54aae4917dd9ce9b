// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/carterperez-dev/autosalon/internal/auth"
	"github.com/carterperez-dev/autosalon/internal/config"
	"github.com/carterperez-dev/autosalon/internal/core"
	"github.com/carterperez-dev/autosalon/internal/user"
)

const usage = `usage: manage [-config path] <command> [flags]

commands:
  migrate                                  apply the database schema
  createsuperuser -phone P [-password PW]  create an administrator
  genkeys [-private F] [-public F]         write a new ES256 session key pair
`

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, flag.Arg(0), flag.Args()[1:]); err != nil {
		slog.Error("command failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func run(configPath, command string, args []string) error {
	ctx := context.Background()

	switch command {
	case "migrate":
		return migrate(ctx, configPath)
	case "createsuperuser":
		return createSuperuser(ctx, configPath, args)
	case "genkeys":
		return genKeys(args)
	}

	flag.Usage()
	return fmt.Errorf("unknown command %q", command)
}

func migrate(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exits right after

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	slog.Info("database schema applied")
	return nil
}

func createSuperuser(ctx context.Context, configPath string, args []string) error {
	fs := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	phone := fs.String("phone", "", "phone number used to log in")
	password := fs.String("password", "", "password (defaults to $SUPERUSER_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *password == "" {
		*password = os.Getenv("SUPERUSER_PASSWORD")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exits right after

	userSvc := user.NewService(user.NewRepository(db.DB))
	authSvc := auth.NewService(nil, userSvc, nil)

	created, err := authSvc.CreateSuperuser(ctx, *phone, *password)
	if err != nil {
		if fields := core.AsValidationError(err); fields != nil {
			return fmt.Errorf("invalid input: %w", err)
		}
		if errors.Is(err, auth.ErrPhoneExists) {
			return fmt.Errorf("phone %s is already registered", *phone)
		}
		return err
	}

	slog.Info("superuser created", "user_id", created.ID, "phone", created.Phone)
	return nil
}

func genKeys(args []string) error {
	fs := flag.NewFlagSet("genkeys", flag.ContinueOnError)
	privatePath := fs.String("private", "keys/private.pem", "private key output path")
	publicPath := fs.String("public", "keys/public.pem", "public key output path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, p := range []string{*privatePath, *publicPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return fmt.Errorf("create key dir: %w", err)
		}
	}

	if err := auth.GenerateKeyPair(*privatePath, *publicPath); err != nil {
		return err
	}

	slog.Info("session key pair written",
		"private", *privatePath,
		"public", *publicPath,
	)
	return nil
}
