package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrlokans/bookstore/internal/audit"
	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/database/admins"
	auditdb "github.com/mrlokans/bookstore/internal/database/audit"
)

var errPasswordMismatch = errors.New("passwords do not match")

func newCreateAdminCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Register an admin account",
		Long: `Register an admin account in the configured database.

The password is prompted for when --password is omitted.`,
		Example: "  bookstore create-admin --username alice --email alice@example.com",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				password, err = promptPassword(cmd)
				if err != nil {
					return err
				}
			}

			cfg := config.NewConfig()
			db, err := database.NewDatabase(cfg.Database.Path, cfg.Database.LogSQL)
			if err != nil {
				return err
			}
			defer db.Close()

			authService := auth.NewService(admins.NewRepository(db.DB), cfg.Auth)
			admin, err := authService.Register(username, password, email)
			if err != nil {
				return fmt.Errorf("creating admin: %w", err)
			}

			auditor := audit.NewService(auditdb.NewRepository(db.DB))
			auditor.LogAuth(admin.Username, audit.ActionRegister, "", "bookstore create-admin", true)
			auditor.Wait()

			ok(cmd.OutOrStdout(), "Created admin %q (%s)", admin.Username, admin.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Admin username (required)")
	cmd.Flags().StringVar(&email, "email", "", "Admin email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// promptPassword reads the password twice from the terminal without echo.
func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--password is required when stdin is not a terminal")
	}

	out := cmd.ErrOrStderr()
	fmt.Fprint(out, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	fmt.Fprint(out, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	if string(first) != string(second) {
		return "", errPasswordMismatch
	}
	return string(first), nil
}
