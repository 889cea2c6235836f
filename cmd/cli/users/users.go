package users

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/crucial707/dessert-menu/cmd/cli/output"
	"github.com/crucial707/dessert-menu/internal/config"
	"github.com/crucial707/dessert-menu/internal/db"
	"github.com/crucial707/dessert-menu/internal/repo"
	"github.com/crucial707/dessert-menu/internal/service"
	"github.com/spf13/cobra"
)

// openDB is replaced in tests with a sqlmock-backed database.
var openDB = func() (*sql.DB, error) {
	cfg := config.Load()
	return db.Connect(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)
}

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
		Long: `Register, list, and update user accounts.
Registration is an admin task; the web application only offers self-service signup.`,
	}

	usersCmd.AddCommand(
		createUserCmd(),
		listUsersCmd(),
		updateUserCmd(),
		passwdCmd(),
	)

	rootCmd.AddCommand(usersCmd)
}

// ==========================
// CREATE
// ==========================
func createUserCmd() *cobra.Command {
	var username, password, email, name, avatar string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			auth := service.NewAuthService(repo.NewUserRepo(database))
			user, err := auth.Register(cmd.Context(), username, password, email, name, avatar)
			if err != nil {
				return err
			}

			fmt.Printf("Created user %q (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name (required)")
	cmd.Flags().StringVar(&password, "password", "", "password (required)")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar URL")

	return cmd
}

// ==========================
// LIST
// ==========================
func listUsersCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Run: func(cmd *cobra.Command, args []string) {
			database, err := openDB()
			if err != nil {
				fmt.Println(err)
				return
			}
			defer database.Close()

			users, err := repo.NewUserRepo(database).List(cmd.Context())
			if err != nil {
				fmt.Println(err)
				return
			}

			if asJSON {
				b, _ := json.MarshalIndent(users, "", "  ")
				fmt.Println(string(b))
				return
			}

			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, []interface{}{u.ID, u.Username, u.Email, u.Name})
			}
			output.RenderTable([]string{"ID", "Username", "Email", "Name"}, rows)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON instead of a table")

	return cmd
}

// ==========================
// UPDATE (empty flags keep current values)
// ==========================
func updateUserCmd() *cobra.Command {
	var id int
	var username, email, name, avatar string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a user's profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == 0 {
				return fmt.Errorf("--id is required")
			}

			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			user, err := repo.NewUserRepo(database).Update(cmd.Context(), id, username, email, name, avatar)
			if err != nil {
				return err
			}

			fmt.Printf("Updated user %q (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "user id (required)")
	cmd.Flags().StringVar(&username, "username", "", "new login name")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "new avatar URL")

	return cmd
}

// ==========================
// PASSWD
// ==========================
func passwdCmd() *cobra.Command {
	var id int
	var password string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Set a user's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == 0 {
				return fmt.Errorf("--id is required")
			}

			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			auth := service.NewAuthService(repo.NewUserRepo(database))
			if err := auth.ChangePassword(cmd.Context(), id, password); err != nil {
				return err
			}

			fmt.Println("Password updated.")
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "user id (required)")
	cmd.Flags().StringVar(&password, "password", "", "new password (required)")

	return cmd
}
