package desserts

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/crucial707/dessert-menu/cmd/cli/output"
	"github.com/crucial707/dessert-menu/internal/config"
	"github.com/crucial707/dessert-menu/internal/db"
	"github.com/crucial707/dessert-menu/internal/models"
	"github.com/crucial707/dessert-menu/internal/repo"
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
func InitDesserts(rootCmd *cobra.Command) {
	dessertsCmd := &cobra.Command{
		Use:   "desserts",
		Short: "Inspect the dessert menu",
	}

	dessertsCmd.AddCommand(
		listDessertsCmd(),
		auditCmd(),
	)

	rootCmd.AddCommand(dessertsCmd)
}

// ==========================
// LIST
// ==========================
func listDessertsCmd() *cobra.Command {
	var username string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List desserts, optionally for one user",
		Run: func(cmd *cobra.Command, args []string) {
			database, err := openDB()
			if err != nil {
				fmt.Println(err)
				return
			}
			defer database.Close()

			dessertRepo := repo.NewDessertRepo(database)

			var desserts []models.Dessert
			if username != "" {
				user, err := repo.NewUserRepo(database).GetByUsername(cmd.Context(), username)
				if err != nil {
					fmt.Println("No such user:", username)
					return
				}
				desserts, err = dessertRepo.ListByOwner(cmd.Context(), user.ID)
				if err != nil {
					fmt.Println(err)
					return
				}
			} else {
				desserts, err = dessertRepo.List(cmd.Context())
				if err != nil {
					fmt.Println(err)
					return
				}
			}

			if asJSON {
				b, _ := json.MarshalIndent(desserts, "", "  ")
				fmt.Println(string(b))
				return
			}

			rows := make([][]interface{}, 0, len(desserts))
			for _, d := range desserts {
				rows = append(rows, []interface{}{d.ID, d.Name, fmt.Sprintf("%.2f", d.Price), d.Calories, d.UserID})
			}
			output.RenderTable([]string{"ID", "Name", "Price", "Calories", "Owner"}, rows)
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "only this user's desserts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON instead of a table")

	return cmd
}

// ==========================
// AUDIT
// ==========================
func auditCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent dessert changes, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			database, err := openDB()
			if err != nil {
				fmt.Println(err)
				return
			}
			defer database.Close()

			entries, err := repo.NewAuditRepo(database).List(cmd.Context(), limit, 0)
			if err != nil {
				fmt.Println(err)
				return
			}

			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []interface{}{
					e.CreatedAt.Format("2006-01-02 15:04:05"),
					e.UserID, e.Action, e.DessertID, e.Details,
				})
			}
			output.RenderTable([]string{"When", "User", "Action", "Dessert", "Details"}, rows)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "max entries to show")

	return cmd
}
