package main

import (
	"fmt"
	"os"

	"github.com/crucial707/dessert-menu/cmd/cli/desserts"
	"github.com/crucial707/dessert-menu/cmd/cli/root"
	"github.com/crucial707/dessert-menu/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	users.InitUsers(rootCmd)
	desserts.InitDesserts(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
