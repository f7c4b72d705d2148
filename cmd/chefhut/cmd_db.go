package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/chefhut/config"
	"github.com/shashiranjanraj/chefhut/database/indexes"
	"github.com/shashiranjanraj/chefhut/database/seeders"
	"github.com/shashiranjanraj/chefhut/pkg/mongodb"
)

// bootDB loads config and opens the MongoDB connection.
func bootDB(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	return mongodb.Connect(ctx)
}

// chefhut db:index
var dbIndexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Sync all MongoDB indexes (unique constraints included)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := bootDB(ctx); err != nil {
			return err
		}
		defer mongodb.Disconnect(context.Background()) //nolint:errcheck

		fmt.Println("Syncing indexes…")
		return indexes.Sync(ctx)
	},
}

// chefhut db:seed
var dbSeedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := bootDB(ctx); err != nil {
			return err
		}
		defer mongodb.Disconnect(context.Background()) //nolint:errcheck

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx)
	},
}
