package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cuemby/catalogengine/pkg/registry"
	"github.com/cuemby/catalogengine/pkg/storage"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a catalog by ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, _ := rootCmd.PersistentFlags().GetString("db")
		idStr, _ := cmd.Flags().GetString("id")

		globalID, err := uuid.Parse(idStr)
		if err != nil {
			return fmt.Errorf("invalid --id: %w", err)
		}

		ctx := context.Background()
		f := registry.NewFactory()
		d, err := storage.Open(ctx, dsn, f)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer d.Close()

		existed, err := d.DeleteCatalog(ctx, globalID)
		if err != nil {
			return fmt.Errorf("delete catalog: %w", err)
		}
		if existed {
			fmt.Printf("deleted catalog %s\n", globalID)
		} else {
			fmt.Printf("catalog %s did not exist\n", globalID)
		}
		return nil
	},
}

func init() {
	deleteCmd.Flags().String("id", "", "Catalog UUID (required)")
	deleteCmd.MarkFlagRequired("id")
}
