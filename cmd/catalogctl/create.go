package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cuemby/catalogengine/pkg/catalog"
	"github.com/cuemby/catalogengine/pkg/registry"
	"github.com/cuemby/catalogengine/pkg/storage"
	"github.com/cuemby/catalogengine/pkg/types"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an empty catalog and save it",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, _ := rootCmd.PersistentFlags().GetString("db")
		idStr, _ := cmd.Flags().GetString("id")
		species, _ := cmd.Flags().GetString("species")

		globalID := uuid.New()
		if idStr != "" {
			parsed, err := uuid.Parse(idStr)
			if err != nil {
				return fmt.Errorf("invalid --id: %w", err)
			}
			globalID = parsed
		}

		ctx := context.Background()
		f := registry.NewFactory()
		d, err := storage.Open(ctx, dsn, f)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer d.Close()

		cat, err := catalog.New(catalog.Config{
			GlobalID: globalID,
			Species:  types.Species(species),
		})
		if err != nil {
			return fmt.Errorf("create catalog: %w", err)
		}
		if err := d.SaveCatalog(ctx, cat); err != nil {
			return fmt.Errorf("save catalog: %w", err)
		}

		fmt.Printf("created catalog %s (species=%s)\n", globalID, species)
		return nil
	},
}

func init() {
	createCmd.Flags().String("id", "", "Catalog UUID (random if omitted)")
	createCmd.Flags().String("species", string(types.SpeciesSink), "Catalog species (SINK, SOURCE, MIRROR)")
}
