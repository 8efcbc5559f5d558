package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cuemby/catalogengine/pkg/codec"
	"github.com/cuemby/catalogengine/pkg/registry"
	"github.com/cuemby/catalogengine/pkg/storage"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a catalog and print its canonical JSON form",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, _ := rootCmd.PersistentFlags().GetString("db")
		idStr, _ := cmd.Flags().GetString("id")
		pretty, _ := cmd.Flags().GetBool("pretty")

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

		cat, err := d.LoadCatalog(ctx, globalID)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		var data []byte
		if pretty {
			data, err = codec.MarshalIndent(cat)
		} else {
			data, err = codec.Marshal(cat)
		}
		if err != nil {
			return fmt.Errorf("encode catalog: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	loadCmd.Flags().String("id", "", "Catalog UUID (required)")
	loadCmd.Flags().Bool("pretty", false, "Pretty-print with 2-space indent")
	loadCmd.MarkFlagRequired("id")
}
