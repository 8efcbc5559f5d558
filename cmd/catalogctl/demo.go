package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cuemby/catalogengine/pkg/aspect"
	"github.com/cuemby/catalogengine/pkg/catalog"
	"github.com/cuemby/catalogengine/pkg/codec"
	"github.com/cuemby/catalogengine/pkg/hierarchy"
	"github.com/cuemby/catalogengine/pkg/registry"
	"github.com/cuemby/catalogengine/pkg/storage"
	"github.com/cuemby/catalogengine/pkg/types"
	"github.com/cuemby/catalogengine/pkg/value"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Build a sample catalog, save, reload, and print its JSON form",
	Long: `demo builds a catalog with a "person" AspectDef (name, age), an
ASPECT_MAP hierarchy populated with one person, and an ENTITY_LIST
hierarchy, then saves it, loads it back from the database, and prints
the canonical JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, _ := rootCmd.PersistentFlags().GetString("db")

		ctx := context.Background()
		f := registry.NewFactory()
		d, err := storage.Open(ctx, dsn, f)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer d.Close()

		nameDef, err := types.NewPropertyDef("name", value.String)
		if err != nil {
			return err
		}
		ageDef, err := types.NewPropertyDef("age", value.Integer)
		if err != nil {
			return err
		}
		props, err := types.NewPropertyMap(nameDef, ageDef)
		if err != nil {
			return err
		}
		personDef := types.NewAspectDef("person", uuid.New(), props, types.VariantMutable)
		f.AspectDefs.Bind(personDef)

		cat, err := catalog.New(catalog.Config{
			GlobalID: uuid.New(),
			Species:  types.SpeciesSink,
			Def:      types.CatalogDef{AspectDefs: []*types.AspectDef{personDef}},
		})
		if err != nil {
			return fmt.Errorf("create catalog: %w", err)
		}

		people, err := cat.Extend(personDef)
		if err != nil {
			return fmt.Errorf("extend catalog: %w", err)
		}
		entity := f.Entities.GetOrRegister(uuid.New())
		nameProp, _ := personDef.Properties.Get("name")
		ageProp, _ := personDef.Properties.Get("age")
		a := aspect.NewPropertyMapAspect(personDef,
			aspect.Property{Def: nameProp, Value: "ada"},
			aspect.Property{Def: ageProp, Value: int64(36)},
		)
		if err := people.Put(entity, a); err != nil {
			return fmt.Errorf("put aspect: %w", err)
		}

		queue := hierarchy.NewList("queue", true)
		if err := queue.Add(entity); err != nil {
			return fmt.Errorf("add to list: %w", err)
		}
		if err := cat.AddHierarchy(queue); err != nil {
			return fmt.Errorf("add hierarchy: %w", err)
		}

		if err := d.SaveCatalog(ctx, cat); err != nil {
			return fmt.Errorf("save catalog: %w", err)
		}
		fmt.Printf("saved catalog %s\n", cat.GlobalID())

		f2 := registry.NewFactory()
		d2, err := storage.Open(ctx, dsn, f2)
		if err != nil {
			return fmt.Errorf("reopen database: %w", err)
		}
		defer d2.Close()

		loaded, err := d2.LoadCatalog(ctx, cat.GlobalID())
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		data, err := codec.MarshalIndent(loaded)
		if err != nil {
			return fmt.Errorf("encode catalog: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}
