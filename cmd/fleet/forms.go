package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/repository"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// formsFile is the document read by "forms import"
type formsFile struct {
	Definitions []service.DefinitionRequest `yaml:"definitions"`
}

func loadFormsFile(path string) ([]service.DefinitionRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc formsFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(doc.Definitions) == 0 {
		return nil, fmt.Errorf("%s: no definitions", path)
	}
	return doc.Definitions, nil
}

func formsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forms",
		Short: "Manage form definitions",
	}
	cmd.AddCommand(formsImportCmd())
	return cmd
}

func formsImportCmd() *cobra.Command {
	var createdBy string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create form definitions from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := loadFormsFile(args[0])
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d definitions parsed\n", len(defs))
				return nil
			}

			db, _, err := openStore()
			if err != nil {
				return err
			}
			repos := repository.NewRepositories(db)
			forms := service.NewFormService(repos.Form, repos.Vessel, nil, zap.NewNop())

			ctx := context.Background()
			for i := range defs {
				def, err := forms.Create(ctx, &defs[i], createdBy)
				if err != nil {
					return fmt.Errorf("definition %d (%s): %w", i+1, defs[i].Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s / %s / %s\n", def.ID, def.Category, def.Subcategory, def.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&createdBy, "created-by", "", "user id recorded as creator")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and validate the file without writing")
	return cmd
}
