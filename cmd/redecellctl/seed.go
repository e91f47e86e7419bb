package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"redecell/internal/repository"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout read by seed-roles.
type seedFile struct {
	Roles []struct {
		Name        string   `yaml:"name"`
		Permissions []string `yaml:"permissions"`
	} `yaml:"roles"`
	PaymentMethods []string `yaml:"payment_methods"`
}

func loadSeedFile(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf seedFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, r := range sf.Roles {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("role #%d has no name", i+1)
		}
		for _, p := range r.Permissions {
			if !strings.Contains(p, ":") {
				return nil, fmt.Errorf("role %s: permission %q is not resource:action", r.Name, p)
			}
		}
	}
	return &sf, nil
}

var seedRolesCmd = &cobra.Command{
	Use:   "seed-roles",
	Short: "Upsert roles, permissions and payment methods from a YAML file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("file")
		sf, err := loadSeedFile(path)
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}

		roles := repository.NewRoleRepository(db)
		ctx := context.Background()
		for _, r := range sf.Roles {
			if _, err := roles.UpsertRole(ctx, r.Name, r.Permissions); err != nil {
				return fmt.Errorf("role %s: %w", r.Name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "role %s: %d permissions\n", r.Name, len(r.Permissions))
		}
		for _, pm := range sf.PaymentMethods {
			if err := roles.UpsertPaymentMethod(ctx, pm); err != nil {
				return fmt.Errorf("payment method %s: %w", pm, err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d payment methods\n", len(sf.PaymentMethods))
		return nil
	},
}

func init() {
	seedRolesCmd.Flags().String("file", "roles.yaml", "path to the roles YAML file")
}
