package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"redecell/internal/model"
	"redecell/internal/repository"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create or update a user by e-mail",
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		roleName, _ := cmd.Flags().GetString("role")
		password, _ := cmd.Flags().GetString("password")
		if email == "" || password == "" {
			return errors.New("--email and --password are required")
		}
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		ctx := context.Background()

		role, err := repository.NewRoleRepository(db).FindByName(ctx, roleName)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("role %q does not exist, run seed-roles first", roleName)
		}
		if err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return err
		}
		u := &model.User{
			Name:         name,
			Email:        strings.ToLower(email),
			PasswordHash: string(hash),
			RoleID:       role.ID,
			IsActive:     true,
		}
		if err := repository.NewUserRepository(db).UpsertByEmail(ctx, u); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "user %s (%s) saved\n", u.Email, role.Name)
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <plain>",
	Short: "Print a bcrypt hash for a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcryptCost)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(hash))
		return nil
	},
}

func init() {
	createUserCmd.Flags().String("email", "", "user e-mail (login)")
	createUserCmd.Flags().String("name", "", "display name")
	createUserCmd.Flags().String("role", "admin", "role name")
	createUserCmd.Flags().String("password", "", "plain password")
}
