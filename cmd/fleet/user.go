package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/repository"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/service"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(userCreateCmd(), userListCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	var req service.CreateUserRequest
	var roles string
	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openStore()
			if err != nil {
				return err
			}
			req.Username = args[0]
			if roles != "" {
				req.Roles = strings.Split(roles, ",")
			}
			users := service.NewUserService(repository.NewUserRepository(db))
			user, err := users.Create(context.Background(), &req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s) with roles %s\n",
				user.Username, user.ID, strings.Join(user.Roles, ","))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (at least 8 characters)")
	cmd.Flags().StringVar(&roles, "roles", "", "comma separated roles: admin, manager, crew")
	cmd.MarkFlagRequired("password")
	return cmd
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openStore()
			if err != nil {
				return err
			}
			users, err := service.NewUserService(repository.NewUserRepository(db)).List(context.Background())
			if err != nil {
				return err
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"ID", "Username", "Name", "Roles", "Last Login"})
			for _, u := range users {
				lastLogin := ""
				if u.LastLoginAt != nil {
					lastLogin = u.LastLoginAt.Format("2006-01-02 15:04")
				}
				tw.AppendRow(table.Row{u.ID, u.Username, u.Name, strings.Join(u.Roles, ","), lastLogin})
			}
			tw.Render()
			return nil
		},
	}
}
