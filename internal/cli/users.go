package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/me/loginhub/internal/guard"
	"github.com/me/loginhub/pkg/model"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage users",
	}
	cmd.AddCommand(
		newUsersListCmd(),
		newUsersCreateCmd(),
		newUsersUpdateCmd(),
		newUsersDeleteCmd(),
	)
	return cmd
}

func newUsersListCmd() *cobra.Command {
	var company string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users (all companies for master, own company for tenants)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.requireAny(ctx, "users list", guard.Master, guard.Tenant)
			if err != nil {
				return err
			}

			var users []model.User
			switch {
			case sess.IsMaster() && company != "":
				users, err = app.api.ListCompanyUsers(ctx, company)
			case sess.IsMaster():
				users, err = app.api.ListAllUsers(ctx)
			case company != "" && company != sess.CompanyID():
				return errors.New("--company is only available to master")
			default:
				users, err = app.api.ListTenantUsers(ctx)
			}
			if err != nil {
				return failed("list users", err)
			}
			printUsers(cmd.OutOrStdout(), users)
			return nil
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "Company id (master only)")
	return cmd
}

func newUsersCreateCmd() *cobra.Command {
	var (
		req  model.CreateUserRequest
		role string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.requireAny(ctx, "users create", guard.Master, guard.Tenant)
			if err != nil {
				return err
			}
			if !sess.CanManageUsers() {
				return errors.New("only company administrators can create users")
			}
			req.Role = model.UserRole(role)

			var user *model.User
			if sess.IsMaster() {
				if req.CompanyID == "" {
					return errors.New("--company is required")
				}
				user, err = app.api.CreateUser(ctx, req)
			} else {
				if req.CompanyID != "" && req.CompanyID != sess.CompanyID() {
					return errors.New("tenant administrators can only create users in their own company")
				}
				req.CompanyID = sess.CompanyID()
				user, err = app.api.CreateTenantUser(ctx, req)
			}
			if err != nil {
				return failed("create user", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User created: %s (%s)\n", user.ID, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "User name")
	cmd.Flags().StringVar(&req.Email, "email", "", "User email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Initial password")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "User phone")
	cmd.Flags().StringVar(&req.CompanyID, "company", "", "Company id (master only; tenants use their own)")
	cmd.Flags().StringVar(&role, "role", string(model.RoleUser), "Role (admin or usuario)")
	return cmd
}

func newUsersUpdateCmd() *cobra.Command {
	var req model.UpdateUserRequest
	var role string

	cmd := &cobra.Command{
		Use:   "update <user_id>",
		Short: "Edit a user (master only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := app.require(ctx, guard.Master, "users update"); err != nil {
				return err
			}
			req.Role = model.UserRole(role)
			user, err := app.api.UpdateUser(ctx, args[0], req)
			if err != nil {
				return failed("update user", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User updated: %s (%s)\n", user.ID, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "User name")
	cmd.Flags().StringVar(&req.Email, "email", "", "User email")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "User phone")
	cmd.Flags().StringVar(&req.Password, "password", "", "New password")
	cmd.Flags().StringVar(&role, "role", "", "Role (admin or usuario)")
	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <user_id>",
		Short: "Delete a user (master only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete without --yes")
			}
			ctx := cmd.Context()
			if _, err := app.require(ctx, guard.Master, "users delete"); err != nil {
				return err
			}
			if err := app.api.DeleteUser(ctx, args[0]); err != nil {
				return failed("delete user", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User deleted: %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	return cmd
}

func printUsers(out io.Writer, users []model.User) {
	if len(users) == 0 {
		fmt.Fprintln(out, "No users found.")
		return
	}
	fmt.Fprintf(out, "%-38s  %-24s  %-30s  %-8s  %s\n", "ID", "NAME", "EMAIL", "ROLE", "STATUS")
	fmt.Fprintf(out, "%-38s  %-24s  %-30s  %-8s  %s\n", "--", "----", "-----", "----", "------")
	for _, u := range users {
		fmt.Fprintf(out, "%-38s  %-24s  %-30s  %-8s  %s\n", u.ID, u.Name, u.Email, u.Role, u.Status)
	}
}
