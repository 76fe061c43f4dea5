package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/loginhub/internal/guard"
	"github.com/me/loginhub/pkg/model"
)

func newCompaniesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "Manage tenant companies (master only)",
	}
	cmd.AddCommand(
		newCompaniesListCmd(),
		newCompaniesShowCmd(),
		newCompaniesCreateCmd(),
		newCompaniesUpdateCmd(),
		newCompaniesStatusCmd(),
		newCompaniesDeleteCmd(),
	)
	return cmd
}

func newCompaniesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List companies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := app.require(ctx, guard.Master, "companies list"); err != nil {
				return err
			}
			companies, err := app.api.ListCompanies(ctx)
			if err != nil {
				return failed("list companies", err)
			}

			out := cmd.OutOrStdout()
			if len(companies) == 0 {
				fmt.Fprintln(out, "No companies found.")
				return nil
			}
			fmt.Fprintf(out, "%-38s  %-30s  %-20s  %-8s  %s\n", "ID", "NAME", "DOCUMENT", "STATUS", "USERS")
			fmt.Fprintf(out, "%-38s  %-30s  %-20s  %-8s  %s\n", "--", "----", "--------", "------", "-----")
			for _, c := range companies {
				fmt.Fprintf(out, "%-38s  %-30s  %-20s  %-8s  %d\n", c.ID, c.Name, c.Document, c.Status, c.TotalUsers)
			}
			return nil
		},
	}
}

func newCompaniesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <company_id>",
		Short: "Show a company and its users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := app.require(ctx, guard.Master, "companies show"); err != nil {
				return err
			}
			company, err := app.api.GetCompany(ctx, args[0])
			if err != nil {
				return failed("get company", err)
			}
			users, err := app.api.ListCompanyUsers(ctx, args[0])
			if err != nil {
				return failed("list company users", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Company:  %s\n", company.ID)
			fmt.Fprintf(out, "  Name:     %s\n", company.Name)
			fmt.Fprintf(out, "  Document: %s\n", company.Document)
			fmt.Fprintf(out, "  Email:    %s\n", company.Email)
			if company.Phone != "" {
				fmt.Fprintf(out, "  Phone:    %s\n", company.Phone)
			}
			fmt.Fprintf(out, "  Status:   %s\n", company.Status)
			if company.CreatedAt != nil {
				fmt.Fprintf(out, "  Created:  %s\n", company.CreatedAt.Format("2006-01-02"))
			}
			fmt.Fprintln(out, "  Users:")
			printUsers(out, users)
			return nil
		},
	}
}

func newCompaniesCreateCmd() *cobra.Command {
	var req model.CreateCompanyRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a company together with its first admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := app.require(ctx, guard.Master, "companies create"); err != nil {
				return err
			}
			resp, err := app.api.CreateCompany(ctx, req)
			if err != nil {
				return failed("create company", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Company created: %s (admin %s)\n", resp.CompanyID, resp.AdminEmail)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Company name")
	cmd.Flags().StringVar(&req.Document, "document", "", "Registration document")
	cmd.Flags().StringVar(&req.Email, "email", "", "Company email")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Company phone")
	cmd.Flags().StringVar(&req.AdminName, "admin-name", "", "Name of the first admin")
	cmd.Flags().StringVar(&req.AdminEmail, "admin-email", "", "Email of the first admin")
	cmd.Flags().StringVar(&req.AdminPassword, "admin-password", "", "Password of the first admin")
	cmd.Flags().StringVar(&req.AdminPhone, "admin-phone", "", "Phone of the first admin")
	return cmd
}

func newCompaniesUpdateCmd() *cobra.Command {
	var name, email, document, phone string

	cmd := &cobra.Command{
		Use:   "update <company_id>",
		Short: "Edit the registration data of a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := app.require(ctx, guard.Master, "companies update"); err != nil {
				return err
			}
			current, err := app.api.GetCompany(ctx, args[0])
			if err != nil {
				return failed("get company", err)
			}

			req := model.UpdateCompanyRequest{
				Name:     current.Name,
				Email:    current.Email,
				Document: current.Document,
				Phone:    current.Phone,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = name
			}
			if flags.Changed("email") {
				req.Email = email
			}
			if flags.Changed("document") {
				req.Document = document
			}
			if flags.Changed("phone") {
				req.Phone = phone
			}

			updated, err := app.api.UpdateCompany(ctx, args[0], req)
			if err != nil {
				return failed("update company", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Company updated: %s (%s)\n", updated.ID, updated.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Company name")
	cmd.Flags().StringVar(&email, "email", "", "Company email")
	cmd.Flags().StringVar(&document, "document", "", "Registration document")
	cmd.Flags().StringVar(&phone, "phone", "", "Company phone")
	return cmd
}

func newCompaniesStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <company_id> <active|inactive>",
		Short: "Activate or block a company",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := parseStatus(args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := app.require(ctx, guard.Master, "companies status"); err != nil {
				return err
			}
			company, err := app.api.SetCompanyStatus(ctx, args[0], status)
			if err != nil {
				return failed("change company status", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Company %s is now %s\n", company.ID, company.Status)
			return nil
		},
	}
}

func newCompaniesDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <company_id>",
		Short: "Delete a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete without --yes")
			}
			ctx := cmd.Context()
			if _, err := app.require(ctx, guard.Master, "companies delete"); err != nil {
				return err
			}
			if err := app.api.DeleteCompany(ctx, args[0]); err != nil {
				return failed("delete company", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Company deleted: %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	return cmd
}

// parseStatus accepts the English and the backend spelling of a status.
func parseStatus(s string) (model.UserStatus, error) {
	switch strings.ToLower(s) {
	case "active", string(model.StatusActive):
		return model.StatusActive, nil
	case "inactive", "blocked", string(model.StatusInactive):
		return model.StatusInactive, nil
	}
	return "", fmt.Errorf("invalid status %q (want active or inactive)", s)
}
