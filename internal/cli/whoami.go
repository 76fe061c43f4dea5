package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/loginhub/internal/api"
	"github.com/me/loginhub/pkg/model"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.sessions.Read(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !sess.IsAuthenticated() {
				fmt.Fprintln(out, "Not signed in.")
				return nil
			}

			fmt.Fprintf(out, "Tier:     %s\n", sess.Tier)
			fmt.Fprintf(out, "Name:     %s\n", sess.Identity.Name)
			if sess.Tier != model.TierTenantUser {
				return nil
			}
			fmt.Fprintf(out, "Email:    %s\n", sess.Identity.Email)
			fmt.Fprintf(out, "Role:     %s\n", sess.Identity.Role)
			if sess.Company != nil {
				fmt.Fprintf(out, "Company:  %s (%s)\n", sess.Company.Name, sess.Company.ID)
			} else {
				fmt.Fprintf(out, "Company:  %s\n", sess.CompanyID())
			}
			if exp, ok := api.TokenExpiry(sess.Token); ok {
				fmt.Fprintf(out, "Expires:  %s\n", exp.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
