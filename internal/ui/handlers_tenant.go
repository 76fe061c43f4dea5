package ui

import (
	"errors"
	"net/http"

	"github.com/me/loginhub/internal/api"
	"github.com/me/loginhub/internal/auth"
	"github.com/me/loginhub/pkg/model"
)

// HandleHome renders the tenant dashboard: the users of the caller's company.
func (ui *UI) HandleHome(w http.ResponseWriter, r *http.Request) {
	sess := ui.currentSession(r)
	users, err := ui.deps(r).api.ListTenantUsers(r.Context())
	if err != nil {
		ui.handleBackendError(w, r, "Failed to load users", err)
		return
	}

	data := map[string]any{
		"Title":     "Dashboard - LoginHub",
		"Company":   sess.Company,
		"Users":     users,
		"CanManage": sess.CanManageUsers(),
		"NewURL":    "/home/users/new",
	}
	if exp, ok := api.TokenExpiry(sess.Token); ok {
		data["ExpiresAt"] = exp
	}
	ui.render(w, r, "home", data)
}

// HandleTenantUserNew renders the user creation form for the caller's company.
func (ui *UI) HandleTenantUserNew(w http.ResponseWriter, r *http.Request) {
	sess := ui.currentSession(r)
	ui.render(w, r, "user_form", map[string]any{
		"Title":  "New user - LoginHub",
		"IsNew":  true,
		"Action": "/home/users",
		"Back":   "/home",
		"User":   model.CreateUserRequest{CompanyID: sess.CompanyID(), Role: model.RoleUser},
	})
}

// HandleTenantUserCreate creates a user in the caller's company.
func (ui *UI) HandleTenantUserCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := ui.currentSession(r)
	req := createUserFromForm(r, sess.CompanyID())

	if _, err := ui.deps(r).api.CreateTenantUser(r.Context(), req); err != nil {
		if model.IsKind(err, model.KindValidation) {
			req.Password = ""
			ui.renderFormError(w, r, "user_form", err, map[string]any{
				"Title":  "New user - LoginHub",
				"IsNew":  true,
				"Action": "/home/users",
				"Back":   "/home",
				"User":   req,
			})
			return
		}
		ui.handleBackendError(w, r, "Failed to create user", err)
		return
	}
	ui.logger.Info("tenant user created", "company_id", sess.CompanyID(), "email", req.Email)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func errorText(err error) string {
	return auth.UserMessage(err)
}

func fieldErrors(err error) map[string]string {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		var e *model.Error
		if !errors.As(err, &e) || e.Body == nil {
			return nil
		}
		apiErr = e.Body
	}
	out := make(map[string]string, len(apiErr.Details))
	for _, d := range apiErr.Details {
		out[d.Field] = d.Message
	}
	return out
}
