package ui

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/me/loginhub/pkg/model"
)

// --- Company Handlers ---

// HandleCompanyList renders the master console's company list.
func (ui *UI) HandleCompanyList(w http.ResponseWriter, r *http.Request) {
	companies, err := ui.deps(r).api.ListCompanies(r.Context())
	if err != nil {
		ui.handleBackendError(w, r, "Failed to load companies", err)
		return
	}

	active := 0
	users := 0
	for _, c := range companies {
		if c.IsActive() {
			active++
		}
		users += c.TotalUsers
	}

	ui.render(w, r, "admin/companies", map[string]any{
		"Title":     "Companies - LoginHub",
		"Companies": companies,
		"Stats": map[string]int{
			"Total":    len(companies),
			"Active":   active,
			"Inactive": len(companies) - active,
			"Users":    users,
		},
	})
}

// HandleCompanyNew renders the company creation form.
func (ui *UI) HandleCompanyNew(w http.ResponseWriter, r *http.Request) {
	ui.render(w, r, "admin/company_form", map[string]any{
		"Title":   "New company - LoginHub",
		"IsNew":   true,
		"Action":  "/admin/companies",
		"Company": model.CreateCompanyRequest{},
	})
}

// HandleCompanyCreate provisions a company and its initial admin.
func (ui *UI) HandleCompanyCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req := model.CreateCompanyRequest{
		Name:          formValue(r, "nome"),
		Document:      formValue(r, "documento"),
		Email:         formValue(r, "email"),
		Phone:         formValue(r, "telefone"),
		AdminName:     formValue(r, "admin_nome"),
		AdminEmail:    formValue(r, "admin_email"),
		AdminPassword: r.PostFormValue("password"),
		AdminPhone:    formValue(r, "admin_telefone"),
	}

	resp, err := ui.deps(r).api.CreateCompany(r.Context(), req)
	if err != nil {
		if model.IsKind(err, model.KindValidation) {
			req.AdminPassword = ""
			ui.renderFormError(w, r, "admin/company_form", err, map[string]any{
				"Title":   "New company - LoginHub",
				"IsNew":   true,
				"Action":  "/admin/companies",
				"Company": req,
			})
			return
		}
		ui.handleBackendError(w, r, "Failed to create company", err)
		return
	}

	ui.logger.Info("company created", "company_id", resp.CompanyID, "admin_email", resp.AdminEmail)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// HandleCompanyEdit renders the company edit form.
func (ui *UI) HandleCompanyEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	company, err := ui.deps(r).api.GetCompany(r.Context(), id)
	if err != nil {
		ui.handleBackendError(w, r, "Failed to load company", err)
		return
	}
	ui.render(w, r, "admin/company_form", map[string]any{
		"Title":   "Edit " + company.Name + " - LoginHub",
		"Action":  "/admin/companies/" + company.ID,
		"Company": company,
	})
}

// HandleCompanyUpdate saves the company edit form.
func (ui *UI) HandleCompanyUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	req := model.UpdateCompanyRequest{
		Name:     formValue(r, "nome"),
		Email:    formValue(r, "email"),
		Document: formValue(r, "documento"),
		Phone:    formValue(r, "telefone"),
	}

	if _, err := ui.deps(r).api.UpdateCompany(r.Context(), id, req); err != nil {
		if model.IsKind(err, model.KindValidation) {
			ui.renderFormError(w, r, "admin/company_form", err, map[string]any{
				"Title":   "Edit company - LoginHub",
				"Action":  "/admin/companies/" + id,
				"Company": model.Company{ID: id, Name: req.Name, Email: req.Email, Document: req.Document, Phone: req.Phone},
			})
			return
		}
		ui.handleBackendError(w, r, "Failed to update company", err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// HandleCompanyStatus activates or blocks a company.
func (ui *UI) HandleCompanyStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	status := model.UserStatus(r.PostFormValue("status"))
	if status != model.StatusActive && status != model.StatusInactive {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := ui.deps(r).api.SetCompanyStatus(r.Context(), id, status); err != nil {
		ui.handleBackendError(w, r, "Failed to change company status", err)
		return
	}
	ui.logger.Info("company status changed", "company_id", id, "status", status)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// HandleCompanyDelete removes a company.
func (ui *UI) HandleCompanyDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := ui.deps(r).api.DeleteCompany(r.Context(), id); err != nil {
		ui.handleBackendError(w, r, "Failed to delete company", err)
		return
	}
	ui.logger.Info("company deleted", "company_id", id)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// --- User Handlers (master) ---

// HandleCompanyUsers renders the users of one company.
func (ui *UI) HandleCompanyUsers(w http.ResponseWriter, r *http.Request) {
	d := ui.deps(r)
	id := chi.URLParam(r, "id")

	company, err := d.api.GetCompany(r.Context(), id)
	if err != nil {
		ui.handleBackendError(w, r, "Failed to load company", err)
		return
	}
	users, err := d.api.ListCompanyUsers(r.Context(), id)
	if err != nil {
		ui.handleBackendError(w, r, "Failed to load users", err)
		return
	}

	ui.render(w, r, "admin/company_users", map[string]any{
		"Title":     company.Name + " users - LoginHub",
		"Company":   company,
		"Users":     users,
		"CanManage": true,
		"NewURL":    "/admin/companies/" + id + "/users/new",
		"BaseURL":   "/admin/companies/" + id + "/users",
	})
}

// HandleUserList renders the users of every company.
func (ui *UI) HandleUserList(w http.ResponseWriter, r *http.Request) {
	users, err := ui.deps(r).api.ListAllUsers(r.Context())
	if err != nil {
		ui.handleBackendError(w, r, "Failed to load users", err)
		return
	}
	ui.render(w, r, "admin/users", map[string]any{
		"Title": "Users - LoginHub",
		"Users": users,
	})
}

// HandleCompanyUserNew renders the user creation form for a company.
func (ui *UI) HandleCompanyUserNew(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ui.render(w, r, "user_form", map[string]any{
		"Title":  "New user - LoginHub",
		"IsNew":  true,
		"Action": "/admin/companies/" + id + "/users",
		"Back":   "/admin/companies/" + id + "/users",
		"User":   model.CreateUserRequest{CompanyID: id, Role: model.RoleUser},
	})
}

// HandleCompanyUserCreate creates a user in a company.
func (ui *UI) HandleCompanyUserCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	req := createUserFromForm(r, id)
	back := "/admin/companies/" + id + "/users"

	if _, err := ui.deps(r).api.CreateUser(r.Context(), req); err != nil {
		if model.IsKind(err, model.KindValidation) {
			req.Password = ""
			ui.renderFormError(w, r, "user_form", err, map[string]any{
				"Title":  "New user - LoginHub",
				"IsNew":  true,
				"Action": back,
				"Back":   back,
				"User":   req,
			})
			return
		}
		ui.handleBackendError(w, r, "Failed to create user", err)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// HandleCompanyUserEdit renders the edit form of a company user.
func (ui *UI) HandleCompanyUserEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	uid := chi.URLParam(r, "uid")

	users, err := ui.deps(r).api.ListCompanyUsers(r.Context(), id)
	if err != nil {
		ui.handleBackendError(w, r, "Failed to load users", err)
		return
	}
	var user *model.User
	for i := range users {
		if users[i].ID == uid {
			user = &users[i]
			break
		}
	}
	if user == nil {
		ui.handleBackendError(w, r, "User not found", &model.Error{Kind: model.KindNotFound, Body: model.NewNotFoundError("user", uid)})
		return
	}

	back := "/admin/companies/" + id + "/users"
	ui.render(w, r, "user_form", map[string]any{
		"Title":  "Edit " + user.Name + " - LoginHub",
		"Action": back + "/" + uid,
		"Back":   back,
		"User":   user,
	})
}

// HandleCompanyUserUpdate saves the edit form of a company user.
func (ui *UI) HandleCompanyUserUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	uid := chi.URLParam(r, "uid")
	req := model.UpdateUserRequest{
		Name:     formValue(r, "nome"),
		Email:    formValue(r, "email"),
		Role:     model.UserRole(formValue(r, "role")),
		Phone:    formValue(r, "telefone"),
		Password: r.PostFormValue("password"),
	}

	back := "/admin/companies/" + id + "/users"
	if _, err := ui.deps(r).api.UpdateUser(r.Context(), uid, req); err != nil {
		if model.IsKind(err, model.KindValidation) {
			ui.renderFormError(w, r, "user_form", err, map[string]any{
				"Title":  "Edit user - LoginHub",
				"Action": back + "/" + uid,
				"Back":   back,
				"User":   model.User{ID: uid, Name: req.Name, Email: req.Email, Role: req.Role, Phone: req.Phone},
			})
			return
		}
		ui.handleBackendError(w, r, "Failed to update user", err)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// HandleCompanyUserDelete removes a company user.
func (ui *UI) HandleCompanyUserDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	uid := chi.URLParam(r, "uid")
	if err := ui.deps(r).api.DeleteUser(r.Context(), uid); err != nil {
		ui.handleBackendError(w, r, "Failed to delete user", err)
		return
	}
	ui.logger.Info("user deleted", "company_id", id, "user_id", uid)
	http.Redirect(w, r, "/admin/companies/"+id+"/users", http.StatusSeeOther)
}

// --- Form helpers ---

func formValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

func createUserFromForm(r *http.Request, companyID string) model.CreateUserRequest {
	return model.CreateUserRequest{
		Name:      formValue(r, "nome"),
		Email:     formValue(r, "email"),
		Password:  r.PostFormValue("password"),
		CompanyID: companyID,
		Role:      model.UserRole(formValue(r, "role")),
		Phone:     formValue(r, "telefone"),
	}
}

// renderFormError re-renders a form with the validation message of err.
func (ui *UI) renderFormError(w http.ResponseWriter, r *http.Request, name string, err error, data map[string]any) {
	data["Error"] = errorText(err)
	data["FieldErrors"] = fieldErrors(err)
	ui.renderStatus(w, r, http.StatusUnprocessableEntity, name, data)
}
