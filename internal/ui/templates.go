package ui

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/me/loginhub/pkg/model"
)

// Template functions available in all templates.
var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	},
	"formatTimePtr": func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02")
	},
	"statusBadge": func(s model.UserStatus) string {
		if s == model.StatusInactive {
			return "bg-red-100 text-red-800"
		}
		return "bg-green-100 text-green-800"
	},
	"statusLabel": func(s model.UserStatus) string {
		if s == model.StatusInactive {
			return "Blocked"
		}
		return "Active"
	},
	"roleLabel": func(r model.UserRole) string {
		switch r {
		case model.RoleAdmin:
			return "Admin"
		case model.RoleMaster:
			return "Master"
		default:
			return "User"
		}
	},
	"toggle": func(s model.UserStatus) model.UserStatus {
		return s.Toggle()
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"eq": func(a, b any) bool {
		return fmt.Sprint(a) == fmt.Sprint(b)
	},
}

// renderTemplate renders the named content template inside the layout.
func renderTemplate(w io.Writer, name string, data map[string]any) error {
	content, ok := templates[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}

	tmpl, err := template.New("layout").Funcs(templateFuncs).Parse(templates["layout"])
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}
	if _, err := tmpl.New("content").Parse(content); err != nil {
		return fmt.Errorf("parse content: %w", err)
	}
	for compName, compContent := range templates {
		if strings.HasPrefix(compName, "components/") {
			if _, err := tmpl.New(strings.TrimPrefix(compName, "components/")).Parse(compContent); err != nil {
				return fmt.Errorf("parse component %s: %w", compName, err)
			}
		}
	}

	return tmpl.Execute(w, data)
}

var templates = map[string]string{
	"layout": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 min-h-screen">
    {{if .Session.IsAuthenticated}}
    <nav class="bg-white shadow-sm border-b">
        <div class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8">
            <div class="flex justify-between h-16">
                <div class="flex">
                    <a href="/" class="flex items-center px-2 py-2 text-xl font-bold text-indigo-600">LoginHub</a>
                    <div class="hidden sm:ml-6 sm:flex sm:space-x-8">
                        {{if .Session.IsMaster}}
                        <a href="/admin" class="text-gray-500 hover:text-gray-700 inline-flex items-center px-1 pt-1 text-sm font-medium">Companies</a>
                        <a href="/admin/users" class="text-gray-500 hover:text-gray-700 inline-flex items-center px-1 pt-1 text-sm font-medium">Users</a>
                        {{else}}
                        <a href="/home" class="text-gray-500 hover:text-gray-700 inline-flex items-center px-1 pt-1 text-sm font-medium">Dashboard</a>
                        {{end}}
                    </div>
                </div>
                <div class="flex items-center">
                    <span class="text-sm text-gray-500 mr-4">{{.Session.Identity.Name}}{{if .Session.Company}} &middot; {{.Session.Company.Name}}{{end}}</span>
                    <form action="/logout" method="POST">
                        <button type="submit" class="text-sm text-gray-500 hover:text-gray-700">Logout</button>
                    </form>
                </div>
            </div>
        </div>
    </nav>
    {{end}}

    <main class="max-w-7xl mx-auto py-6 sm:px-6 lg:px-8">
        {{template "content" .}}
    </main>
</body>
</html>`,

	"components/alert": `{{if .Error}}
<div class="rounded-md bg-red-50 p-4 mb-4">
    <div class="text-sm text-red-700">{{.Error}}</div>
</div>
{{end}}`,

	"login": `{{define "content"}}
<div class="min-h-screen flex items-center justify-center py-12 px-4 sm:px-6 lg:px-8">
    <div class="max-w-md w-full space-y-8">
        <div>
            <h2 class="mt-6 text-center text-3xl font-extrabold text-gray-900">LoginHub</h2>
            <p class="mt-2 text-center text-sm text-gray-600">Sign in to your company account</p>
        </div>
        {{template "alert" .}}
        <form class="mt-8 space-y-6" action="/login" method="POST">
            <div class="rounded-md shadow-sm -space-y-px">
                <div>
                    <label for="email" class="sr-only">Email</label>
                    <input id="email" name="email" type="text" required value="{{.Email}}"
                           class="appearance-none rounded-none relative block w-full px-3 py-2 border border-gray-300 rounded-t-md sm:text-sm"
                           placeholder="Email">
                </div>
                <div>
                    <label for="password" class="sr-only">Password</label>
                    <input id="password" name="password" type="password" required
                           class="appearance-none rounded-none relative block w-full px-3 py-2 border border-gray-300 rounded-b-md sm:text-sm"
                           placeholder="Password">
                </div>
            </div>
            <button type="submit"
                    class="w-full flex justify-center py-2 px-4 border border-transparent text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">
                Sign in
            </button>
        </form>
    </div>
</div>
{{end}}`,

	"error": `{{define "content"}}
<div class="min-h-screen flex items-center justify-center">
    <div class="text-center">
        <h1 class="text-4xl font-bold text-gray-900 mb-4">Error</h1>
        <p class="text-gray-600 mb-2">{{.Message}}</p>
        {{if .Detail}}<p class="text-sm text-gray-500 mb-8">{{.Detail}}</p>{{end}}
        <a href="/" class="text-indigo-600 hover:text-indigo-500">Return to the console</a>
    </div>
</div>
{{end}}`,

	"admin/companies": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="flex justify-between items-center mb-8">
        <h1 class="text-2xl font-semibold text-gray-900">Companies</h1>
        <a href="/admin/companies/new" class="px-4 py-2 rounded-md text-sm text-white bg-indigo-600 hover:bg-indigo-700">New company</a>
    </div>

    <div class="grid grid-cols-2 gap-5 sm:grid-cols-4 mb-8">
        <div class="bg-white shadow rounded-lg p-5"><dt class="text-sm text-gray-500">Companies</dt><dd class="text-3xl font-semibold">{{.Stats.Total}}</dd></div>
        <div class="bg-white shadow rounded-lg p-5"><dt class="text-sm text-gray-500">Active</dt><dd class="text-3xl font-semibold text-green-600">{{.Stats.Active}}</dd></div>
        <div class="bg-white shadow rounded-lg p-5"><dt class="text-sm text-gray-500">Blocked</dt><dd class="text-3xl font-semibold text-red-600">{{.Stats.Inactive}}</dd></div>
        <div class="bg-white shadow rounded-lg p-5"><dt class="text-sm text-gray-500">Users</dt><dd class="text-3xl font-semibold">{{.Stats.Users}}</dd></div>
    </div>

    <div class="bg-white shadow overflow-hidden sm:rounded-lg">
        <table class="min-w-full divide-y divide-gray-200">
            <thead class="bg-gray-50">
                <tr>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Name</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Document</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Email</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Users</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Status</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Created</th>
                    <th class="px-6 py-3"></th>
                </tr>
            </thead>
            <tbody class="divide-y divide-gray-200">
                {{range .Companies}}
                <tr>
                    <td class="px-6 py-4 text-sm font-medium text-gray-900"><a href="/admin/companies/{{.ID}}/users" class="hover:text-indigo-600">{{.Name}}</a></td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{.Document}}</td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{.Email}}</td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{.TotalUsers}}</td>
                    <td class="px-6 py-4"><span class="px-2 inline-flex text-xs font-semibold rounded-full {{statusBadge .Status}}">{{statusLabel .Status}}</span></td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{formatTimePtr .CreatedAt}}</td>
                    <td class="px-6 py-4 text-right text-sm space-x-2 whitespace-nowrap">
                        <a href="/admin/companies/{{.ID}}/edit" class="text-indigo-600 hover:text-indigo-900">Edit</a>
                        <form action="/admin/companies/{{.ID}}/status" method="POST" class="inline">
                            <input type="hidden" name="status" value="{{toggle .Status}}">
                            <button type="submit" class="text-yellow-600 hover:text-yellow-900">{{if .IsActive}}Block{{else}}Activate{{end}}</button>
                        </form>
                        <form action="/admin/companies/{{.ID}}/delete" method="POST" class="inline" onsubmit="return confirm('Delete {{.Name}}?')">
                            <button type="submit" class="text-red-600 hover:text-red-900">Delete</button>
                        </form>
                    </td>
                </tr>
                {{else}}
                <tr><td colspan="7" class="px-6 py-4 text-sm text-gray-500 text-center">No companies yet</td></tr>
                {{end}}
            </tbody>
        </table>
    </div>
</div>
{{end}}`,

	"admin/company_form": `{{define "content"}}
<div class="max-w-2xl mx-auto px-4 py-6 sm:px-0">
    <h1 class="text-2xl font-semibold text-gray-900 mb-6">{{if .IsNew}}New company{{else}}Edit company{{end}}</h1>
    {{template "alert" .}}
    <form action="{{.Action}}" method="POST" class="bg-white shadow rounded-lg p-6 space-y-4">
        <div><label class="block text-sm font-medium text-gray-700">Name</label>
            <input name="nome" value="{{.Company.Name}}" required class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2"></div>
        <div><label class="block text-sm font-medium text-gray-700">Document</label>
            <input name="documento" value="{{.Company.Document}}" required class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2"></div>
        <div><label class="block text-sm font-medium text-gray-700">Email</label>
            <input name="email" type="email" value="{{.Company.Email}}" required class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2"></div>
        <div><label class="block text-sm font-medium text-gray-700">Phone</label>
            <input name="telefone" value="{{.Company.Phone}}" class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2"></div>
        {{if .IsNew}}
        <h2 class="text-lg font-medium text-gray-900 pt-4">Initial administrator</h2>
        <div><label class="block text-sm font-medium text-gray-700">Name</label>
            <input name="admin_nome" value="{{.Company.AdminName}}" required class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2"></div>
        <div><label class="block text-sm font-medium text-gray-700">Email</label>
            <input name="admin_email" type="email" value="{{.Company.AdminEmail}}" required class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2"></div>
        <div><label class="block text-sm font-medium text-gray-700">Password</label>
            <input name="password" type="password" required class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2"></div>
        <div><label class="block text-sm font-medium text-gray-700">Phone</label>
            <input name="admin_telefone" value="{{.Company.AdminPhone}}" class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2"></div>
        {{end}}
        <div class="flex justify-end space-x-3 pt-4">
            <a href="/admin" class="px-4 py-2 text-sm text-gray-700">Cancel</a>
            <button type="submit" class="px-4 py-2 rounded-md text-sm text-white bg-indigo-600 hover:bg-indigo-700">Save</button>
        </div>
    </form>
</div>
{{end}}`,

	"admin/company_users": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="flex justify-between items-center mb-8">
        <div>
            <h1 class="text-2xl font-semibold text-gray-900">{{.Company.Name}}</h1>
            <p class="mt-1 text-sm text-gray-500">{{.Company.Document}} &middot; <span class="px-2 text-xs font-semibold rounded-full {{statusBadge .Company.Status}}">{{statusLabel .Company.Status}}</span></p>
        </div>
        <a href="{{.NewURL}}" class="px-4 py-2 rounded-md text-sm text-white bg-indigo-600 hover:bg-indigo-700">New user</a>
    </div>
    {{template "userTable" .}}
</div>
{{end}}`,

	"admin/users": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <h1 class="text-2xl font-semibold text-gray-900 mb-8">All users</h1>
    <div class="bg-white shadow overflow-hidden sm:rounded-lg">
        <table class="min-w-full divide-y divide-gray-200">
            <thead class="bg-gray-50">
                <tr>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Name</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Email</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Role</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Company</th>
                    <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Status</th>
                </tr>
            </thead>
            <tbody class="divide-y divide-gray-200">
                {{range .Users}}
                <tr>
                    <td class="px-6 py-4 text-sm font-medium text-gray-900">{{.Name}}</td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{.Email}}</td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{roleLabel .Role}}</td>
                    <td class="px-6 py-4 text-sm text-gray-500">{{with deref .CompanyID}}<a href="/admin/companies/{{.}}/users" class="hover:text-indigo-600">{{.}}</a>{{end}}</td>
                    <td class="px-6 py-4"><span class="px-2 inline-flex text-xs font-semibold rounded-full {{statusBadge .Status}}">{{statusLabel .Status}}</span></td>
                </tr>
                {{else}}
                <tr><td colspan="5" class="px-6 py-4 text-sm text-gray-500 text-center">No users</td></tr>
                {{end}}
            </tbody>
        </table>
    </div>
</div>
{{end}}`,

	"home": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="flex justify-between items-center mb-8">
        <div>
            <h1 class="text-2xl font-semibold text-gray-900">{{if .Company}}{{.Company.Name}}{{else}}Dashboard{{end}}</h1>
            <p class="mt-1 text-sm text-gray-500">Welcome back, {{.Session.Identity.Name}}{{with .ExpiresAt}} &middot; session valid until {{formatTime .}}{{end}}</p>
        </div>
        {{if .CanManage}}
        <a href="{{.NewURL}}" class="px-4 py-2 rounded-md text-sm text-white bg-indigo-600 hover:bg-indigo-700">New user</a>
        {{end}}
    </div>
    {{template "userTable" .}}
</div>
{{end}}`,

	"user_form": `{{define "content"}}
<div class="max-w-2xl mx-auto px-4 py-6 sm:px-0">
    <h1 class="text-2xl font-semibold text-gray-900 mb-6">{{if .IsNew}}New user{{else}}Edit user{{end}}</h1>
    {{template "alert" .}}
    <form action="{{.Action}}" method="POST" class="bg-white shadow rounded-lg p-6 space-y-4">
        <div><label class="block text-sm font-medium text-gray-700">Name</label>
            <input name="nome" value="{{.User.Name}}" {{if .IsNew}}required{{end}} class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2"></div>
        <div><label class="block text-sm font-medium text-gray-700">Email</label>
            <input name="email" type="email" value="{{.User.Email}}" {{if .IsNew}}required{{end}} class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2"></div>
        <div><label class="block text-sm font-medium text-gray-700">Password{{if not .IsNew}} (leave blank to keep){{end}}</label>
            <input name="password" type="password" {{if .IsNew}}required{{end}} class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2"></div>
        <div><label class="block text-sm font-medium text-gray-700">Phone</label>
            <input name="telefone" value="{{.User.Phone}}" class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2"></div>
        <div><label class="block text-sm font-medium text-gray-700">Role</label>
            <select name="role" class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2">
                <option value="usuario" {{if eq .User.Role "usuario"}}selected{{end}}>User</option>
                <option value="admin" {{if eq .User.Role "admin"}}selected{{end}}>Admin</option>
            </select></div>
        <div class="flex justify-end space-x-3 pt-4">
            <a href="{{.Back}}" class="px-4 py-2 text-sm text-gray-700">Cancel</a>
            <button type="submit" class="px-4 py-2 rounded-md text-sm text-white bg-indigo-600 hover:bg-indigo-700">Save</button>
        </div>
    </form>
</div>
{{end}}`,

	"components/userTable": `<div class="bg-white shadow overflow-hidden sm:rounded-lg">
    <table class="min-w-full divide-y divide-gray-200">
        <thead class="bg-gray-50">
            <tr>
                <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Name</th>
                <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Email</th>
                <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Role</th>
                <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Phone</th>
                <th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">Status</th>
                {{if .BaseURL}}<th class="px-6 py-3"></th>{{end}}
            </tr>
        </thead>
        <tbody class="divide-y divide-gray-200">
            {{$base := .BaseURL}}
            {{range .Users}}
            <tr>
                <td class="px-6 py-4 text-sm font-medium text-gray-900">{{.Name}}</td>
                <td class="px-6 py-4 text-sm text-gray-500">{{.Email}}</td>
                <td class="px-6 py-4 text-sm text-gray-500">{{roleLabel .Role}}</td>
                <td class="px-6 py-4 text-sm text-gray-500">{{.Phone}}</td>
                <td class="px-6 py-4"><span class="px-2 inline-flex text-xs font-semibold rounded-full {{statusBadge .Status}}">{{statusLabel .Status}}</span></td>
                {{if $base}}
                <td class="px-6 py-4 text-right text-sm space-x-2 whitespace-nowrap">
                    <a href="{{$base}}/{{.ID}}/edit" class="text-indigo-600 hover:text-indigo-900">Edit</a>
                    <form action="{{$base}}/{{.ID}}/delete" method="POST" class="inline" onsubmit="return confirm('Delete {{.Name}}?')">
                        <button type="submit" class="text-red-600 hover:text-red-900">Delete</button>
                    </form>
                </td>
                {{end}}
            </tr>
            {{else}}
            <tr><td colspan="6" class="px-6 py-4 text-sm text-gray-500 text-center">No users yet</td></tr>
            {{end}}
        </tbody>
    </table>
</div>`,
}
