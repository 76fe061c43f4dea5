package model

import "fmt"

// Well-known console paths.
const (
	PathLogin      = "/login"
	PathMasterHome = "/admin"
	PathTenantHome = "/home"
)

// NavigationKind distinguishes rendering a view from redirecting.
type NavigationKind int

const (
	NavRender NavigationKind = iota
	NavRedirect
)

// Navigation is a command for the hosting front-end. The core never
// navigates by itself; it returns what should happen next.
type Navigation struct {
	Kind NavigationKind
	View string // view to render (NavRender)
	Path string // target path (NavRedirect)
	// Replace drops the current entry from history so the user cannot
	// navigate back into the protected area.
	Replace bool
	// Hard requests a full navigation that discards in-memory UI state.
	Hard bool
}

// Render returns a command rendering view.
func Render(view string) Navigation {
	return Navigation{Kind: NavRender, View: view}
}

// RedirectTo returns a command redirecting to path.
func RedirectTo(path string) Navigation {
	return Navigation{Kind: NavRedirect, Path: path}
}

// Replacing marks the redirect as replacing history.
func (n Navigation) Replacing() Navigation {
	n.Replace = true
	return n
}

// Hardened marks the redirect as a full navigation.
func (n Navigation) Hardened() Navigation {
	n.Hard = true
	return n
}

// IsRender reports whether the command renders a view.
func (n Navigation) IsRender() bool {
	return n.Kind == NavRender
}

// IsRedirect reports whether the command redirects.
func (n Navigation) IsRedirect() bool {
	return n.Kind == NavRedirect
}

func (n Navigation) String() string {
	if n.Kind == NavRender {
		return fmt.Sprintf("render(%s)", n.View)
	}
	s := fmt.Sprintf("redirect(%s", n.Path)
	if n.Replace {
		s += ",replace"
	}
	if n.Hard {
		s += ",hard"
	}
	return s + ")"
}
