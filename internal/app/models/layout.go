package models

import "github.com/a-h/templ"

type NavItem struct {
	Name string
	URL  string
}

type Navigation struct {
	Items []NavItem
}

// LayoutTempl is everything the page shell needs: the current user snapshot, the flash messages drained for this
// response and the CSRF token embedded in every form.
type LayoutTempl struct {
	Title     string
	User      *UserRef
	Nav       Navigation
	ActiveNav string
	Content   templ.Component
	CSRFToken string
	Success   []string
	Errors    []string
}

var OfflineNav = Navigation{
	Items: []NavItem{
		{Name: "Home", URL: "/"},
		{Name: "Login", URL: "/login"},
		{Name: "Sign Up", URL: "/signup"},
	},
}

var MemberNav = Navigation{
	Items: []NavItem{
		{Name: "Home", URL: "/home"},
		{Name: "Dashboard", URL: "/dashboard"},
		{Name: "Events", URL: "/events"},
		{Name: "Participants", URL: "/participants"},
		{Name: "My Donations", URL: "/my-donations"},
		{Name: "Survey", URL: "/surveys/new"},
	},
}

var ManagerNav = Navigation{
	Items: []NavItem{
		{Name: "Home", URL: "/home"},
		{Name: "Dashboard", URL: "/dashboard"},
		{Name: "Events", URL: "/events"},
		{Name: "Participants", URL: "/participants"},
		{Name: "Donations", URL: "/donations"},
		{Name: "Surveys", URL: "/surveys"},
		{Name: "Milestones", URL: "/milestones"},
		{Name: "Managers", URL: "/admin/make-manager"},
	},
}

// NavFor picks the navigation for the given session user.
func NavFor(user *UserRef) Navigation {
	switch {
	case user == nil:
		return OfflineNav
	case user.IsManager():
		return ManagerNav
	default:
		return MemberNav
	}
}
