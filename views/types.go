package views

// Site carries the site-wide strings every view needs so nothing is
// hardcoded.
type Site struct {
	Name        string
	URL         string
	Description string
}

// LoginForm is the state of the editor login page.
type LoginForm struct {
	ShowError bool   // the last password was wrong
	Locked    bool   // too many attempts from this address
	CSRFToken string
}
