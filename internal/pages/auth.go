package pages

import "github.com/stolasapp/albumtest/internal/driver"

// AuthPage is the login screen.
type AuthPage struct {
	page
}

// NewAuthPage binds the login screen to a session.
func NewAuthPage(session driver.Session, baseURL string) *AuthPage {
	return &AuthPage{page: newPage(session, baseURL)}
}

// Open navigates to the login screen.
func (p *AuthPage) Open() error { return p.navigate(PathLogin) }

// Form returns the login form.
func (p *AuthPage) Form() AuthForm { return AuthForm{session: p.session} }

// AuthForm is the login form.
type AuthForm struct {
	session driver.Session
}

func (f AuthForm) SetLogin(value string) error {
	return fill(f.session, SelectorAuthLogin, value)
}

func (f AuthForm) SetPassword(value string) error {
	return fill(f.session, SelectorAuthPassword, value)
}

// Submit sends the credentials. A successful login navigates away from the
// form; nothing is reported back.
func (f AuthForm) Submit() error {
	return click(f.session, SelectorAuthSubmit)
}
