package account

import (
	"html/template"
	"net/http"

	"github.com/taskdo/taskdo/pkg/identity"
)

var loginPage = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>Sign in</title></head>
<body>
<h1>Sign in</h1>
{{if .Registered}}<p>Account created. Sign in below.</p>{{end}}
{{if .Error}}<p class="error">Sign-in failed ({{.Error}}). Try again.</p>{{end}}
<form method="post" action="/login">
  <label>Email <input type="email" name="email" required></label>
  <label>Password <input type="password" name="password" required></label>
  <button type="submit">Sign in</button>
</form>
<ul>
{{range .Providers}}<li><a href="/auth/{{.}}">Continue with {{.}}</a></li>
{{end}}</ul>
<p><a href="/register">Create an account</a></p>
</body>
</html>
`))

var registerPage = template.Must(template.New("register").Parse(`<!DOCTYPE html>
<html>
<head><title>Create account</title></head>
<body>
<h1>Create account</h1>
{{if .Error}}<p class="error">Registration failed ({{.Error}}). Try again.</p>{{end}}
<form method="post" action="/register">
  <label>Email <input type="email" name="email" required></label>
  <label>Password <input type="password" name="password" required></label>
  <button type="submit">Create account</button>
</form>
<p><a href="/login">Back to sign in</a></p>
</body>
</html>
`))

// LoginPage renders the sign-in form with links for each enabled provider.
func (s *OAuthService) LoginPage(w http.ResponseWriter, r *http.Request) {
	providers := make([]string, 0, len(s.providers))
	for _, name := range []string{
		identity.ProviderGoogle,
		identity.ProviderGithub,
		identity.ProviderKakao,
		identity.ProviderNaver,
	} {
		if _, ok := s.providers[name]; ok {
			providers = append(providers, name)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = loginPage.Execute(w, map[string]any{
		"Error":      r.URL.Query().Get("error"),
		"Registered": r.URL.Query().Get("registered") != "",
		"Providers":  providers,
	})
}

// RegisterPage renders the account creation form.
func (s *LocalService) RegisterPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = registerPage.Execute(w, map[string]any{
		"Error": r.URL.Query().Get("error"),
	})
}
