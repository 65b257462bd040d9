package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskdo/taskdo/core"
	"github.com/taskdo/taskdo/pkg/session"
)

// Router mounts both login paths onto one chi router. The root path forwards
// to the post-login page, which bounces through the login page for anonymous
// visitors.
func Router(cfg Config, local *LocalService, oauth *OAuthService, sessions *session.Manager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		core.Render(w, req, core.RedirectWithCode(cfg.PostLoginURL, http.StatusFound))
	})

	r.Get("/login", oauth.LoginPage)
	r.Post("/login", local.Login)
	r.Get("/register", local.RegisterPage)
	r.Post("/register", local.Register)
	r.Post("/logout", local.Logout)

	r.Get("/auth/{provider}", oauth.Begin)
	r.Get("/auth/{provider}/callback", oauth.Callback)

	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)
		r.Get("/me", local.Me)
	})

	return r
}
