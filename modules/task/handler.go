package task

import (
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taskdo/taskdo/core"
	"github.com/taskdo/taskdo/pkg/logger"
	"github.com/taskdo/taskdo/pkg/session"
)

var listPage = template.Must(template.New("tasks").Parse(`<!DOCTYPE html>
<html>
<head><title>Tasks</title></head>
<body>
<h1>Tasks</h1>
<p>{{.Identifier}} — <form method="post" action="/logout" style="display:inline"><button type="submit">Sign out</button></form></p>
<form method="post" action="/tasks">
  <input type="text" name="title" placeholder="New task" required>
  <button type="submit">Add</button>
</form>
<ul>
{{range .Tasks}}<li>
  {{if .Done}}<s>{{.Title}}</s>{{else}}{{.Title}}{{end}}
  <form method="post" action="/tasks/{{.ID}}/toggle" style="display:inline"><button type="submit">Toggle</button></form>
  <form method="post" action="/tasks/{{.ID}}/delete" style="display:inline"><button type="submit">Delete</button></form>
</li>
{{end}}</ul>
</body>
</html>
`))

// Handler is the HTTP surface of the task list.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHandlerLogger sets the logger for request failures.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates the task HTTP handler.
func NewHandler(svc *Service, opts ...HandlerOption) *Handler {
	h := &Handler{
		svc:    svc,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router mounts the task routes. All routes require an authenticated
// session.
func (h *Handler) Router(sessions *session.Manager, loginURL string) chi.Router {
	r := chi.NewRouter()
	r.Use(sessions.RequireAuth(loginURL))

	r.Get("/", h.listPage)
	r.Get("/list", h.listJSON)
	r.Post("/", h.create)
	r.Post("/{id}/toggle", h.toggle)
	r.Post("/{id}/rename", h.rename)
	r.Post("/{id}/delete", h.delete)

	return r
}

func (h *Handler) listPage(w http.ResponseWriter, r *http.Request) {
	principal, _ := session.PrincipalFromContext(r.Context())

	tasks, err := h.svc.List(r.Context(), principal.AccountID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "task list failed",
			logger.AccountID(principal.AccountID),
			logger.Error(err),
		)
		core.Render(w, r, core.JSONError(core.ErrInternalServerError))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = listPage.Execute(w, map[string]any{
		"Identifier": principal.AccountIdentifier,
		"Tasks":      tasks,
	})
}

func (h *Handler) listJSON(w http.ResponseWriter, r *http.Request) {
	principal, _ := session.PrincipalFromContext(r.Context())

	tasks, err := h.svc.List(r.Context(), principal.AccountID)
	if err != nil {
		core.Render(w, r, core.JSONError(core.ErrInternalServerError))
		return
	}
	core.Render(w, r, core.JSON("tasks", tasks))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal, _ := session.PrincipalFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		core.Render(w, r, core.JSONError(core.ErrBadRequest))
		return
	}

	if _, err := h.svc.Create(r.Context(), principal.AccountID, r.PostFormValue("title")); err != nil {
		h.renderError(w, r, principal.AccountID, err)
		return
	}
	core.Render(w, r, core.Redirect("/tasks"))
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	principal, _ := session.PrincipalFromContext(r.Context())

	taskID, err := parseTaskID(r)
	if err != nil {
		core.Render(w, r, core.JSONError(core.ErrBadRequest))
		return
	}

	if _, err := h.svc.Toggle(r.Context(), principal.AccountID, taskID); err != nil {
		h.renderError(w, r, principal.AccountID, err)
		return
	}
	core.Render(w, r, core.Redirect("/tasks"))
}

func (h *Handler) rename(w http.ResponseWriter, r *http.Request) {
	principal, _ := session.PrincipalFromContext(r.Context())

	taskID, err := parseTaskID(r)
	if err != nil {
		core.Render(w, r, core.JSONError(core.ErrBadRequest))
		return
	}

	if err := r.ParseForm(); err != nil {
		core.Render(w, r, core.JSONError(core.ErrBadRequest))
		return
	}

	if _, err := h.svc.Rename(r.Context(), principal.AccountID, taskID, r.PostFormValue("title")); err != nil {
		h.renderError(w, r, principal.AccountID, err)
		return
	}
	core.Render(w, r, core.Redirect("/tasks"))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	principal, _ := session.PrincipalFromContext(r.Context())

	taskID, err := parseTaskID(r)
	if err != nil {
		core.Render(w, r, core.JSONError(core.ErrBadRequest))
		return
	}

	if err := h.svc.Delete(r.Context(), principal.AccountID, taskID); err != nil {
		h.renderError(w, r, principal.AccountID, err)
		return
	}
	core.Render(w, r, core.Redirect("/tasks"))
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, accountID int64, err error) {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		core.Render(w, r, core.JSONError(core.ErrNotFound))
	case errors.Is(err, ErrEmptyTitle):
		core.Render(w, r, core.JSONError(core.ErrUnprocessableEntity))
	default:
		h.logger.ErrorContext(r.Context(), "task operation failed",
			logger.AccountID(accountID),
			logger.Error(err),
		)
		core.Render(w, r, core.JSONError(core.ErrInternalServerError))
	}
}

func parseTaskID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
