package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Auth         *AuthHandler
	Staff        *StaffHandler
	Availability *AvailabilityHandler
	Jobs         *JobHandler
	Candidates   *CandidatesHandler
	Middleware   []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Auth != nil {
		mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.CreateSession(w, r)
		})
		mux.HandleFunc("/sessions/current", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Auth.DeleteCurrentSession(w, r)
		})
	}

	if cfg.Staff != nil {
		mux.HandleFunc("/staff", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Staff.List(w, r)
			case http.MethodPost:
				cfg.Staff.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/staff/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/staff/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}

			id, sub, _ := strings.Cut(rest, "/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithStaffID(r.Context(), id)
			r = r.WithContext(ctx)

			switch sub {
			case "":
				switch r.Method {
				case http.MethodGet:
					cfg.Staff.Get(w, r)
				case http.MethodPut:
					cfg.Staff.Update(w, r)
				case http.MethodDelete:
					cfg.Staff.Deactivate(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
				}
			case "availability":
				if cfg.Availability == nil {
					http.NotFound(w, r)
					return
				}
				switch r.Method {
				case http.MethodGet:
					cfg.Availability.GetWeek(w, r)
				case http.MethodPut:
					cfg.Availability.PutWeek(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut)
				}
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Jobs != nil {
		mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Jobs.List(w, r)
			case http.MethodPost:
				cfg.Jobs.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/jobs/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/jobs/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}

			id, sub, _ := strings.Cut(rest, "/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithJobID(r.Context(), id)
			r = r.WithContext(ctx)

			switch sub {
			case "":
				switch r.Method {
				case http.MethodGet:
					cfg.Jobs.Get(w, r)
				case http.MethodPut:
					cfg.Jobs.Update(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut)
				}
			case "status":
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				cfg.Jobs.Transition(w, r)
			case "assignee":
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				cfg.Jobs.Assign(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Candidates != nil {
		mux.HandleFunc("/candidates", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Candidates.List(w, r)
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
