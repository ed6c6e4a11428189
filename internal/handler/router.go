package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/org-hierarchy-api/internal/middleware"
)

// Router настраивает маршруты API
type Router struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	deptHandler *DepartmentHandler
	teamHandler *TeamHandler
}

// NewRouter создаёт новый роутер
func NewRouter(deptHandler *DepartmentHandler, teamHandler *TeamHandler, logger *slog.Logger) *Router {
	return &Router{
		mux:         http.NewServeMux(),
		logger:      logger,
		deptHandler: deptHandler,
		teamHandler: teamHandler,
	}
}

// Setup настраивает все маршруты
func (r *Router) Setup() http.Handler {
	// Регистрируем обработчики
	r.mux.HandleFunc("/departments/", r.departmentsRouter)
	r.mux.HandleFunc("/teams/", r.teamsRouter)

	// Health check
	r.mux.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Применяем middleware
	handler := middleware.ContentType(r.mux)
	handler = middleware.Logger(r.logger)(handler)
	handler = middleware.Recoverer(r.logger)(handler)

	return handler
}

// departmentsRouter обрабатывает все запросы к /departments/
func (r *Router) departmentsRouter(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, "/departments")
	path = strings.Trim(path, "/")

	// POST /departments/ - создание подразделения
	if path == "" && req.Method == http.MethodPost {
		r.deptHandler.Create(w, req)
		return
	}

	// GET /departments/tree - всё дерево подразделений
	if path == "tree" {
		if req.Method == http.MethodGet {
			r.deptHandler.GetTree(w, req)
			return
		}
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	// Разбираем путь: {id}, {id}/employees, {id}/ancestors или {id}/children
	parts := strings.Split(path, "/")

	if len(parts) == 1 && parts[0] != "" {
		// /departments/{id}
		switch req.Method {
		case http.MethodGet:
			r.deptHandler.GetByID(w, req)
		case http.MethodPatch:
			r.deptHandler.Update(w, req)
		case http.MethodDelete:
			r.deptHandler.Delete(w, req)
		default:
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		}
		return
	}

	if len(parts) == 2 {
		switch parts[1] {
		case "employees":
			// /departments/{id}/employees
			switch req.Method {
			case http.MethodPost:
				r.deptHandler.CreateEmployee(w, req)
			case http.MethodGet:
				r.deptHandler.GetEmployees(w, req)
			default:
				http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
			}
			return

		case "ancestors":
			// /departments/{id}/ancestors
			if req.Method == http.MethodGet {
				r.deptHandler.GetAncestors(w, req)
				return
			}
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
			return

		case "children":
			// /departments/{id}/children
			if req.Method == http.MethodGet {
				r.deptHandler.GetChildren(w, req)
				return
			}
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
			return
		}
	}

	http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
}

// teamsRouter обрабатывает все запросы к /teams/
func (r *Router) teamsRouter(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, "/teams")
	path = strings.Trim(path, "/")

	// POST /teams/ - создание команды
	if path == "" && req.Method == http.MethodPost {
		r.teamHandler.Create(w, req)
		return
	}

	parts := strings.Split(path, "/")

	if len(parts) == 1 && parts[0] != "" {
		// /teams/{id}
		switch req.Method {
		case http.MethodGet:
			r.teamHandler.GetByID(w, req)
		case http.MethodPatch:
			r.teamHandler.Update(w, req)
		case http.MethodDelete:
			r.teamHandler.Delete(w, req)
		default:
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		}
		return
	}

	if len(parts) == 2 && parts[1] == "ancestors" {
		// /teams/{id}/ancestors
		if req.Method == http.MethodGet {
			r.teamHandler.GetAncestors(w, req)
			return
		}
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
}
