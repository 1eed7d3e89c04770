package pantry

import (
	_ "embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/dashboard.html
var dashboardHTML string

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

type dashboardData struct {
	Items       []Item
	UrgentItems []Item
	Threshold   int
}

// RegisterWebRoutes monta la vista HTML. Separada de las rutas JSON
// porque el dashboard es presentación, no API.
func RegisterWebRoutes(r chi.Router, svc *Service) {
	r.Get("/dashboard", dashboardHandler(svc))
	r.Post("/dashboard/items", dashboardAddHandler(svc))
}

func dashboardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		urgent, err := svc.Urgent(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = dashboardTmpl.Execute(w, dashboardData{
			Items:       items,
			UrgentItems: urgent,
			Threshold:   svc.Threshold(),
		})
	}
}

// dashboardAddHandler recibe el form del dashboard y redirige de vuelta.
func dashboardAddHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		qty := 0
		if raw := strings.TrimSpace(r.PostFormValue("quantity")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "quantity must be an integer", http.StatusBadRequest)
				return
			}
			qty = n
		}

		exp, ok := parseDateParam(r.PostFormValue("expiration_date"))
		if !ok {
			http.Error(w, "expiration_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		_, err := svc.Save(r.Context(), Item{
			Name:      r.PostFormValue("name"),
			Quantity:  qty,
			Category:  r.PostFormValue("category"),
			ExpiresAt: exp,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}
