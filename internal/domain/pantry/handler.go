package pantry

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/pantry", func(pr chi.Router) {
		pr.Get("/", listItemsHandler(svc))
		pr.Post("/", addItemHandler(svc))

		// Consultas de política. Van antes de /{itemID} para que chi
		// no las tome como ids.
		pr.Get("/expiring", expiringSoonHandler(svc))
		pr.Get("/lowstock", lowStockHandler(svc))
		pr.Get("/urgent", urgentHandler(svc))

		pr.Get("/{itemID}", getItemHandler(svc))
		pr.Put("/{itemID}", updateItemHandler(svc))
		pr.Delete("/{itemID}", deleteItemHandler(svc))

		pr.Post("/{itemID}/restock", restockHandler(svc))
		pr.Post("/{itemID}/consume", consumeHandler(svc))
	})
}

type itemRequest struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Category  string `json:"category"`
	ExpiresAt string `json:"expiration_date"` // YYYY-MM-DD opcional
}

type itemResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Category  string    `json:"category,omitempty"`
	ExpiresAt string    `json:"expiration_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func listItemsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponses(items))
	}
}

func addItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		exp, ok := parseDateParam(req.ExpiresAt)
		if !ok {
			http.Error(w, "expiration_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		it, err := svc.Add(r.Context(), AddInput{
			Name:      req.Name,
			Quantity:  req.Quantity,
			Category:  req.Category,
			ExpiresAt: exp,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toItemResponse(it))
	}
}

func getItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		it, err := svc.GetByID(r.Context(), chi.URLParam(r, "itemID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

func updateItemHandler(svc *Service) http.HandlerFunc {
	// PUT = reemplazo completo, no patch.
	return func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		exp, ok := parseDateParam(req.ExpiresAt)
		if !ok {
			http.Error(w, "expiration_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		it, err := svc.Update(r.Context(), chi.URLParam(r, "itemID"), UpdateInput{
			Name:      req.Name,
			Quantity:  req.Quantity,
			Category:  req.Category,
			ExpiresAt: exp,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

func deleteItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "itemID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func expiringSoonHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ExpiringSoon(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponses(items))
	}
}

func lowStockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threshold := svc.Threshold()
		if raw := strings.TrimSpace(r.URL.Query().Get("threshold")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "threshold must be an integer", http.StatusBadRequest)
				return
			}
			threshold = n
		}

		items, err := svc.LowStock(r.Context(), threshold)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponses(items))
	}
}

func urgentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Urgent(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponses(items))
	}
}

func restockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		it, err := svc.Restock(r.Context(), chi.URLParam(r, "itemID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

func consumeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		it, err := svc.Consume(r.Context(), chi.URLParam(r, "itemID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

// parseDateParam acepta vacío (sin vencimiento) o YYYY-MM-DD.
func parseDateParam(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrNotFound:
		http.Error(w, "item not found", http.StatusNotFound)
	case ErrQuantityUnderflow:
		http.Error(w, "quantity already at zero", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toItemResponse(it Item) itemResponse {
	resp := itemResponse{
		ID:        it.ID,
		Name:      it.Name,
		Quantity:  it.Quantity,
		Category:  it.Category,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
	if it.ExpiresAt != nil {
		resp.ExpiresAt = it.ExpiresAt.Format("2006-01-02")
	}
	return resp
}

func toItemResponses(items []Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
