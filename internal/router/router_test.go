package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"smart-pantry/internal/platform/logger"
	"smart-pantry/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{Log: logger.Nop{}}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_PantryLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// 1) Crear items: uno bajo de stock, uno sin vencimiento, uno que vence ya
	lowID := createItem(t, ts.URL, map[string]any{
		"name":     "HDMI Cables",
		"quantity": 4,
		"category": "Electronics",
	})
	createItem(t, ts.URL, map[string]any{
		"name":     "Patch Cables",
		"quantity": 21,
		"category": "Electronics",
	})
	eggsID := createItem(t, ts.URL, map[string]any{
		"name":            "Eggs",
		"quantity":        36,
		"category":        "Pantry",
		"expiration_date": "2000-06-01", // vencidísimo: garantiza entrar en urgent
	})

	// 2) Listado completo
	{
		st, body := doReq(t, ts.URL, "GET", "/api/pantry", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d body=%s", st, string(body))
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(items))
		}
	}

	// 3) Urgent: los HDMI (low stock) y los huevos (vencidos), una vez cada uno
	{
		st, body := doReq(t, ts.URL, "GET", "/api/pantry/urgent", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 urgent, got %d body=%s", st, string(body))
		}
		var items []struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 2 {
			t.Fatalf("expected 2 urgent items, got %d body=%s", len(items), string(body))
		}
	}

	// 4) Low stock con threshold del caller
	{
		st, body := doReq(t, ts.URL, "GET", "/api/pantry/lowstock?threshold=4", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 lowstock, got %d", st)
		}
		var items []struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].ID != lowID {
			t.Fatalf("expected only HDMI Cables low, body=%s", string(body))
		}
	}

	// 5) Restock + consume vuelven a dejar la cantidad original
	{
		st, body := doReq(t, ts.URL, "POST", "/api/pantry/"+lowID+"/restock", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 restock, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "POST", "/api/pantry/"+lowID+"/consume", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 consume, got %d body=%s", st, string(body))
		}
		var it struct {
			Quantity int `json:"quantity"`
		}
		_ = json.Unmarshal(body, &it)
		if it.Quantity != 4 {
			t.Fatalf("expected quantity back at 4, got %d", it.Quantity)
		}
	}

	// 6) Update es reemplazo completo
	{
		st, body := doReq(t, ts.URL, "PUT", "/api/pantry/"+eggsID, map[string]any{
			"name":            "Eggs (dozen)",
			"quantity":        12,
			"category":        "Pantry",
			"expiration_date": "2030-01-01",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update, got %d body=%s", st, string(body))
		}
		var it struct {
			Name      string `json:"name"`
			Quantity  int    `json:"quantity"`
			ExpiresAt string `json:"expiration_date"`
		}
		_ = json.Unmarshal(body, &it)
		if it.Name != "Eggs (dozen)" || it.Quantity != 12 || it.ExpiresAt != "2030-01-01" {
			t.Fatalf("update not applied: %s", string(body))
		}
	}

	// 7) Delete y delete repetido: 204 y después 404, sin romper nada
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/api/pantry/"+eggsID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "DELETE", "/api/pantry/"+eggsID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 on repeated delete, got %d", st)
		}
	}

	// 8) El dashboard responde HTML
	{
		st, body := doReq(t, ts.URL, "GET", "/dashboard", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 dashboard, got %d", st)
		}
		if !bytes.Contains(body, []byte("Smart Pantry")) {
			t.Fatalf("dashboard missing title")
		}
	}
}

func TestHTTP_Validation(t *testing.T) {
	ts := newTestServer(t)

	// nombre vacío => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/pantry", map[string]any{
			"name":     "",
			"quantity": 1,
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for blank name, got %d", st)
		}
	}

	// fecha mal formada => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/pantry", map[string]any{
			"name":            "x",
			"quantity":        1,
			"expiration_date": "01/02/2026",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad date, got %d", st)
		}
	}

	// threshold no numérico => 400
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/pantry/lowstock?threshold=abc", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad threshold, got %d", st)
		}
	}

	// update de id inexistente => 404
	{
		st, _ := doReq(t, ts.URL, "PUT", "/api/pantry/no-such-id", map[string]any{
			"name":     "x",
			"quantity": 1,
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for missing id, got %d", st)
		}
	}
}

func TestHTTP_ConsumeAtZeroConflicts(t *testing.T) {
	ts := newTestServer(t)

	id := createItem(t, ts.URL, map[string]any{
		"name":     "empty jar",
		"quantity": 0,
	})

	st, _ := doReq(t, ts.URL, "POST", "/api/pantry/"+id+"/consume", nil)
	if st != http.StatusConflict {
		t.Fatalf("expected 409 consume at zero, got %d", st)
	}
}

func createItem(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/pantry", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create item, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create item: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
