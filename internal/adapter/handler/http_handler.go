package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/schema"

	"github.com/sayur5/storefront/internal/core/domain"
	"github.com/sayur5/storefront/internal/core/pricing"
	"github.com/sayur5/storefront/internal/core/service"
)

// HTTPHandler exposes the storefront and the admin panel as a JSON/form API.
type HTTPHandler struct {
	catalog  *service.Catalog
	cart     *service.Cart
	ledger   *service.OrderLedger
	admins   *service.AdminDirectory
	settings *service.Settings
	checkout *service.Checkout
	logger   *slog.Logger
	waNumber string
	forms    *schema.Decoder
}

func NewHTTPHandler(
	catalog *service.Catalog,
	cart *service.Cart,
	ledger *service.OrderLedger,
	admins *service.AdminDirectory,
	settings *service.Settings,
	checkout *service.Checkout,
	logger *slog.Logger,
	waNumber string,
) *HTTPHandler {
	forms := schema.NewDecoder()
	forms.IgnoreUnknownKeys(true)
	return &HTTPHandler{
		catalog:  catalog,
		cart:     cart,
		ledger:   ledger,
		admins:   admins,
		settings: settings,
		checkout: checkout,
		logger:   logger,
		waNumber: waNumber,
		forms:    forms,
	}
}

// Routes builds the full route table. Admin routes are gated on the
// persisted login session.
func (h *HTTPHandler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/categories", h.ListCategories)

	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/items/add", h.CartAdd)
	mux.HandleFunc("POST /api/cart/items/remove", h.CartRemove)
	mux.HandleFunc("POST /api/cart/clear", h.CartClear)
	mux.HandleFunc("POST /api/checkout", h.Checkout)

	mux.HandleFunc("POST /api/admin/login", h.Login)
	mux.HandleFunc("POST /api/admin/logout", h.Logout)

	mux.Handle("GET /api/admin/admins", h.requireAdmin(h.ListAdmins))
	mux.Handle("POST /api/admin/admins", h.requireAdmin(h.AddAdmin))
	mux.Handle("DELETE /api/admin/admins/{user}", h.requireAdmin(h.RemoveAdmin))

	mux.Handle("POST /api/admin/products", h.requireAdmin(h.AddProduct))
	mux.Handle("PATCH /api/admin/products/{id}", h.requireAdmin(h.UpdateProduct))
	mux.Handle("DELETE /api/admin/products/{id}", h.requireAdmin(h.RemoveProduct))

	mux.Handle("GET /api/admin/orders", h.requireAdmin(h.ListOrders))
	mux.Handle("GET /api/admin/orders.csv", h.requireAdmin(h.ExportOrdersCSV))
	mux.Handle("PUT /api/admin/shipping", h.requireAdmin(h.SetShipping))

	return h.withRequestLog(mux)
}

func (h *HTTPHandler) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Info("request",
			"request_id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
		)
		next.ServeHTTP(w, r)
	})
}

func (h *HTTPHandler) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.admins.CurrentUser() == "" {
			writeError(w, http.StatusUnauthorized, "admin login required")
			return
		}
		next(w, r)
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListProducts supports optional q (name/id substring) and category filters.
func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	category := r.URL.Query().Get("category")

	var out []domain.Product
	for _, p := range h.catalog.Products() {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(p.ID, q) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	if out == nil {
		out = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats := h.catalog.Categories()
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, cats)
}

type cartResponse struct {
	Items    []domain.OrderItem `json:"items"`
	Subtotal int                `json:"subtotal"`
	Shipping int                `json:"shipping"`
	Total    int                `json:"total"`
	TotalQty int                `json:"totalQty"`
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *HTTPHandler) cartSnapshot() cartResponse {
	items := h.cart.LineItems()
	if items == nil {
		items = []domain.OrderItem{}
	}
	cfg := h.settings.Shipping()
	subtotal := pricing.Subtotal(items)
	shipping := pricing.ShippingFee(subtotal, cfg)
	return cartResponse{
		Items:    items,
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
		TotalQty: h.cart.TotalQty(),
	}
}

type cartItemRequest struct {
	ID string `json:"id"`
}

func (h *HTTPHandler) CartAdd(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "product id required")
		return
	}
	h.cart.Increment(req.ID)
	writeJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *HTTPHandler) CartRemove(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "product id required")
		return
	}
	h.cart.Decrement(req.ID)
	writeJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *HTTPHandler) CartClear(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	writeJSON(w, http.StatusOK, h.cartSnapshot())
}

// checkoutForm is the form-encoded customer payload posted by the checkout
// page.
type checkoutForm struct {
	Name    string `schema:"name"`
	Phone   string `schema:"phone"`
	Address string `schema:"address"`
	Payment string `schema:"payment"`
	Note    string `schema:"note"`
}

type checkoutResponse struct {
	Order        domain.Order `json:"order"`
	Message      string       `json:"message"`
	WhatsAppLink string       `json:"waLink"`
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	var form checkoutForm
	if err := h.forms.Decode(&form, r.PostForm); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	order, err := h.checkout.Place(r.Context(), domain.Customer{
		Name:    form.Name,
		Phone:   form.Phone,
		Address: form.Address,
		Payment: form.Payment,
		Note:    form.Note,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	message := service.OrderMessage(order)
	writeJSON(w, http.StatusCreated, checkoutResponse{
		Order:        order,
		Message:      message,
		WhatsAppLink: "https://wa.me/" + h.waNumber + "?text=" + url.QueryEscape(message),
	})
}

type loginRequest struct {
	User string `json:"user"`
	PIN  string `json:"pin"`
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.admins.Login(r.Context(), req.User, req.PIN); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"user": req.User})
}

func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.admins.Logout(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *HTTPHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.admins.Usernames())
}

func (h *HTTPHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.admins.Add(r.Context(), req.User, req.PIN); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"user": req.User})
}

func (h *HTTPHandler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.admins.Remove(r.Context(), r.PathValue("user")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.ID = strings.ToLower(p.ID)
	if err := h.catalog.Add(r.Context(), p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	found, err := h.catalog.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"found": found})
}

func (h *HTTPHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.ledger.Orders()
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// ExportOrdersCSV streams the ledger as CSV, one row per order with items
// collapsed into a single column.
func (h *HTTPHandler) ExportOrdersCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"id", "tanggal", "nama", "telepon", "alamat", "payment", "subtotal", "ongkir", "total", "status", "items"})
	for _, o := range h.ledger.Orders() {
		var items []string
		for _, it := range o.Items {
			items = append(items, it.Name+" x"+strconv.Itoa(it.Qty))
		}
		cw.Write([]string{
			o.ID, o.Date, o.Name, o.Phone, o.Address, o.Payment,
			strconv.Itoa(o.Subtotal), strconv.Itoa(o.Shipping), strconv.Itoa(o.Total),
			string(o.Status), strings.Join(items, "; "),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error("orders CSV export failed", "error", err)
	}
}

type shippingRequest struct {
	FreeMin int `json:"freeMin"`
	Ongkir  int `json:"ongkir"`
}

func (h *HTTPHandler) SetShipping(w http.ResponseWriter, r *http.Request) {
	var req shippingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.settings.SetShipping(r.Context(), req.FreeMin, req.Ongkir); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvariant):
		status = http.StatusConflict
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
