// Package rest is the HTTP surface over the catalog, cart, wallet and
// checkout services. JSON in, JSON out; domain errors map to statuses in
// errors.go.
package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	cartapp "github.com/shoplite/retail-checkout/internal/cart/app"
	cartdomain "github.com/shoplite/retail-checkout/internal/cart/domain"
	catalogapp "github.com/shoplite/retail-checkout/internal/catalog/app"
	catalogdomain "github.com/shoplite/retail-checkout/internal/catalog/domain"
	checkoutapp "github.com/shoplite/retail-checkout/internal/checkout/app"
	checkoutdomain "github.com/shoplite/retail-checkout/internal/checkout/domain"
	walletapp "github.com/shoplite/retail-checkout/internal/wallet/app"
	walletdomain "github.com/shoplite/retail-checkout/internal/wallet/domain"
)

type Server struct {
	catalog  *catalogapp.Service
	carts    *cartapp.Service
	wallet   *walletapp.Service
	checkout *checkoutapp.Service
	log      *slog.Logger
}

func NewServer(catalog *catalogapp.Service, carts *cartapp.Service, wallet *walletapp.Service, checkout *checkoutapp.Service, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		catalog:  catalog,
		carts:    carts,
		wallet:   wallet,
		checkout: checkout,
		log:      log,
	}
}

func (s *Server) Routes(r *mux.Router) {
	r.HandleFunc("/products", s.createProduct).Methods(http.MethodPost)
	r.HandleFunc("/products", s.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{name}", s.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{name}/stock", s.setStock).Methods(http.MethodPut)

	r.HandleFunc("/customers", s.registerCustomer).Methods(http.MethodPost)
	r.HandleFunc("/customers/{id}", s.getCustomer).Methods(http.MethodGet)

	r.HandleFunc("/carts", s.createCart).Methods(http.MethodPost)
	r.HandleFunc("/carts/{id}", s.getCart).Methods(http.MethodGet)
	r.HandleFunc("/carts/{id}/items", s.addItem).Methods(http.MethodPost)

	r.HandleFunc("/checkout", s.doCheckout).Methods(http.MethodPost)
}

// --- request / response shapes ---

type createProductReq struct {
	Name       string          `json:"name"`
	Kind       string          `json:"kind"`
	Price      decimal.Decimal `json:"price"`
	Stock      int64           `json:"stock"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	Shippable  bool            `json:"shippable,omitempty"`
	UnitWeight decimal.Decimal `json:"unit_weight"`
}

type setStockReq struct {
	Stock int64 `json:"stock"`
}

type registerCustomerReq struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type createCartReq struct {
	CustomerID string `json:"customer_id"`
}

type addItemReq struct {
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
}

type checkoutReq struct {
	CustomerID string `json:"customer_id"`
	CartID     string `json:"cart_id"`
}

type productResp struct {
	Name       string          `json:"name"`
	Kind       string          `json:"kind"`
	Price      decimal.Decimal `json:"price"`
	Stock      int64           `json:"stock"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	Shippable  bool            `json:"shippable"`
	UnitWeight decimal.Decimal `json:"unit_weight"`
}

type customerResp struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type cartItemResp struct {
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type cartResp struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Status     string          `json:"status"`
	Items      []cartItemResp  `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type receiptLineResp struct {
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type shipmentLineResp struct {
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	Grams       int64  `json:"grams"`
}

type receiptResp struct {
	CartID       string             `json:"cart_id"`
	CustomerID   string             `json:"customer_id"`
	Lines        []receiptLineResp  `json:"lines"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	ShippingFee  decimal.Decimal    `json:"shipping_fee"`
	Total        decimal.Decimal    `json:"total"`
	BalanceAfter decimal.Decimal    `json:"balance_after"`
	Shipment     []shipmentLineResp `json:"shipment,omitempty"`
	TotalWeight  decimal.Decimal    `json:"total_weight"`
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeErr(w http.ResponseWriter, err error) {
	code, label := statusFromErr(err)
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", slog.Any("err", err))
	}
	writeJSON(w, code, map[string]string{"code": label, "error": err.Error()})
}

// --- handlers ---

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"code": "INVALID_INPUT", "error": "invalid json"})
		return
	}

	var (
		p   catalogdomain.Product
		err error
	)
	switch catalogdomain.Kind(req.Kind) {
	case catalogdomain.KindExpirable:
		var expiresAt time.Time
		if req.ExpiresAt != nil {
			expiresAt = *req.ExpiresAt
		}
		p, err = s.catalog.CreateExpirable(r.Context(), req.Name, req.Price, req.Stock, expiresAt, req.UnitWeight)
	case catalogdomain.KindNonExpirable:
		p, err = s.catalog.CreateNonExpirable(r.Context(), req.Name, req.Price, req.Stock, req.Shippable, req.UnitWeight)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"code": "INVALID_INPUT", "error": "unknown product kind"})
		return
	}
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResp(p))
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := make([]productResp, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResp(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Get(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResp(p))
}

func (s *Server) setStock(w http.ResponseWriter, r *http.Request) {
	var req setStockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"code": "INVALID_INPUT", "error": "invalid json"})
		return
	}
	p, err := s.catalog.SetStock(r.Context(), mux.Vars(r)["name"], req.Stock)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResp(p))
}

func (s *Server) registerCustomer(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"code": "INVALID_INPUT", "error": "invalid json"})
		return
	}
	c, err := s.wallet.Register(r.Context(), req.Name, req.Balance)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerResp(c))
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := s.wallet.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResp(c))
}

func (s *Server) createCart(w http.ResponseWriter, r *http.Request) {
	var req createCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"code": "INVALID_INPUT", "error": "invalid json"})
		return
	}
	if _, err := s.wallet.Get(r.Context(), req.CustomerID); err != nil {
		s.writeErr(w, err)
		return
	}
	cart, err := s.carts.Create(r.Context(), req.CustomerID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCartResp(cart))
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := s.carts.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResp(cart))
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"code": "INVALID_INPUT", "error": "invalid json"})
		return
	}
	cart, err := s.carts.AddItem(r.Context(), mux.Vars(r)["id"], req.ProductName, req.Quantity)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResp(cart))
}

func (s *Server) doCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"code": "INVALID_INPUT", "error": "invalid json"})
		return
	}
	receipt, err := s.checkout.Checkout(r.Context(), req.CustomerID, req.CartID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReceiptResp(receipt))
}

// --- converters ---

func toProductResp(p catalogdomain.Product) productResp {
	out := productResp{
		Name:       p.Name,
		Kind:       string(p.Kind),
		Price:      p.Price,
		Stock:      p.Stock,
		Shippable:  p.NeedsShipping(),
		UnitWeight: p.UnitWeight,
	}
	if p.Kind == catalogdomain.KindExpirable {
		expiresAt := p.ExpiresAt
		out.ExpiresAt = &expiresAt
	}
	return out
}

func toCustomerResp(c walletdomain.Customer) customerResp {
	return customerResp{
		ID:      c.ID,
		Name:    c.Name,
		Balance: c.Balance,
	}
}

func toCartResp(cart cartdomain.Cart) cartResp {
	items := make([]cartItemResp, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, cartItemResp{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal(),
		})
	}
	return cartResp{
		ID:         cart.ID,
		CustomerID: cart.CustomerID,
		Status:     cart.Status,
		Items:      items,
		Subtotal:   cart.Subtotal(),
	}
}

func toReceiptResp(r checkoutdomain.Receipt) receiptResp {
	lines := make([]receiptLineResp, 0, len(r.Lines))
	for _, ln := range r.Lines {
		lines = append(lines, receiptLineResp{
			ProductName: ln.ProductName,
			Quantity:    ln.Quantity,
			UnitPrice:   ln.UnitPrice,
			LineTotal:   ln.LineTotal,
		})
	}
	shipment := make([]shipmentLineResp, 0, len(r.Shipment.Lines))
	for _, ln := range r.Shipment.Lines {
		shipment = append(shipment, shipmentLineResp{
			ProductName: ln.Name,
			Quantity:    ln.Quantity,
			Grams:       ln.Grams,
		})
	}
	return receiptResp{
		CartID:       r.CartID,
		CustomerID:   r.CustomerID,
		Lines:        lines,
		Subtotal:     r.Subtotal,
		ShippingFee:  r.ShippingFee,
		Total:        r.Total,
		BalanceAfter: r.BalanceAfter,
		Shipment:     shipment,
		TotalWeight:  r.Shipment.TotalWeight,
	}
}
