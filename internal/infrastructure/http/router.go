package httpapi

import "net/http"

func NewRouter(h *TransactionHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /sales", h.NewSale)
	mux.HandleFunc("POST /sales/existing-card", h.ExistingCardSale)
	mux.HandleFunc("POST /rebills/{operation}", h.RebillUpdate)
	mux.HandleFunc("POST /threeds/lookups", h.ThreeDLookup)
	mux.HandleFunc("POST /transactions/{id}/threeds/complete", h.ThreeDComplete)
	mux.HandleFunc("POST /transactions/{id}/abort", h.Abort)
	mux.HandleFunc("GET /transactions/{id}", h.Retrieve)
	mux.HandleFunc("GET /health/billers", h.BillerHealth)

	return mux
}
