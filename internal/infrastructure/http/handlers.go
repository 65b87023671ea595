package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rcarvalho-pb/biller_gateway-go/internal/application/orchestration"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/biller"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/transaction"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/domain/values"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/resilience"
	"github.com/rcarvalho-pb/biller_gateway-go/internal/threeds"
)

type TransactionHandler struct {
	Service *orchestration.Service
	Health  *resilience.HealthAggregator
}

// statusFor maps the error taxonomy to transport codes. The core itself
// never deals in HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, transaction.ErrPreviousNotFound):
		return http.StatusNotFound
	case errors.Is(err, transaction.ErrAlreadyProcessed),
		errors.Is(err, transaction.ErrIllegalStateTransition),
		errors.Is(err, transaction.ErrInvalidStatus):
		return http.StatusConflict
	case errors.Is(err, orchestration.ErrInvalidCommand),
		errors.Is(err, orchestration.ErrInvalidPayload),
		errors.Is(err, values.ErrInvalidCreditCardInformation),
		errors.Is(err, values.ErrMissingChargeInfo),
		errors.Is(err, values.ErrInvalidAmount),
		errors.Is(err, values.ErrInvalidCurrency),
		errors.Is(err, values.ErrInvalidRebillSchedule),
		errors.Is(err, transaction.ErrPreviousCorruptedData),
		errors.Is(err, threeds.ErrParesNotAllowed),
		errors.Is(err, threeds.ErrMissingToken),
		errors.Is(err, biller.ErrUnknownBiller),
		errors.Is(err, biller.ErrOperationNotSupported):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Never leak internals on unclassified failures.
		msg = "internal error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *TransactionHandler) NewSale(w http.ResponseWriter, r *http.Request) {
	var cmd orchestration.NewSaleCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, orchestration.ErrInvalidPayload)
		return
	}

	dtos, err := h.Service.NewSale(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos)
}

func (h *TransactionHandler) ExistingCardSale(w http.ResponseWriter, r *http.Request) {
	var cmd orchestration.ExistingCardSaleCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, orchestration.ErrInvalidPayload)
		return
	}

	dto, err := h.Service.ExistingCardSale(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

func (h *TransactionHandler) RebillUpdate(w http.ResponseWriter, r *http.Request) {
	var cmd orchestration.RebillUpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, orchestration.ErrInvalidPayload)
		return
	}
	cmd.Operation = r.PathValue("operation")

	dto, err := h.Service.RebillUpdate(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

func (h *TransactionHandler) ThreeDLookup(w http.ResponseWriter, r *http.Request) {
	var cmd orchestration.ThreeDLookupCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, orchestration.ErrInvalidPayload)
		return
	}

	dto, err := h.Service.ThreeDLookup(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

func (h *TransactionHandler) ThreeDComplete(w http.ResponseWriter, r *http.Request) {
	var cmd orchestration.ThreeDCompleteCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, orchestration.ErrInvalidPayload)
		return
	}
	cmd.TransactionID = r.PathValue("id")

	dto, err := h.Service.ThreeDComplete(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *TransactionHandler) Abort(w http.ResponseWriter, r *http.Request) {
	dto, err := h.Service.Abort(r.Context(), orchestration.AbortCommand{
		TransactionID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *TransactionHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	dto, err := h.Service.Retrieve(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *TransactionHandler) BillerHealth(w http.ResponseWriter, r *http.Request) {
	report, err := h.Health.Report()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
