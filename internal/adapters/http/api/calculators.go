package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	service "github.com/resicentral/resicentral/internal/app"
	"github.com/resicentral/resicentral/internal/domain/calculator"
)

const maxEvaluateBody = 64 << 10

// CalculatorsHandler serves the calculator catalog and evaluations.
type CalculatorsHandler struct {
	deps Dependencies
}

// NewCalculatorsHandler creates a new calculators handler.
func NewCalculatorsHandler(deps Dependencies) *CalculatorsHandler {
	return &CalculatorsHandler{deps: deps}
}

// HandleList handles GET /calculators?category=&q= requests.
func (h *CalculatorsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list := h.deps.ListCalculators(calculator.Filter{
		Category: q.Get("category"),
		Search:   q.Get("q"),
	})
	writeJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /calculators/{key} requests.
func (h *CalculatorsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	detail, err := h.deps.Calculator(r.PathValue("key"))
	if err != nil {
		writeError(w, r, Wrap("get calculator", err))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// HandleCategories handles GET /categories requests.
func (h *CalculatorsHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Categories())
}

// evaluateRequest mirrors the OpenAPI schema for POST /calculators/{key}/evaluate.
type evaluateRequest struct {
	Inputs map[string]any `json:"inputs"`
}

// HandleEvaluate handles POST /calculators/{key}/evaluate requests.
func (h *CalculatorsHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	body, err := decodeEvaluate(w, r)
	if err != nil {
		writeError(w, r, Wrap("decode request", err))
		return
	}

	ev, err := h.deps.Evaluate(r.Context(), service.EvaluateRequest{
		UserID:         r.Header.Get(HeaderUserID),
		Calculator:     r.PathValue("key"),
		Inputs:         body.Inputs,
		IdempotencyKey: r.Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		writeError(w, r, Wrap("evaluate", err))
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func decodeEvaluate(w http.ResponseWriter, r *http.Request) (evaluateRequest, error) {
	var body evaluateRequest
	if r.Body == nil || r.ContentLength == 0 {
		return body, fmt.Errorf("%w: empty body", ErrBadRequest)
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEvaluateBody))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return body, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		return body, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if body.Inputs == nil {
		body.Inputs = map[string]any{}
	}
	return body, nil
}
