// Package statements exposes the reconstruction engine over HTTP for
// interactive review tooling.
package statements

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"sec_reconstructor/pkg/core/reconstruct"
	"sec_reconstructor/pkg/core/validate"
)

var (
	engine    *reconstruct.Engine
	validator *validate.Validator
)

// InitHandler wires the handlers to a reconstruction engine.
func InitHandler(e *reconstruct.Engine) {
	engine = e
	validator = validate.NewValidator(e)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func allowCORS(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func pinFromQuery(r *http.Request) reconstruct.ResolvedContext {
	pin := reconstruct.ResolvedContext{DDate: r.URL.Query().Get("ddate")}
	if q := r.URL.Query().Get("qtrs"); q != "" {
		if n, err := strconv.Atoi(q); err == nil {
			pin.Qtrs = &n
		}
	}
	return pin
}

// HandleReconstruct serves GET /api/statements/reconstruct?adsh=&stmt=
// with optional ddate/qtrs pinning.
func HandleReconstruct(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r, "GET") {
		return
	}
	adsh := r.URL.Query().Get("adsh")
	stmt := r.URL.Query().Get("stmt")
	if adsh == "" || stmt == "" {
		http.Error(w, "adsh and stmt query parameters are required", http.StatusBadRequest)
		return
	}

	rows := engine.ReconstructStatement(adsh, stmt, pinFromQuery(r))
	if rows == nil {
		rows = []reconstruct.StatementRow{}
	}
	writeJSON(w, map[string]interface{}{
		"adsh": adsh,
		"stmt": stmt,
		"rows": rows,
	})
}

// HandleCoverage serves GET /api/statements/coverage?adsh=&stmt=.
func HandleCoverage(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r, "GET") {
		return
	}
	adsh := r.URL.Query().Get("adsh")
	stmt := r.URL.Query().Get("stmt")
	if adsh == "" || stmt == "" {
		http.Error(w, "adsh and stmt query parameters are required", http.StatusBadRequest)
		return
	}
	writeJSON(w, engine.Coverage(adsh, stmt))
}

func statementCodes(raw string) []string {
	if raw == "" {
		return nil
	}
	var codes []string
	for _, code := range strings.Split(raw, ",") {
		code = strings.TrimSpace(code)
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// HandleValidate serves GET /api/statements/validate?adsh=&statements=BS,IS.
func HandleValidate(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r, "GET") {
		return
	}
	adsh := r.URL.Query().Get("adsh")
	if adsh == "" {
		http.Error(w, "adsh query parameter is required", http.StatusBadRequest)
		return
	}
	codes := statementCodes(r.URL.Query().Get("statements"))
	writeJSON(w, validator.ValidateFiling(adsh, codes))
}

// BatchRequest is the POST body for batch validation.
type BatchRequest struct {
	AdshList   []string `json:"adsh_list"`
	Statements []string `json:"statements"`
}

// HandleValidateBatch serves POST /api/statements/validate-batch.
func HandleValidateBatch(w http.ResponseWriter, r *http.Request) {
	if allowCORS(w, r, "POST") {
		return
	}
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.AdshList) == 0 {
		http.Error(w, "adsh_list must not be empty", http.StatusBadRequest)
		return
	}

	batch := validator.ValidateBatch(r.Context(), req.AdshList, req.Statements)
	writeJSON(w, map[string]interface{}{
		"batch":      batch,
		"scoreboard": validate.Summarize(batch),
	})
}
