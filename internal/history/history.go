package history

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"Solids/internal/auth"
	"Solids/internal/calc/solid"
	"Solids/internal/repo"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type HistoryHandler struct {
	Repo repo.Repository
	Log  *zap.Logger
}

// Entry is a saved calculation together with how it renders in its mode.
type Entry struct {
	repo.Calculation
	Outcome solid.Outcome `json:"outcome"`
}

func NewEntry(c repo.Calculation) Entry {
	res := solid.Result{Volume: orNaN(c.Volume), SurfaceArea: orNaN(c.SurfaceArea)}
	out := solid.Render(solid.Mode(c.Mode), res)
	out.Shape = solid.Shape(c.Shape)
	return Entry{Calculation: c, Outcome: out}
}

func (h *HistoryHandler) log() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

// Save computes a calculation and stores it for the current user. Rejected
// input is answered like the calculator does and nothing is stored.
func (h *HistoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input solid.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, mode, err := solid.Evaluate(input)
	if err != nil {
		http.Error(w, solid.Message(err), http.StatusBadRequest)
		return
	}

	c := repo.Calculation{
		UserID:      userID,
		Shape:       string(input.Shape),
		Mode:        string(mode),
		Values:      input.Values,
		Volume:      &res.Volume,
		SurfaceArea: &res.SurfaceArea,
	}
	if c.Values == nil {
		c.Values = map[string]string{}
	}
	if err := h.Repo.SaveCalculation(r.Context(), &c); err != nil {
		h.log().Error("save calculation", zap.Int("user_id", userID), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	c.Volume = finite(res.Volume)
	c.SurfaceArea = finite(res.SurfaceArea)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(NewEntry(c))
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLimit)
	}

	calcs, err := h.Repo.ListCalculations(r.Context(), userID, limit)
	if err != nil {
		h.log().Error("list calculations", zap.Int("user_id", userID), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	entries := make([]Entry, 0, len(calcs))
	for _, c := range calcs {
		entries = append(entries, NewEntry(c))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.target(w, r)
	if !ok {
		return
	}
	c, err := h.Repo.GetCalculation(r.Context(), userID, id)
	if err != nil {
		h.fail(w, err, "get calculation", userID)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(NewEntry(c))
}

func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.target(w, r)
	if !ok {
		return
	}
	if err := h.Repo.DeleteCalculation(r.Context(), userID, id); err != nil {
		h.fail(w, err, "delete calculation", userID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HistoryHandler) target(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, id, true
}

func (h *HistoryHandler) fail(w http.ResponseWriter, err error, op string, userID int) {
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Calculation not found", http.StatusNotFound)
		return
	}
	h.log().Error(op, zap.Int("user_id", userID), zap.Error(err))
	http.Error(w, "DB error", http.StatusInternalServerError)
}

func orNaN(x *float64) float64 {
	if x == nil {
		return math.NaN()
	}
	return *x
}

func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}
