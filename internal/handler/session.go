package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pesanmeja/api/internal/auth"
)

// SessionHandler mints table session tokens when a customer scans a table's
// QR code. The token gates that table's event stream only.
type SessionHandler struct {
	jwtSecret string
	log       *zap.Logger
}

func NewSessionHandler(jwtSecret string, log *zap.Logger) *SessionHandler {
	return &SessionHandler{jwtSecret: jwtSecret, log: log}
}

type sessionResponse struct {
	Token       string    `json:"token"`
	TableNumber int       `json:"tableNumber"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Create handles POST /api/tables/{tableNumber}/session.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	tableNumber, err := strconv.Atoi(chi.URLParam(r, "tableNumber"))
	if err != nil || tableNumber <= 0 {
		writeErrorMsg(w, http.StatusBadRequest, "invalid table number")
		return
	}

	token, expiresAt, err := auth.GenerateTableToken(h.jwtSecret, tableNumber)
	if err != nil {
		h.log.Error("generate table token", zap.Error(err))
		writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		Token:       token,
		TableNumber: tableNumber,
		ExpiresAt:   expiresAt,
	})
}
