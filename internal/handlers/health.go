package handlers

import (
	"net/http"

	"github.com/harari-inventory/apiserver/internal/logger"
	"github.com/harari-inventory/apiserver/internal/sheets"
)

// Healthz reports liveness without touching the spreadsheet.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type ConnectionResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message,omitempty"`
	SpreadsheetTitle string `json:"spreadsheetTitle,omitempty"`
	SpreadsheetID    string `json:"spreadsheetId,omitempty"`
	Error            string `json:"error,omitempty"`
	Details          string `json:"details,omitempty"`
}

// TestConnection probes the spreadsheet by reading its title.
func TestConnection(client *sheets.Client, log *logger.Logger) http.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		title, err := client.Title(r.Context())
		if err != nil {
			log.Error(r.Context(), "sheets.connection_failed", err)
			writeJSON(w, http.StatusInternalServerError, ConnectionResponse{
				Error:   "스프레드시트 연결 실패",
				Details: err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, ConnectionResponse{
			Success:          true,
			Message:          "스프레드시트 연결 성공",
			SpreadsheetTitle: title,
			SpreadsheetID:    client.SpreadsheetID(),
		})
	}
}
