package handler

import (
	"net/http"

	"github.com/KyubiGames/autoenvios-ml/internal/xhttp"
)

// HandleRoot handles GET / liveness checks.
func HandleRoot(w http.ResponseWriter, _ *http.Request) {
	xhttp.WriteText(w, http.StatusOK, "Autoenvíos Mercado Libre funcionando ✔️")
}

func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	xhttp.WriteText(w, http.StatusOK, "ok")
}
