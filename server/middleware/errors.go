package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/kbukum/opgate/errors"
)

func writeAppError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	_ = json.NewEncoder(w).Encode(err.ToResponse())
}
