package adaptor

import (
	"net/http"

	"hospital-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// uuidParam reads a UUID path parameter, writing a 400 when it is malformed.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name, map[string]string{name: "Must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}
