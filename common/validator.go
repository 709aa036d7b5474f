package common

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// DecodeJSON decodes the request body into payload. A malformed body is
// reported as a server error carrying the decoder message.
func DecodeJSON(r *http.Request, payload interface{}) *AppError {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return NewAppError(http.StatusInternalServerError, "Invalid request body", err)
	}
	return nil
}

// ParseObjectID checks that raw is a 24 character hex ObjectID and converts it.
func ParseObjectID(raw string) (primitive.ObjectID, error) {
	if err := validate.Var(raw, "required,mongodb"); err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid object id %q", raw)
	}
	return primitive.ObjectIDFromHex(raw)
}
