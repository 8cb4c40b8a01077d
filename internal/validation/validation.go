// Package validation gates product payloads before they reach the store.
// Only field presence and field names are checked; values are not.
package validation

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CreateRequiredFields lists the keys a create payload must carry.
var CreateRequiredFields = []string{"name", "price", "quantity", "description", "category", "date_added", "image_url"}

// MutableFields lists the keys an update payload may carry.
var MutableFields = []string{"name", "price", "quantity", "description", "category", "date_added", "image_url"}

// InvalidFieldsMessage is returned when an update payload carries a key outside MutableFields.
const InvalidFieldsMessage = "Invalid field(s) in request."

var validate = validator.New()

// ValidateRequiredFields checks that every required name is a key of data.
// All missing names are reported together, in the order of required.
func ValidateRequiredFields(data map[string]json.RawMessage, required []string) (bool, string) {
	var missing []string
	for _, field := range required {
		if _, ok := data[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return false, fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", "))
	}
	return true, ""
}

// ValidateAllowedFields checks that every key of data is one of allowed.
func ValidateAllowedFields(data map[string]json.RawMessage, allowed []string) (bool, string) {
	rule := "oneof=" + strings.Join(allowed, " ")
	for key := range data {
		if err := validate.Var(key, rule); err != nil {
			return false, InvalidFieldsMessage
		}
	}
	return true, ""
}

// UnknownFields returns the keys of data outside allowed, sorted. Used for logging rejected payloads.
func UnknownFields(data map[string]json.RawMessage, allowed []string) []string {
	var unknown []string
	for key := range data {
		if !slices.Contains(allowed, key) {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)
	return unknown
}
