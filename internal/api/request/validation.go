package request

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/edvin/governance/internal/registry"
)

var validate = validator.New()

// registry_name accepts any name usable as one registry path segment, which
// covers every instance, schema and data source name the registry can list.
func init() {
	validate.RegisterValidation("registry_name", func(fl validator.FieldLevel) bool {
		return registry.ValidateName(fl.Field().String()) == nil
	})
}

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// RequireName validates a URL path parameter naming a registry node.
func RequireName(param, s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing required %s", param)
	}
	if registry.ValidateName(s) != nil {
		return "", fmt.Errorf("invalid %s %q", param, s)
	}
	return s, nil
}
