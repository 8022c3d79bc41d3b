package security

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator compiles a set of named JSON schemas once at startup and
// validates request bodies against them per route.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles every schema in the map. Keys are the names
// handlers validate against.
func NewValidator(sources map[string]string) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(sources))}
	for name, src := range sources {
		compiler := jsonschema.NewCompiler()
		resource := name + ".json"
		if err := compiler.AddResource(resource, strings.NewReader(src)); err != nil {
			return nil, err
		}
		schema, err := compiler.Compile(resource)
		if err != nil {
			return nil, err
		}
		v.schemas[name] = schema
	}
	return v, nil
}

// Middleware validates the request body against the named schema before
// the handler runs. The body is restored for the handler to decode.
func (v *Validator) Middleware(name string) func(http.Handler) http.Handler {
	schema, ok := v.schemas[name]
	if !ok {
		panic("unknown request schema: " + name)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil {
				WriteJSONError(w, r, http.StatusBadRequest, "invalid_request")
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				var mbe *http.MaxBytesError
				if errors.As(err, &mbe) {
					WriteJSONError(w, r, http.StatusRequestEntityTooLarge, "payload_too_large")
					return
				}
				WriteJSONError(w, r, http.StatusBadRequest, "invalid_request")
				return
			}
			_ = r.Body.Close()

			var payload any
			dec := json.NewDecoder(bytes.NewReader(body))
			dec.UseNumber()
			if err := dec.Decode(&payload); err != nil {
				WriteJSONError(w, r, http.StatusBadRequest, "invalid_json")
				return
			}

			if err := schema.Validate(payload); err != nil {
				detail := ""
				var ve *jsonschema.ValidationError
				if errors.As(err, &ve) {
					detail = ve.Error()
				}
				WriteJSONErrorDetail(w, r, http.StatusBadRequest, "validation_error", detail)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
