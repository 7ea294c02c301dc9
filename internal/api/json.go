package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/starford/balestra/internal/apperr"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error  string              `json:"error"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps err to a status code and error body. Unexpected errors are
// logged under op and reported as "internal error".
func writeError(w http.ResponseWriter, op string, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errResponse{Error: "validation failed", Fields: verr.Errors})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody("already exists"))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody("conflict"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// decodeJSON reads a single JSON object from the request body into dst.
//
// Values of the wrong type are reported as field errors, one per offending
// top-level key of dst. Inside nested values only the first mismatch is
// reported. Anything after the object other than whitespace is rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.NewValidationError("body", "request body too large")
		}
		return apperr.NewValidationError("body", "invalid JSON body")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	err = dec.Decode(dst)
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		if verr := fieldTypeErrors(data, dst); verr != nil {
			return verr
		}
		return apperr.NewValidationError(typeErr.Field, typeMessage(typeErr.Type))
	case err != nil:
		return apperr.NewValidationError("body", "invalid JSON body")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return apperr.NewValidationError("body", "unexpected data after JSON object")
	}
	return nil
}

// fieldTypeErrors checks every top-level key of the object in data against
// the matching field of the struct dst points to. It returns nil when dst is
// not a struct pointer or no top-level field has the wrong type.
func fieldTypeErrors(data []byte, dst any) *apperr.ValidationError {
	t := reflect.TypeOf(dst)
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	verr := &apperr.ValidationError{}
	st := t.Elem()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if !f.IsExported() || name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		value, ok := lookupKey(raw, name)
		if !ok {
			continue
		}
		var typeErr *json.UnmarshalTypeError
		if err := json.Unmarshal(value, reflect.New(f.Type).Interface()); errors.As(err, &typeErr) {
			fe := apperr.FieldError{Field: name, Message: typeMessage(f.Type)}
			if typeErr.Field != "" {
				fe = apperr.FieldError{Field: name + "." + typeErr.Field, Message: typeMessage(typeErr.Type)}
			}
			verr.Errors = append(verr.Errors, fe)
		}
	}
	if len(verr.Errors) == 0 {
		return nil
	}
	return verr
}

// lookupKey finds name in raw, preferring an exact match and otherwise
// matching case-insensitively like encoding/json does.
func lookupKey(raw map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if v, ok := raw[name]; ok {
		return v, true
	}
	for k, v := range raw {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func typeMessage(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int64:
		return "must be a whole number"
	case reflect.Float64:
		return "must be a number"
	case reflect.String:
		return "must be a string"
	case reflect.Bool:
		return "must be true or false"
	}
	return "has the wrong type"
}
