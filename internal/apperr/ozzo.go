package apperr

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FromValidation converts an ozzo-validation result into a *ValidationError.
// Fields listed in order come first, in that order; the rest follow sorted by
// name. Internal validation errors and non-validation errors are returned
// unchanged, and a nil err yields nil.
func FromValidation(err error, order ...string) error {
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	flat := map[string]string{}
	flatten("", errs, flat)

	rank := make(map[string]int, len(order))
	for i, f := range order {
		rank[f] = i
	}
	fields := make([]string, 0, len(flat))
	for f := range flat {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		ri, iok := rank[fields[i]]
		rj, jok := rank[fields[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return fields[i] < fields[j]
		}
	})

	out := &ValidationError{Errors: make([]FieldError, 0, len(fields))}
	for _, f := range fields {
		out.Errors = append(out.Errors, FieldError{Field: f, Message: flat[f]})
	}
	return out
}

func flatten(prefix string, errs validation.Errors, out map[string]string) {
	for name, err := range errs {
		if err == nil {
			continue
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(key, nested, out)
			continue
		}
		out[key] = err.Error()
	}
}
