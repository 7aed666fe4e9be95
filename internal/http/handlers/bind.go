package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError is one entry of details.fields in a 400 response.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// BindJSON decodes and validates the body into out, answering the request
// itself on failure.
func BindJSON(ctx *gin.Context, out any) bool {
	err := ctx.ShouldBindJSON(out)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		RespondError(ctx, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body is too large", gin.H{"limit": tooLarge.Limit})
	case errors.Is(err, io.EOF):
		RespondBadRequest(ctx, "Request body is required", nil)
	default:
		RespondBadRequest(ctx, "Invalid request body", bodyErrorDetails(err, out))
	}

	return false
}

// BindQuery binds and validates the query string. Malformed numbers fail
// here instead of silently falling back to defaults, while blank parameters
// such as max_price= count as absent.
func BindQuery(ctx *gin.Context, out any) bool {
	dropBlankParams(ctx.Request)

	err := ctx.ShouldBindQuery(out)
	if err == nil {
		return true
	}

	RespondBadRequest(ctx, "Invalid query parameters", queryErrorDetails(err, out))
	return false
}

// gin binds an empty value as the zero of the field type, which would turn
// ?max_price= into a price cap of 0.
func dropBlankParams(req *http.Request) {
	q := req.URL.Query()
	changed := false

	for key, values := range q {
		blank := true
		for _, v := range values {
			if strings.TrimSpace(v) != "" {
				blank = false
				break
			}
		}
		if blank {
			q.Del(key)
			changed = true
		}
	}

	if changed {
		req.URL.RawQuery = q.Encode()
	}
}

func bodyErrorDetails(err error, out any) any {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return gin.H{"fields": fieldErrors(validationErrs, baseStructType(out), "json")}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return gin.H{"json": "invalid_json_syntax", "offset": syntaxErr.Offset}
	}

	// Field is already the JSON key path, e.g. "price" or "images.0"
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := strings.TrimSpace(typeErr.Field)

		return gin.H{
			"json":  "invalid_json_type",
			"field": field,
			"fields": []FieldError{{
				Field:   field,
				Rule:    "type",
				Message: "must be of type " + typeErr.Type.String(),
			}},
		}
	}

	return gin.H{"reason": err.Error()}
}

func queryErrorDetails(err error, out any) any {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return gin.H{"fields": fieldErrors(validationErrs, baseStructType(out), "form")}
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return gin.H{
			"query":  "invalid_number",
			"value":  numErr.Num,
			"reason": "must be a number",
		}
	}

	return gin.H{"reason": err.Error()}
}

func fieldErrors(errs validator.ValidationErrors, root reflect.Type, tagKey string) []FieldError {
	out := make([]FieldError, 0, len(errs))

	for _, fe := range errs {
		out = append(out, FieldError{
			Field:   fieldPath(root, fe, tagKey),
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: validationMessage(fe.Tag(), fe.Param()),
		})
	}

	return out
}

// fieldPath renames the struct field behind fe to its wire name under tagKey,
// keeping any element index ("Images[2]" -> "images[2]"). Request types are
// flat, so only the first level below the root is mapped.
func fieldPath(root reflect.Type, fe validator.FieldError, tagKey string) string {
	_, rest, ok := strings.Cut(fe.StructNamespace(), ".")
	if !ok || root == nil {
		return fe.Field()
	}

	name, index, hasIndex := strings.Cut(rest, "[")

	sf, found := root.FieldByName(name)
	if !found {
		return fe.Field()
	}

	wire := sf.Name
	if tag, _, _ := strings.Cut(sf.Tag.Get(tagKey), ","); tag != "" && tag != "-" {
		wire = tag
	}

	if hasIndex {
		wire += "[" + index
	}
	return wire
}

func baseStructType(v any) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "len":
		return "must be exactly " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
