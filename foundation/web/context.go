package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Context carries the request scoped values across the handler chain. The
// gin context is embedded so handlers keep access to the raw request.
type Context struct {
	*gin.Context
	Ctx context.Context

	paramErrs []FieldError
	queryErrs []FieldError
}

// GetParam reads a path parameter and converts it to the requested kind.
// Conversion failures are collected and surfaced by ValidParam.
func (c *Context) GetParam(kind reflect.Kind, name string) interface{} {
	value := c.Param(name)

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(value)
		if err != nil {
			c.paramErrs = append(c.paramErrs, FieldError{Field: name, Error: "must be an integer"})
			return 0
		}
		return v
	case reflect.String:
		if value == "" {
			c.paramErrs = append(c.paramErrs, FieldError{Field: name, Error: "is required"})
		}
		return value
	default:
		c.paramErrs = append(c.paramErrs, FieldError{Field: name, Error: fmt.Sprintf("unsupported kind %s", kind)})
		return nil
	}
}

// ValidParam reports any path parameter conversion error collected so far.
func (c *Context) ValidParam() error {
	if len(c.paramErrs) == 0 {
		return nil
	}
	return &Error{
		Err:    errors.New("invalid path parameters"),
		Status: http.StatusBadRequest,
		Fields: c.paramErrs,
	}
}

// GetQueryFunc reads an optional query parameter and returns a typed pointer.
// A missing parameter yields a typed nil pointer so the caller's assignment
// is a no-op. Conversion failures are surfaced by ValidQuery.
func (c *Context) GetQueryFunc(kind reflect.Kind, name string) interface{} {
	value, ok := c.GetQuery(name)

	switch kind {
	case reflect.Int:
		if !ok || value == "" {
			return (*int)(nil)
		}
		v, err := strconv.Atoi(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, FieldError{Field: name, Error: "must be an integer"})
			return (*int)(nil)
		}
		return &v
	case reflect.Bool:
		if !ok || value == "" {
			return (*bool)(nil)
		}
		v, err := strconv.ParseBool(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, FieldError{Field: name, Error: "must be a boolean"})
			return (*bool)(nil)
		}
		return &v
	case reflect.String:
		if !ok || value == "" {
			return (*string)(nil)
		}
		return &value
	default:
		c.queryErrs = append(c.queryErrs, FieldError{Field: name, Error: fmt.Sprintf("unsupported kind %s", kind)})
		return nil
	}
}

// ValidQuery reports any query parameter conversion error collected so far.
func (c *Context) ValidQuery() error {
	if len(c.queryErrs) == 0 {
		return nil
	}
	return &Error{
		Err:    errors.New("invalid query parameters"),
		Status: http.StatusBadRequest,
		Fields: c.queryErrs,
	}
}

// BindFunc decodes the request body into v and checks that the named struct
// fields are present (non nil / non zero).
func (c *Context) BindFunc(v interface{}, requiredFields ...string) error {
	if err := c.ShouldBind(v); err != nil {
		return &Error{
			Err:    errors.Wrap(err, "decoding request body"),
			Status: http.StatusBadRequest,
		}
	}

	return requireFields(v, requiredFields...)
}

func requireFields(v interface{}, requiredFields ...string) error {
	if len(requiredFields) == 0 {
		return nil
	}

	value := reflect.ValueOf(v)
	for value.Kind() == reflect.Ptr {
		value = value.Elem()
	}

	var fields []FieldError
	for _, name := range requiredFields {
		field := value.FieldByName(name)
		if !field.IsValid() {
			fields = append(fields, FieldError{Field: name, Error: "unknown field"})
			continue
		}
		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				fields = append(fields, FieldError{Field: name, Error: "is required"})
			}
			continue
		}
		if field.IsZero() {
			fields = append(fields, FieldError{Field: name, Error: "is required"})
		}
	}

	if len(fields) > 0 {
		return &Error{
			Err:    errors.New("required fields are missing"),
			Status: http.StatusBadRequest,
			Fields: fields,
		}
	}

	return nil
}

// Respond sends a JSON response with the given status code.
func (c *Context) Respond(data interface{}, status int) error {
	c.JSON(status, data)
	return nil
}

// RespondError translates an application error into a JSON error response.
// A *web.Error carries its own status; anything else is a 500.
func (c *Context) RespondError(err error) error {
	var webErr *Error
	if errors.As(err, &webErr) {
		body := gin.H{
			"message": webErr.Error(),
			"status":  false,
		}
		if len(webErr.Fields) > 0 {
			body["fields"] = webErr.Fields
		}
		c.JSON(webErr.Status, body)
		return nil
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "internal server error",
		"error":   err.Error(),
		"status":  false,
	})
	return nil
}
