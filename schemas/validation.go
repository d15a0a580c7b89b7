package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"tasktracker/models"
)

// Error codes of the API error body.
const (
	CodeTaskNotFound        = "TASK_NOT_FOUND"
	CodeTaskValidationError = "TASK_VALIDATION_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
)

// List paging defaults and the server-side cap on limit.
const (
	DefaultSkip  = 0
	DefaultLimit = 100
	MaxLimit     = 1000
)

const maxBodyBytes = 1 << 20

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of 4xx/5xx responses other than 422.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// ValidationIssue is one violation: where it is, what is wrong, and the
// failed constraint.
type ValidationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationErrorResponse is the 422 body.
type ValidationErrorResponse struct {
	Detail []ValidationIssue `json:"detail"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("task_title", fmt.Sprintf("min=1,max=%d", models.TitleMaxLength))
	return v
}

// Validate checks v against its validate tags. Issues are located under
// "body".
func Validate(v any) []ValidationIssue {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationIssue{{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"}}
	}

	issues := make([]ValidationIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, ValidationIssue{
			Loc:  []string{"body", fe.Field()},
			Msg:  fieldMessage(fe),
			Type: fieldType(fe),
		})
	}
	return issues
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "Field required"
	case "min":
		return fmt.Sprintf("String should have at least %s character(s)", fe.Param())
	case "max":
		return fmt.Sprintf("String should have at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q constraint", fe.ActualTag())
	}
}

func fieldType(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "missing"
	case "min":
		return "string_too_short"
	case "max":
		return "string_too_long"
	default:
		return fe.ActualTag()
	}
}

// DecodeJSON reads the request body into v and validates it. Unknown fields
// are ignored.
func DecodeJSON(r *http.Request, v any) []ValidationIssue {
	defer r.Body.Close()

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return []ValidationIssue{decodeIssue(err)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return []ValidationIssue{{Loc: []string{"body"}, Msg: "JSON decode error: multiple JSON values", Type: "json_invalid"}}
	}
	return Validate(v)
}

func decodeIssue(err error) ValidationIssue {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return ValidationIssue{Loc: []string{"body"}, Msg: "Field required", Type: "missing"}
	case errors.As(err, &typeErr):
		loc := []string{"body"}
		if typeErr.Field != "" {
			loc = append(loc, strings.Split(typeErr.Field, ".")...)
		}
		return ValidationIssue{
			Loc:  loc,
			Msg:  fmt.Sprintf("Input should be a valid %s", jsonTypeName(typeErr.Type.Kind().String())),
			Type: "type_error",
		}
	case errors.As(err, &syntaxErr):
		return ValidationIssue{Loc: []string{"body"}, Msg: "JSON decode error: " + syntaxErr.Error(), Type: "json_invalid"}
	default:
		return ValidationIssue{Loc: []string{"body"}, Msg: "JSON decode error: " + err.Error(), Type: "json_invalid"}
	}
}

func jsonTypeName(kind string) string {
	switch kind {
	case "bool":
		return "boolean"
	case "struct", "map":
		return "object"
	case "slice", "array":
		return "array"
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		return "integer"
	case "float32", "float64":
		return "number"
	default:
		return kind
	}
}

// ListParams are the query parameters of GET /tasks.
type ListParams struct {
	Skip      int
	Limit     int
	Completed *bool
}

// ParseListParams reads skip, limit and completed. Limit is clamped to
// MaxLimit rather than rejected.
func ParseListParams(q map[string][]string) (ListParams, []ValidationIssue) {
	params := ListParams{Skip: DefaultSkip, Limit: DefaultLimit}
	var issues []ValidationIssue

	if v, ok := queryValue(q, "skip"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		switch {
		case err != nil:
			issues = append(issues, integerIssue("query", "skip"))
		case n < 0:
			issues = append(issues, nonNegativeIssue("skip"))
		default:
			params.Skip = n
		}
	}

	if v, ok := queryValue(q, "limit"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		switch {
		case err != nil:
			issues = append(issues, integerIssue("query", "limit"))
		case n < 0:
			issues = append(issues, nonNegativeIssue("limit"))
		default:
			params.Limit = min(n, MaxLimit)
		}
	}

	if v, ok := queryValue(q, "completed"); ok {
		b, err := parseBool(v)
		if err != nil {
			issues = append(issues, ValidationIssue{
				Loc:  []string{"query", "completed"},
				Msg:  "Input should be a valid boolean, unable to interpret input",
				Type: "bool_parsing",
			})
		} else {
			params.Completed = &b
		}
	}

	return params, issues
}

// ParseTaskID reads the {id} path variable.
func ParseTaskID(raw string) (int64, []ValidationIssue) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, []ValidationIssue{integerIssue("path", "id")}
	}
	return id, nil
}

func queryValue(q map[string][]string, key string) (string, bool) {
	vals, ok := q[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[len(vals)-1], true
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on", "t", "y":
		return true, nil
	case "false", "0", "no", "off", "f", "n":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

func integerIssue(where, name string) ValidationIssue {
	return ValidationIssue{
		Loc:  []string{where, name},
		Msg:  "Input should be a valid integer, unable to parse string as an integer",
		Type: "int_parsing",
	}
}

func nonNegativeIssue(name string) ValidationIssue {
	return ValidationIssue{
		Loc:  []string{"query", name},
		Msg:  "Input should be greater than or equal to 0",
		Type: "greater_than_equal",
	}
}
