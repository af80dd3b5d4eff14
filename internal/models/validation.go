package models

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Violation describes one failed validation rule.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// jobURLPattern accepts an optional http(s) scheme followed by a dotted
// host and an optional path.
var jobURLPattern = regexp.MustCompile(`^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w .-]*)*/?$`)

// labels give the human name used in messages, keyed by "Type.jsonField".
var labels = map[string]string{
	"Job.title":        "Job title",
	"Job.company":      "Company name",
	"Job.userId":       "User ID",
	"Job.appliedDate":  "Applied date",
	"Goal.userId":      "User ID",
	"Schedule.userId":  "User ID",
	"Schedule.jobId":   "Job ID",
	"Schedule.dueDate": "Due date",
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("jobstatus", func(fl validator.FieldLevel) bool {
			return Status(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("joburl", func(fl validator.FieldLevel) bool {
			return IsValidJobURL(fl.Field().String())
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return IsValidID(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// IsValidID reports whether id has the record identifier shape
// (24 hexadecimal characters).
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// NewID returns a fresh record identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidJobURL reports whether raw is empty or looks like an http(s) URL.
// Scheme-less links ("acme.com/careers") are accepted; links with a query
// string need an explicit scheme.
func IsValidJobURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	if jobURLPattern.MatchString(strings.ToLower(raw)) {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && strings.Contains(u.Hostname(), ".")
}

// ValidateJob checks a normalized job and returns every violated rule.
func ValidateJob(j *Job) []Violation {
	return validateStruct(j)
}

func ValidateGoal(g *Goal) []Violation {
	return validateStruct(g)
}

func ValidateSchedule(s *Schedule) []Violation {
	return validateStruct(s)
}

func validateStruct(v any) []Violation {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Violation{{Field: "", Rule: "invalid", Message: err.Error()}}
	}

	out := make([]Violation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Violation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	label := labelFor(fe)

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", label, fe.Param())
	case "jobstatus":
		return "Status must be one of: applied, interviewing, offer, rejected"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "joburl":
		return "Please enter a valid URL"
	case "objectid":
		return label + " has an invalid ID format"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match the format %s", label, fe.Param())
	}
	return label + " is invalid"
}

func labelFor(fe validator.FieldError) string {
	typeName := strings.SplitN(fe.Namespace(), ".", 2)[0]
	if l, ok := labels[typeName+"."+fe.Field()]; ok {
		return l
	}
	f := fe.Field()
	if f == "" {
		return "Value"
	}
	return strings.ToUpper(f[:1]) + f[1:]
}

// Messages flattens violations into their messages.
func Messages(vs []Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Message
	}
	return out
}
