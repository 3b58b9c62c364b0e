package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinPrice = 0
	MaxPrice = 10000
)

// Leagues is the closed set of accepted league names.
var Leagues = []string{"NFL", "NBA", "NCAA Football", "MLB", "MLS"}

var (
	datePattern       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern       = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	imageRefPattern   = regexp.MustCompile(`(?i)^(https?://|/)`)
	imageAssetPattern = regexp.MustCompile(`(?i)^(https?://[^\s]+|/[^\s]+\.(png|jpg|jpeg|webp|gif))$`)
)

// fieldOrder is the order violations are reported in.
var fieldOrder = []string{"title", "league", "date", "time", "venue", "city", "price", "img", "imageUrl", "summary"}

// Violation is one failed field rule.
type Violation struct {
	Field   string
	Message string
}

// Violations is the complete defect set for one payload.
type Violations []Violation

func (v Violations) Error() string {
	return strings.Join(v.Messages(), "; ")
}

func (v Violations) Messages() []string {
	out := make([]string, 0, len(v))
	for _, item := range v {
		out = append(out, item.Message)
	}
	return out
}

// Has reports whether a violation was recorded for field.
func (v Violations) Has(field string) bool {
	for _, item := range v {
		if item.Field == field {
			return true
		}
	}
	return false
}

// Date and time are checked against their patterns only; a calendar-impossible
// date such as 2025-02-30 is accepted.
type gameInput struct {
	Title    string `json:"title" validate:"required,min=3,max=100"`
	League   string `json:"league" validate:"required,oneof='NFL' 'NBA' 'NCAA Football' 'MLB' 'MLS'"`
	Date     string `json:"date" validate:"required,gamedate"`
	Time     string `json:"time" validate:"required,gametime"`
	Venue    string `json:"venue" validate:"required,min=2,max=120"`
	City     string `json:"city" validate:"required,min=2,max=120"`
	Price    *int64 `json:"price" validate:"required,min=0,max=10000"`
	Img      string `json:"img" validate:"required,imgref"`
	ImageURL string `json:"imageUrl" validate:"required,imageasset"`
	Summary  string `json:"summary" validate:"required,min=5,max=280"`
}

// Validator maps raw input onto a normalized payload. It performs no I/O and
// is safe for concurrent use.
type Validator struct {
	validate    *validator.Validate
	imageFields ImageFields
}

func NewValidator(imageFields ImageFields) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegisterPattern(v, "gamedate", datePattern)
	mustRegisterPattern(v, "gametime", timePattern)
	mustRegisterPattern(v, "imgref", imageRefPattern)
	mustRegisterPattern(v, "imageasset", imageAssetPattern)

	if imageFields == "" {
		imageFields = ImageFieldsImg
	}

	return &Validator{validate: v, imageFields: imageFields}
}

func mustRegisterPattern(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// ImageFields reports the configured image field policy.
func (v *Validator) ImageFields() ImageFields {
	return v.imageFields
}

// Validate checks every field and returns either a normalized payload or the
// full list of violations. Unknown keys are ignored.
func (v *Validator) Validate(raw map[string]any) (Payload, Violations) {
	var (
		in         gameInput
		violations Violations
	)
	coerced := make(map[string]struct{})
	record := func(viol *Violation) {
		if viol == nil {
			return
		}
		coerced[viol.Field] = struct{}{}
		violations = append(violations, *viol)
	}

	var viol *Violation
	in.Title, viol = stringField(raw, "title")
	record(viol)
	in.League, viol = stringField(raw, "league")
	record(viol)
	in.Date, viol = stringField(raw, "date")
	record(viol)
	in.Time, viol = stringField(raw, "time")
	record(viol)
	in.Venue, viol = stringField(raw, "venue")
	record(viol)
	in.City, viol = stringField(raw, "city")
	record(viol)
	in.Price, viol = priceField(raw, "price")
	record(viol)
	if v.imageFields.wantsImg() {
		in.Img, viol = stringField(raw, "img")
		record(viol)
	}
	if v.imageFields.wantsImageURL() {
		in.ImageURL, viol = stringField(raw, "imageUrl")
		record(viol)
	}
	in.Summary, viol = stringField(raw, "summary")
	record(viol)

	if err := v.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			violations = append(violations, Violation{Field: "", Message: err.Error()})
		}
		for _, fe := range fieldErrs {
			field := fe.Field()
			if _, seen := coerced[field]; seen {
				continue
			}
			if !v.wantsField(field) {
				continue
			}
			violations = append(violations, Violation{Field: field, Message: describe(fe)})
		}
	}

	if len(violations) > 0 {
		sortViolations(violations)
		return Payload{}, violations
	}

	payload := Payload{
		Title:   in.Title,
		League:  in.League,
		Date:    in.Date,
		Time:    in.Time,
		Venue:   in.Venue,
		City:    in.City,
		Price:   *in.Price,
		Summary: in.Summary,
	}
	if v.imageFields.wantsImg() {
		payload.Img = in.Img
	}
	if v.imageFields.wantsImageURL() {
		payload.ImageURL = in.ImageURL
	}

	return payload, nil
}

func (v *Validator) wantsField(field string) bool {
	switch field {
	case "img":
		return v.imageFields.wantsImg()
	case "imageUrl":
		return v.imageFields.wantsImageURL()
	default:
		return true
	}
}

func stringField(raw map[string]any, key string) (string, *Violation) {
	value, ok := raw[key]
	if !ok || value == nil {
		return "", nil
	}

	s, ok := value.(string)
	if !ok {
		return "", &Violation{Field: key, Message: fmt.Sprintf("%q must be a string", key)}
	}

	return strings.TrimSpace(s), nil
}

func priceField(raw map[string]any, key string) (*int64, *Violation) {
	value, ok := raw[key]
	if !ok || value == nil {
		return nil, nil
	}

	notNumber := &Violation{Field: key, Message: fmt.Sprintf("%q must be a number", key)}
	notInteger := &Violation{Field: key, Message: fmt.Sprintf("%q must be an integer", key)}

	var f float64
	switch v := value.(type) {
	case int:
		n := int64(v)
		return &n, nil
	case int64:
		return &v, nil
	case float64:
		f = v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return &n, nil
		}
		parsed, err := v.Float64()
		if err != nil {
			return nil, notNumber
		}
		f = parsed
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &n, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, notNumber
		}
		f = parsed
	default:
		return nil, notNumber
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, notNumber
	}
	if f != math.Trunc(f) {
		return nil, notInteger
	}

	var n int64
	switch {
	case f >= math.MaxInt64:
		n = math.MaxInt64
	case f <= math.MinInt64:
		n = math.MinInt64
	default:
		n = int64(f)
	}
	return &n, nil
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", field, strings.Join(Leagues, ", "))
	case "gamedate":
		return fmt.Sprintf("%q must use the YYYY-MM-DD format", field)
	case "gametime":
		return fmt.Sprintf("%q must use the 24-hour HH:MM format", field)
	case "imgref":
		return fmt.Sprintf("%q must start with http://, https://, or /", field)
	case "imageasset":
		return fmt.Sprintf("%q must be an http(s) URL or a relative path ending in .png, .jpg, .jpeg, .webp, or .gif", field)
	default:
		return fmt.Sprintf("%q failed the %s rule", field, fe.Tag())
	}
}

func sortViolations(items Violations) {
	rank := make(map[string]int, len(fieldOrder))
	for i, name := range fieldOrder {
		rank[name] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		return rank[items[i].Field] < rank[items[j].Field]
	})
}
