package validation

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("iso8601", validateISODate)
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

// dateLayouts are the ISO-8601 shapes accepted for calendar dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate parses an ISO-8601 date or date-time.
func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		t, perr := time.Parse(layout, s)
		if perr == nil {
			return t, nil
		}
		err = perr
	}
	return time.Time{}, err
}

// Rule is either a sanitizer, which rewrites the value, or a check, which
// records Message when the value fails a validator tag.
type Rule struct {
	Message  string
	tag      string
	sanitize func(string) string
}

func (r Rule) check(value string) bool {
	return validate.Var(value, r.tag) == nil
}

// Trim strips leading and trailing whitespace.
func Trim() Rule {
	return Rule{sanitize: strings.TrimSpace}
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces markup-significant characters with HTML entities.
func Escape() Rule {
	return Rule{sanitize: escaper.Replace}
}

// Required fails on an empty value.
func Required(msg string) Rule {
	return Rule{Message: msg, tag: "min=1"}
}

// MaxLength fails when the value has more than n characters.
func MaxLength(n int, msg string) Rule {
	return Rule{Message: msg, tag: "max=" + strconv.Itoa(n)}
}

// Alphanumeric fails unless the value is ASCII letters and digits only. An
// empty value fails too.
func Alphanumeric(msg string) Rule {
	return Rule{Message: msg, tag: "alphanum"}
}

// ISODate fails when a non-empty value is not an ISO-8601 date.
func ISODate(msg string) Rule {
	return Rule{Message: msg, tag: "omitempty,iso8601"}
}

// OneOf fails when a non-empty value is not one of values. Values must not
// contain spaces.
func OneOf(values []string, msg string) Rule {
	return Rule{Message: msg, tag: "omitempty,oneof=" + strings.Join(values, " ")}
}
