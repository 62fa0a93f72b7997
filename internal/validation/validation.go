// Package validation interprets declarative per-field rule lists over raw
// form submissions. Every rule of every field runs; failures accumulate as
// ordered field errors and never stop the pipeline. Sanitizing rules rewrite
// the value seen by the rules after them and by the caller.
package validation

// Input is a raw submission. Values are strings, string sequences, or
// whatever a JSON decoder produced for the field.
type Input map[string]any

// FieldError is a single failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Field binds rules to a named input. List fields are normalized with
// Strings and every element goes through the rules.
type Field struct {
	Name  string
	List  bool
	Rules []Rule
}

// Schema is an ordered set of fields.
type Schema []Field

// Result holds the sanitized values and the accumulated errors.
type Result struct {
	Values map[string]string
	Lists  map[string][]string
	Errors []FieldError
}

// Valid reports whether no rule failed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Value returns the sanitized scalar value of a field.
func (r Result) Value(name string) string {
	return r.Values[name]
}

// List returns the sanitized elements of a list field. Never nil.
func (r Result) List(name string) []string {
	if l, ok := r.Lists[name]; ok {
		return l
	}
	return []string{}
}

// HasError reports whether any error was recorded for field.
func (r Result) HasError(field string) bool {
	for _, e := range r.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// AddError appends an error found outside the pipeline, such as a dangling
// reference.
func (r *Result) AddError(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Run evaluates schema against in.
func Run(schema Schema, in Input) Result {
	res := Result{
		Values: make(map[string]string, len(schema)),
		Lists:  make(map[string][]string),
		Errors: []FieldError{},
	}

	for _, f := range schema {
		if f.List {
			raw := Strings(in[f.Name])
			out := make([]string, 0, len(raw))
			for _, v := range raw {
				out = append(out, apply(&res, f, v))
			}
			res.Lists[f.Name] = out
			continue
		}
		res.Values[f.Name] = apply(&res, f, Scalar(in[f.Name]))
	}
	return res
}

func apply(res *Result, f Field, value string) string {
	for _, rule := range f.Rules {
		if rule.sanitize != nil {
			value = rule.sanitize(value)
			continue
		}
		if !rule.check(value) {
			res.AddError(f.Name, rule.Message)
		}
	}
	return value
}
