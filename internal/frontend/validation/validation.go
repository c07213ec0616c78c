// Package validation gates form submission on native-style constraint checks.
package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	NeedsValidationClass = "needs-validation"
	WasValidatedClass    = "was-validated"
)

type Field struct {
	Name      string
	Type      string // text, email, number, url, tel, password
	Value     string
	Required  bool
	MinLength int
	MaxLength int // 0 = unlimited
	Min       *float64
	Max       *float64
	Pattern   string
}

type Form struct {
	ID      string
	Classes []string
	Fields  []Field
}

// Violation names the failing field and the constraint it broke.
type Violation struct {
	Field  string
	Reason string
}

func (v Violation) Error() string { return fmt.Sprintf("%s: %s", v.Field, v.Reason) }

func (f *Form) HasClass(c string) bool {
	for _, x := range f.Classes {
		if x == c {
			return true
		}
	}
	return false
}

func (f *Form) addClass(c string) {
	if !f.HasClass(c) {
		f.Classes = append(f.Classes, c)
	}
}

// CheckValidity returns every violated constraint; an empty slice means valid.
func (f *Form) CheckValidity() []Violation {
	var out []Violation
	for _, fld := range f.Fields {
		if reason := check(fld); reason != "" {
			out = append(out, Violation{Field: fld.Name, Reason: reason})
		}
	}
	return out
}

// Submit reports whether the submission may proceed. A form without the
// needs-validation class always passes; one with it is marked was-validated
// on every attempt and blocked when invalid.
func (f *Form) Submit() (bool, []Violation) {
	if !f.HasClass(NeedsValidationClass) {
		return true, nil
	}
	v := f.CheckValidity()
	f.addClass(WasValidatedClass)
	return len(v) == 0, v
}

func check(f Field) string {
	val := f.Value
	if val == "" {
		if f.Required {
			return "value missing"
		}
		return ""
	}

	switch f.Type {
	case "email":
		if _, err := mail.ParseAddress(val); err != nil || strings.ContainsAny(val, "<> ") {
			return "type mismatch"
		}
	case "url":
		u, err := url.ParseRequestURI(val)
		if err != nil || u.Scheme == "" {
			return "type mismatch"
		}
	case "number":
		n, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return "bad input"
		}
		if f.Min != nil && n < *f.Min {
			return "range underflow"
		}
		if f.Max != nil && n > *f.Max {
			return "range overflow"
		}
	}

	l := utf8.RuneCountInString(val)
	if f.MinLength > 0 && l < f.MinLength {
		return "too short"
	}
	if f.MaxLength > 0 && l > f.MaxLength {
		return "too long"
	}
	if f.Pattern != "" {
		re, err := regexp.Compile("^(?:" + f.Pattern + ")$")
		if err == nil && !re.MatchString(val) {
			return "pattern mismatch"
		}
	}
	return ""
}
