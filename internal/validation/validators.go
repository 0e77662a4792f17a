package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// RegexValidator checks that a value matches a pattern.
type RegexValidator struct {
	name    string
	pattern *regexp.Regexp
	errMsg  string
}

func NewRegexValidator(name, pattern, errMsg string) (*RegexValidator, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern for validator %s: %w", name, err)
	}
	return &RegexValidator{name: name, pattern: re, errMsg: errMsg}, nil
}

func (v *RegexValidator) Name() string {
	return v.name
}

func (v *RegexValidator) Validate(value string) Result {
	if v.pattern.MatchString(value) {
		return Result{Name: v.name, Valid: true}
	}
	return Result{Name: v.name, Valid: false, Error: v.errMsg}
}

// KeywordValidator checks for presence or absence of keywords, case
// insensitively.
type KeywordValidator struct {
	name        string
	keywords    []string
	mustContain bool
}

func NewKeywordValidator(name string, keywords []string, mustContain bool) *KeywordValidator {
	return &KeywordValidator{name: name, keywords: keywords, mustContain: mustContain}
}

func (v *KeywordValidator) Name() string {
	return v.name
}

func (v *KeywordValidator) Validate(value string) Result {
	lowered := strings.ToLower(value)
	found := ""
	for _, kw := range v.keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			found = kw
			break
		}
	}

	if v.mustContain && found == "" {
		return Result{Name: v.name, Valid: false, Error: fmt.Sprintf("must contain one of: %s", strings.Join(v.keywords, ", "))}
	}
	if !v.mustContain && found != "" {
		return Result{Name: v.name, Valid: false, Error: fmt.Sprintf("must not contain %q", found)}
	}
	return Result{Name: v.name, Valid: true}
}

// LengthValidator checks that a value's length is within [min, max]. A max of
// zero means unbounded.
type LengthValidator struct {
	name string
	min  int
	max  int
}

func NewLengthValidator(name string, min, max int) *LengthValidator {
	return &LengthValidator{name: name, min: min, max: max}
}

func (v *LengthValidator) Name() string {
	return v.name
}

func (v *LengthValidator) Validate(value string) Result {
	if len(value) < v.min {
		return Result{Name: v.name, Valid: false, Error: fmt.Sprintf("too short: %d < %d", len(value), v.min)}
	}
	if v.max > 0 && len(value) > v.max {
		return Result{Name: v.name, Valid: false, Error: fmt.Sprintf("too long: %d > %d", len(value), v.max)}
	}
	return Result{Name: v.name, Valid: true}
}

// PatternAbsenceValidator fails when any of the given patterns matches,
// reporting every matching pattern in the error.
type PatternAbsenceValidator struct {
	name     string
	patterns []*regexp.Regexp
}

func NewPatternAbsenceValidator(name string, patterns []string) (*PatternAbsenceValidator, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for validator %s: %w", name, err)
		}
		compiled = append(compiled, re)
	}
	return &PatternAbsenceValidator{name: name, patterns: compiled}, nil
}

func (v *PatternAbsenceValidator) Name() string {
	return v.name
}

func (v *PatternAbsenceValidator) Validate(value string) Result {
	var hits []string
	for _, re := range v.patterns {
		if re.MatchString(value) {
			hits = append(hits, re.String())
		}
	}
	if len(hits) > 0 {
		return Result{Name: v.name, Valid: false, Error: fmt.Sprintf("forbidden pattern detected: %s", strings.Join(hits, ", "))}
	}
	return Result{Name: v.name, Valid: true}
}
