// Package validation provides input and draft validation for the
// prescriptions API.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sehatnxt/prescriptions-api/interfaces"
	"github.com/sehatnxt/prescriptions-api/prescription"
)

// Pre-compiled regex, compiled once at package initialization and
// reused for all validations. Letters, digits, spaces and the
// punctuation that occurs in medicine names (Dolo 650, B-Complex,
// Vitamin D3 60K).
var inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+'/%\(\),]+$`)

// Dangerous patterns as plain strings. strings.Contains is much
// faster than regex for simple substring checks.
//
// Script patterns apply to every user input. The query patterns only
// apply to URL parameters: prescription fields are clinical prose where
// "Rest & fluids" or "BP 120/80 -- recheck" are ordinary text.
var scriptPatterns = []string{
	"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
	"onclick=", "onmouseover=", "onfocus=", "onblur=", "onchange=", "onsubmit=",
	"eval(", "expression(", "url(", "@import", "binding(", "behavior(",
}

var queryPatterns = []string{
	// SQL injection patterns
	"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
	"update set", "--", "/*", "*/", "xp_", "sp_", "exec(", "execute(",
	// Command injection patterns
	"; ", "| ", "& ", "`", "$(", "${",
	// Path traversal patterns
	"../", "..\\", "%2e%2e", "file://",
}

// Save validation messages, reported in this order.
const (
	MsgNoPatient   = "Please select a patient"
	MsgNoAge       = "Please enter patient age"
	MsgNoGender    = "Please select patient gender"
	MsgNoDiagnosis = "Please enter diagnosis"
	MsgNoMedicines = "Please add at least one medicine"
)

const (
	maxFieldLength  = 200
	maxPrefixLength = 50
	maxPatientAge   = 150
)

// ValidatorImpl implements interfaces.DraftValidator and
// interfaces.InputValidator.
type ValidatorImpl struct{}

func NewValidator() *ValidatorImpl {
	return &ValidatorImpl{}
}

var (
	_ interfaces.DraftValidator = (*ValidatorImpl)(nil)
	_ interfaces.InputValidator = (*ValidatorImpl)(nil)
)

// ValidateDraft collects every problem blocking a save, in the fixed
// reporting order. An empty result means the draft is saveable.
func (v *ValidatorImpl) ValidateDraft(d *prescription.Draft) []string {
	var problems []string

	if d == nil {
		return []string{MsgNoPatient, MsgNoAge, MsgNoGender, MsgNoDiagnosis, MsgNoMedicines}
	}

	if strings.TrimSpace(d.PatientID) == "" {
		problems = append(problems, MsgNoPatient)
	}
	if strings.TrimSpace(d.PatientAge) == "" {
		problems = append(problems, MsgNoAge)
	}
	if strings.TrimSpace(d.PatientGender) == "" {
		problems = append(problems, MsgNoGender)
	}
	if strings.TrimSpace(d.Diagnosis) == "" {
		problems = append(problems, MsgNoDiagnosis)
	}
	if len(d.ActiveMedicines()) == 0 {
		problems = append(problems, MsgNoMedicines)
	}

	return problems
}

// ValidatePrefix validates an autocomplete prefix from the URL path.
func (v *ValidatorImpl) ValidatePrefix(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("prefix cannot be empty")
	}

	if len(input) > maxPrefixLength {
		return fmt.Errorf("prefix too long: maximum %d characters", maxPrefixLength)
	}

	if err := checkPatterns(input, scriptPatterns); err != nil {
		return err
	}
	if err := checkPatterns(input, queryPatterns); err != nil {
		return err
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("prefix contains invalid characters. Only letters, numbers, spaces and common punctuation are allowed")
	}

	return nil
}

// ValidateField validates a free-text draft field (name, dosage,
// duration, symptoms, diagnosis, advice). Empty is allowed, clearing a
// field is a normal edit. Any prose is accepted; only markup injection,
// control characters, length and flooding are rejected.
func (v *ValidatorImpl) ValidateField(input string) error {
	if input == "" {
		return nil
	}

	if len(input) > maxFieldLength {
		return fmt.Errorf("field too long: maximum %d characters", maxFieldLength)
	}

	if err := checkPatterns(input, scriptPatterns); err != nil {
		return err
	}

	if hasControlCharacters(input) {
		return fmt.Errorf("field contains control characters")
	}

	if hasExcessiveRepetition(input) {
		return fmt.Errorf("field contains excessive character repetition")
	}

	return nil
}

// ValidateAge validates a patient age string.
func (v *ValidatorImpl) ValidateAge(input string) (int, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return -1, fmt.Errorf("age cannot be empty")
	}

	if len(input) != len(trimmed) {
		return -1, fmt.Errorf("age contains invalid characters. Only numeric characters are allowed")
	}

	age, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, fmt.Errorf("age contains invalid characters. Only numeric characters are allowed")
	}

	if age < 0 || age > maxPatientAge {
		return -1, fmt.Errorf("age must be between 0 and %d", maxPatientAge)
	}

	return age, nil
}

func checkPatterns(input string, patterns []string) error {
	lower := strings.ToLower(input)
	for _, pattern := range patterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("input contains potentially dangerous content")
		}
	}
	return nil
}

// hasControlCharacters reports whether the input contains control
// characters other than tab.
func hasControlCharacters(input string) bool {
	for _, r := range input {
		if r < 0x20 && r != '\t' {
			return true
		}
	}
	return false
}

// hasExcessiveRepetition checks for the same character repeated more
// than 10 times consecutively.
func hasExcessiveRepetition(input string) bool {
	for i := 0; i < len(input)-10; i++ {
		allSame := true
		for j := 1; j <= 10; j++ {
			if input[i] != input[i+j] {
				allSame = false
				break
			}
		}
		if allSame {
			return true
		}
	}
	return false
}
