package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Advocate is a directory record describing a professional and how to reach them.
type Advocate struct {
	ID                AdvocateID  `json:"id"`
	FirstName         string      `json:"firstName"`
	LastName          string      `json:"lastName"`
	City              string      `json:"city"`
	Degree            string      `json:"degree"`
	Specialties       []string    `json:"specialties"`
	YearsOfExperience int         `json:"yearsOfExperience"`
	PhoneNumber       PhoneNumber `json:"phoneNumber"`
	CreatedAt         time.Time   `json:"createdAt,omitzero"`
}

// FullName joins first and last name for display.
func (a Advocate) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// ExperienceLabel renders years of experience with the right noun.
func (a Advocate) ExperienceLabel() string {
	if a.YearsOfExperience == 1 {
		return "1 year"
	}
	return strconv.Itoa(a.YearsOfExperience) + " years"
}

// AdvocateID is the record identifier. The store assigns integers; other
// producers send strings, so both JSON forms are accepted.
type AdvocateID string

// MarshalJSON emits a JSON number only when that number reads back as the
// same text.
func (id AdvocateID) MarshalJSON() ([]byte, error) {
	if n, ok := canonicalInt64(string(id)); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *AdvocateID) UnmarshalJSON(data []byte) error {
	s, err := numberOrString(data)
	if err != nil {
		return fmt.Errorf("decode advocate id: %w", err)
	}
	*id = AdvocateID(s)
	return nil
}

// Scan implements sql.Scanner for integer and text columns.
func (id *AdvocateID) Scan(src any) error {
	s, err := scanText(src)
	if err != nil {
		return fmt.Errorf("scan advocate id: %w", err)
	}
	*id = AdvocateID(s)
	return nil
}

// Value implements driver.Valuer.
func (id AdvocateID) Value() (driver.Value, error) {
	if n, ok := canonicalInt64(string(id)); ok {
		return n, nil
	}
	return string(id), nil
}

// PhoneNumber keeps the phone value as received. Upstream rows store it as a
// bigint, older payloads as a string, so both JSON forms are accepted.
type PhoneNumber string

// Digits strips every non-digit character.
func (p PhoneNumber) Digits() string {
	var b strings.Builder
	b.Grow(len(p))
	for _, r := range string(p) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Formatted renders the number for display, see FormatPhone.
func (p PhoneNumber) Formatted() string {
	return FormatPhone(string(p))
}

// FormatPhone renders exactly ten digits as "(AAA) BBB-CCCC". Anything else is
// returned as the stripped digit string.
func FormatPhone(raw string) string {
	digits := PhoneNumber(raw).Digits()
	if len(digits) != 10 {
		return digits
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}

// MarshalJSON emits a JSON number only when that number reads back as the
// same text, so leading zeros and punctuation survive as a string.
func (p PhoneNumber) MarshalJSON() ([]byte, error) {
	if n, ok := canonicalInt64(string(p)); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	s, err := numberOrString(data)
	if err != nil {
		return fmt.Errorf("decode phone number: %w", err)
	}
	*p = PhoneNumber(s)
	return nil
}

// Scan implements sql.Scanner for bigint and text columns.
func (p *PhoneNumber) Scan(src any) error {
	s, err := scanText(src)
	if err != nil {
		return fmt.Errorf("scan phone number: %w", err)
	}
	*p = PhoneNumber(s)
	return nil
}

// Value implements driver.Valuer, storing canonical numbers as integers.
func (p PhoneNumber) Value() (driver.Value, error) {
	if n, ok := canonicalInt64(string(p)); ok {
		return n, nil
	}
	return string(p), nil
}

// canonicalInt64 parses s only when formatting the result gives s back.
func canonicalInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != s {
		return 0, false
	}
	return n, true
}

func numberOrString(data []byte) (string, error) {
	if string(data) == "null" {
		return "", nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func scanText(src any) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case []byte:
		return string(v), nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("unsupported type %T", src)
	}
}
