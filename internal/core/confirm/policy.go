// Package confirm implements the two-step confirmation workflow for state-changing abilities
package confirm

import (
	"strings"

	perr "assistify/internal/platform/errors"
)

// Level is how much confirmation an ability needs
type Level uint8

// Confirmation levels
const (
	LevelNone Level = iota
	LevelSingle
	LevelDouble
)

func (l Level) String() string {
	switch l {
	case LevelSingle:
		return "single"
	case LevelDouble:
		return "double"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Level) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "none":
		*l = LevelNone
	case "single":
		*l = LevelSingle
	case "double":
		*l = LevelDouble
	default:
		return perr.InvalidArgf("unknown confirmation level %q", string(b))
	}
	return nil
}

// DefaultCode is typed when no ability specific phrase applies
const DefaultCode = "CONFIRM"

// Policy maps ability ids to a confirmation level and, for double confirmation, the phrase to type
type Policy struct {
	single map[string]struct{}
	double map[string]string
}

// NewPolicy builds a Policy; double maps ability id to its code, empty meaning DefaultCode
func NewPolicy(single []string, double map[string]string) Policy {
	p := Policy{
		single: make(map[string]struct{}, len(single)),
		double: make(map[string]string, len(double)),
	}
	for _, id := range single {
		p.single[id] = struct{}{}
	}
	for id, code := range double {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			code = DefaultCode
		}
		p.double[id] = code
	}
	return p
}

// DefaultPolicy is the policy for the builtin abilities
func DefaultPolicy() Policy {
	return NewPolicy(
		[]string{
			"afw/orders/update-status",
			"afw/orders/add-note",
			"afw/products/create",
			"afw/products/update-stock",
			"afw/products/update-price",
			"afw/coupons/create",
			"afw/reviews/approve",
			"afw/reviews/spam",
			"afw/orders/resend-email",
			"afw/products/create-category",
			"afw/products/duplicate",
			"afw/coupons/update",
			"afw/customer/update-address",
			"afw/customer/newsletter",
		},
		map[string]string{
			"afw/orders/refund":         "REFUND",
			"afw/orders/cancel":         "CANCEL",
			"afw/customer/cancel-order": "CANCEL",
			"afw/orders/delete":         "DELETE",
			"afw/products/delete":       "DELETE",
			"afw/coupons/delete":        "DELETE",
			"afw/customers/delete":      "DELETE",
		},
	)
}

// Level returns the confirmation level for abilityID; double wins if listed in both
func (p Policy) Level(abilityID string) Level {
	if _, ok := p.double[abilityID]; ok {
		return LevelDouble
	}
	if _, ok := p.single[abilityID]; ok {
		return LevelSingle
	}
	return LevelNone
}

// Code returns the phrase required for double confirmation, empty for other levels
func (p Policy) Code(abilityID string) string {
	return p.double[abilityID]
}

// Destructive reports whether the ability needs double confirmation
func (p Policy) Destructive(abilityID string) bool { return p.Level(abilityID) == LevelDouble }
