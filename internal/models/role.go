package models

import (
	"fmt"
	"strings"
)

// RoleKind is the semantic meaning a column can hold.
type RoleKind int

const (
	RoleUnset RoleKind = iota
	RolePaymentRecipient
	RolePaymentDate
	RolePaymentAmount
	RoleCommonInfo
)

// SingletonKinds lists the roles that at most one column may hold.
var SingletonKinds = []RoleKind{RolePaymentRecipient, RolePaymentDate, RolePaymentAmount}

var roleNames = map[RoleKind]string{
	RoleUnset:            "unset",
	RolePaymentRecipient: "recipient",
	RolePaymentDate:      "date",
	RolePaymentAmount:    "amount",
	RoleCommonInfo:       "info",
}

func (k RoleKind) String() string {
	if name, ok := roleNames[k]; ok {
		return name
	}
	return fmt.Sprintf("RoleKind(%d)", int(k))
}

// IsSingleton reports whether k is one of the exclusive roles.
func (k RoleKind) IsSingleton() bool {
	return k == RolePaymentRecipient || k == RolePaymentDate || k == RolePaymentAmount
}

// ParseRoleKind resolves a role name as written in roles profiles and on the
// command line. Aliases "payer" and "common" are accepted.
func ParseRoleKind(s string) (RoleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unset", "none":
		return RoleUnset, nil
	case "recipient", "payer":
		return RolePaymentRecipient, nil
	case "date":
		return RolePaymentDate, nil
	case "amount":
		return RolePaymentAmount, nil
	case "info", "common", "commoninfo":
		return RoleCommonInfo, nil
	default:
		return RoleUnset, fmt.Errorf("unknown column role %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k RoleKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *RoleKind) UnmarshalText(text []byte) error {
	parsed, err := ParseRoleKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ColumnRole is the role assigned to a column. Label is meaningful only for
// RoleCommonInfo.
type ColumnRole struct {
	Kind  RoleKind `json:"kind" yaml:"kind"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty"`
}

// Unset is the role of an unclassified column.
var Unset = ColumnRole{Kind: RoleUnset}

// PaymentRecipient returns the recipient role.
func PaymentRecipient() ColumnRole { return ColumnRole{Kind: RolePaymentRecipient} }

// PaymentDate returns the date role.
func PaymentDate() ColumnRole { return ColumnRole{Kind: RolePaymentDate} }

// PaymentAmount returns the amount role.
func PaymentAmount() ColumnRole { return ColumnRole{Kind: RolePaymentAmount} }

// CommonInfo returns an auxiliary role carrying label.
func CommonInfo(label string) ColumnRole { return ColumnRole{Kind: RoleCommonInfo, Label: label} }

func (r ColumnRole) String() string {
	if r.Kind == RoleCommonInfo {
		return fmt.Sprintf("info(%s)", r.Label)
	}
	return r.Kind.String()
}
