package domain

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// AccountType defines the provider account tier.
type AccountType string

const (
	AccountTypeTrial AccountType = "trial"
	AccountTypeFull  AccountType = "full"
)

// Value implements the driver.Valuer interface for AccountType.
func (at AccountType) Value() (driver.Value, error) {
	return string(at), nil
}

// Scan implements the sql.Scanner interface for AccountType.
func (at *AccountType) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan AccountType: value is not string or []byte, it is %T", value)
		}
		strVal = string(bytesVal)
	}
	*at = AccountType(strVal)
	switch *at {
	case AccountTypeTrial, AccountTypeFull:
		return nil
	default:
		return fmt.Errorf("unknown AccountType value: %s", strVal)
	}
}

// AccountTypeFromLabel maps a remote account type label ("Trial"/"Full" on
// the wire) to the local enum.
func AccountTypeFromLabel(label string) (AccountType, bool) {
	switch label {
	case "Trial", "trial":
		return AccountTypeTrial, true
	case "Full", "full":
		return AccountTypeFull, true
	default:
		return "", false
	}
}

// AccountStatus defines the provider account lifecycle state.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusClosed    AccountStatus = "closed"
)

// Value implements the driver.Valuer interface for AccountStatus.
func (as AccountStatus) Value() (driver.Value, error) {
	return string(as), nil
}

// Scan implements the sql.Scanner interface for AccountStatus.
func (as *AccountStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan AccountStatus: value is not string or []byte, it is %T", value)
		}
		strVal = string(bytesVal)
	}
	*as = AccountStatus(strVal)
	switch *as {
	case AccountStatusActive, AccountStatusSuspended, AccountStatusClosed:
		return nil
	default:
		return fmt.Errorf("unknown AccountStatus value: %s", strVal)
	}
}

// AccountStatusFromLabel maps a remote account status label to the local enum.
func AccountStatusFromLabel(label string) (AccountStatus, bool) {
	switch AccountStatus(label) {
	case AccountStatusActive, AccountStatusSuspended, AccountStatusClosed:
		return AccountStatus(label), true
	default:
		return "", false
	}
}

// Account mirrors one remote provider account. OwnerAccountSID is nil for
// root accounts; when present it must reference a reconciled Account row.
type Account struct {
	SID             string        `json:"sid"`
	FriendlyName    string        `json:"friendly_name"`
	Type            AccountType   `json:"type"`
	Status          AccountStatus `json:"status"`
	OwnerAccountSID *string       `json:"owner_account_sid,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
