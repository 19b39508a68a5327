package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Income  EntryType = "Income"
	Expense EntryType = "Expense"
)

const (
	// SalaryCategory marks income transactions that mirror a monthly salary.
	SalaryCategory = "Salary"

	// SalaryPaymentMethod is the payment method stamped on synthetic
	// salary entries in reports.
	SalaryPaymentMethod = "Bank Transfer"
)

type (
	// EntryType is the canonical direction of a ledger entry. Stored
	// transactions may carry free-form type strings; NormalizeType maps
	// every input onto one of the two values here.
	EntryType string

	User struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	}

	// Transaction is a stored ledger record. Amount is a magnitude for
	// records written through this module; legacy records may carry a
	// signed amount, which type normalization folds into the type.
	Transaction struct {
		ID            string          `json:"id"`
		OwnerEmail    string          `json:"userEmail"`
		Title         string          `json:"title"`
		Amount        decimal.Decimal `json:"amount"`
		Type          string          `json:"type"`
		Category      string          `json:"category"`
		Date          string          `json:"date"`
		Description   string          `json:"description"`
		PaymentMethod string          `json:"paymentMethod"`

		// LegacyOwner covers records persisted before the owner field
		// was renamed to userEmail.
		LegacyOwner string `json:"user,omitempty"`
	}
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidPeriod = errors.New("invalid period")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyOwner    = errors.New("empty owner email")
	ErrInvalidEmail  = errors.New("invalid email")
	ErrDuplicateUser = errors.New("user already registered")
	ErrNoCurrentUser = errors.New("no current user")
)

// CanonicalEmail is the canonical form every store key and owner
// comparison uses: lowercased and trimmed.
func CanonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LocalPart returns everything before the first "@", used as a fallback
// display name for synthesized users.
func LocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

func (u User) Validate() error {
	email := CanonicalEmail(u.Email)
	if email == "" {
		return ErrEmptyOwner
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// Owner returns the record's owner email, falling back to the legacy
// field for old records.
func (t Transaction) Owner() string {
	if t.OwnerEmail != "" {
		return t.OwnerEmail
	}
	return t.LegacyOwner
}

// Validate checks a transaction before it is appended. Stored legacy
// records are never validated; reads tolerate what writes reject.
func (t Transaction) Validate() error {
	if CanonicalEmail(t.Owner()) == "" {
		return ErrEmptyOwner
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if _, err := ParseDate(t.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// NormalizeType maps a stored type string onto the canonical enum.
// Recognized spellings are matched case-insensitively; anything else,
// including blank, falls back to the sign of the stored amount. The
// mapping is total: every input yields exactly one of the two kinds.
func NormalizeType(raw string, amount decimal.Decimal) EntryType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "income", "in":
		return Income
	case "expense", "exp":
		return Expense
	default:
		if amount.Sign() < 0 {
			return Expense
		}
		return Income
	}
}
