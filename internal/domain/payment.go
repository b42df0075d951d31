package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus type for payment lifecycle
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// PaymentMethod enumerates how a payment was (or will be) settled.
type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "CREDIT_CARD"
	MethodDebitCard    PaymentMethod = "DEBIT_CARD"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// ParsePaymentMethod maps a raw method string to a known PaymentMethod.
// Matching is case-insensitive.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToUpper(strings.TrimSpace(s))) {
	case MethodCreditCard:
		return MethodCreditCard, true
	case MethodDebitCard:
		return MethodDebitCard, true
	case MethodBankTransfer:
		return MethodBankTransfer, true
	}
	return "", false
}

// Payment represents a payment owed or made by a user. A payment created by
// the membership linking flow references the membership it pays for; ad-hoc
// payments may leave MembershipID nil.
type Payment struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Reference    string              `bson:"reference" json:"reference"` // External, human-quotable payment reference
	UserID       primitive.ObjectID  `bson:"userId" json:"userId"`
	MembershipID *primitive.ObjectID `bson:"membershipId,omitempty" json:"membershipId,omitempty"`
	Amount       float64             `bson:"amount" json:"amount"`
	Status       PaymentStatus       `bson:"status" json:"status"`
	Method       PaymentMethod       `bson:"method,omitempty" json:"method,omitempty"`
	DueDate      time.Time           `bson:"dueDate" json:"dueDate"`
	PaymentDate  *time.Time          `bson:"paymentDate,omitempty" json:"paymentDate,omitempty"` // Set when the payment is actually made
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}
