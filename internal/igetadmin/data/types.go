package data

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	NullStatus       = Status("")
	PendingStatus    = Status("pending")
	ProcessingStatus = Status("processing")
	CompletedStatus  = Status("completed")
	DeliveredStatus  = Status("delivered")
	FailedStatus     = Status("failed")
	RefundedStatus   = Status("refunded")
)

var knownStatuses = []Status{
	PendingStatus,
	ProcessingStatus,
	CompletedStatus,
	DeliveredStatus,
	FailedStatus,
	RefundedStatus,
}

func ParseStatus(s string) (Status, bool) {
	candidate := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, status := range knownStatuses {
		if status == candidate {
			return status, true
		}
	}
	return NullStatus, false
}

type BundleType string

const (
	MTNUp2U         = BundleType("mtnup2u")
	MTNJustForU     = BundleType("mtn-justforu")
	ATIShare        = BundleType("AT-ishare")
	Telecel5959     = BundleType("Telecel-5959")
	AfaRegistration = BundleType("AfA-registration")
)

// Network returns the carrier a bundle type is sold on.
func (b BundleType) Network() string {
	switch b {
	case MTNUp2U, MTNJustForU:
		return "MTN"
	case ATIShare:
		return "AirtelTigo"
	case Telecel5959:
		return "Telecel"
	case AfaRegistration:
		return "AFA"
	}
	return string(b)
}

type UserSummary struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type Order struct {
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	ID              string          `json:"id"`
	RecipientNumber string          `json:"recipientNumber"`
	PhoneNumber     string          `json:"phoneNumber,omitempty"`
	OrderReference  string          `json:"orderReference,omitempty"`
	BundleType      BundleType      `json:"bundleType"`
	Status          Status          `json:"status"`
	Price           decimal.Decimal `json:"price"`
	Capacity        float64         `json:"capacity"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
	User            *UserSummary    `json:"user,omitempty"`
}

// FullName returns the registrant name carried by AFA registration orders.
func (o *Order) FullName() string {
	if o.BundleType != AfaRegistration || o.Metadata == nil {
		return ""
	}
	name, _ := o.Metadata["fullName"].(string)
	return name
}

// DisplayName is what the orders table shows in its "Name" column.
func (o *Order) DisplayName() string {
	if o.BundleType == AfaRegistration {
		if name := o.FullName(); name != "" {
			return name
		}
	}
	if o.User != nil {
		return o.User.Username
	}
	return ""
}

// ExternalStatus is the advisory status reported by the bundle provider.
type ExternalStatus struct {
	CheckedAt     time.Time `json:"checkedAt"`
	OrderID       string    `json:"orderId"`
	Status        string    `json:"status"`
	ProcessedDate string    `json:"processedDate,omitempty"`
	Volume        string    `json:"volume,omitempty"`
	Number        string    `json:"number,omitempty"`
	ResponseCode  string    `json:"responseCode,omitempty"`
	Message       string    `json:"message,omitempty"`
}

type JournalEntry struct {
	CreatedAt time.Time      `json:"createdAt"`
	Kind      string         `json:"kind"`
	SessionID string         `json:"sessionId"`
	TargetIDs []string       `json:"targetIds"`
	Payload   map[string]any `json:"payload,omitempty"`
	Modified  int            `json:"modified"`
}
