package order

import "time"

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "PENDING"
	StatusCompleted PaymentStatus = "COMPLETED"
	StatusCancelled PaymentStatus = "CANCELLED"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending Approval"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

const (
	MethodQR   = "QR"
	MethodCash = "CASH"
)

type Order struct {
	ID                   int64          `json:"id"`
	CustomerID           uint           `json:"customer_id"`
	PaymentStatus        PaymentStatus  `json:"payment_status"`
	ApprovalStatus       ApprovalStatus `json:"approval_status"`
	PaymentMethod        string         `json:"payment_method"`
	ExternalReference    *string        `json:"external_reference,omitempty"`
	TotalAmount          float64        `json:"total_amount"`
	VolumeDiscountRuleID *int64         `json:"volume_discount_rule_id,omitempty"`
	VolumeDiscountPct    float64        `json:"volume_discount_percentage"`
	VolumeDiscountAmount float64        `json:"volume_discount_amount"`
	PaymentSessionID     *string        `json:"payment_session_id,omitempty"`
	ApprovedAt           *time.Time     `json:"approved_at,omitempty"`
	ApprovedBy           *uint          `json:"approved_by,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	Lines                []Line         `json:"lines,omitempty"`
}

// Line snapshots everything it needs at creation so historical orders
// survive later product archival or deletion.
type Line struct {
	ID                 int64   `json:"id"`
	OrderID            int64   `json:"order_id"`
	ProductID          *int64  `json:"product_id,omitempty"`
	Quantity           int     `json:"quantity"`
	EffectiveUnitPrice float64 `json:"effective_unit_price"`
	CostBasisSnapshot  float64 `json:"cost_basis_snapshot"`
	DiscountPct        float64 `json:"per_line_discount_percentage"`
	DiscountAmount     float64 `json:"per_line_discount_amount"`
	ProductName        string  `json:"product_name"`
	ProductDescription string  `json:"product_description"`
	ProductCategory    string  `json:"product_category"`
}

// CartLine is the input shape for order placement.
type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Filter narrows staff order listings.
type Filter struct {
	Status   *PaymentStatus
	Approval *ApprovalStatus
	Search   *string
	DateFrom *time.Time
	DateTo   *time.Time
}

// CancelledItem describes one partial-cancellation result for notifications.
type CancelledItem struct {
	LineID      int64  `json:"line_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// CancelLinesResult is what partial cancellation reports back.
type CancelLinesResult struct {
	Items        []CancelledItem `json:"items"`
	OrderDeleted bool            `json:"order_deleted"`
	NewTotal     float64         `json:"new_total"`
}
