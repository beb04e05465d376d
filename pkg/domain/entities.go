// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by retailcore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityActor identifies an authenticated principal record.
	EntityActor EntityType = "actor"
	// EntityStore identifies a retail store record.
	EntityStore EntityType = "store"
	// EntityDistrict identifies a district record.
	EntityDistrict EntityType = "district"
	// EntityTicket identifies a cash-register ticket correction request.
	EntityTicket EntityType = "ticket"
	// EntityTransfer identifies a stock transfer request.
	EntityTransfer EntityType = "transfer"
	// EntityCegidUser identifies an ERP user provisioning request.
	EntityCegidUser EntityType = "cegid_user"
	// EntityVoucher identifies a purchase voucher verification request.
	EntityVoucher EntityType = "voucher"
)

// Role classifies an actor within the store/district/admin authority chain.
type Role string

// Actor roles. Each authenticated principal carries exactly one.
const (
	// RoleAdmin has global authority over every request kind.
	RoleAdmin Role = "admin"
	// RoleDistrict reviews requests submitted by stores linked to its district.
	RoleDistrict Role = "district"
	// RoleStore submits requests on behalf of exactly one store.
	RoleStore Role = "store"
	// RoleConsulting is read-only across all entities.
	RoleConsulting Role = "consulting"
)

// TicketStatus enumerates ticket correction workflow states.
type TicketStatus string

// Canonical ticket statuses.
const (
	TicketStatusPending   TicketStatus = "pending"
	TicketStatusApproved  TicketStatus = "approved"
	TicketStatusRejected  TicketStatus = "rejected"
	TicketStatusCancelled TicketStatus = "cancelled"
	TicketStatusProcessed TicketStatus = "validated_and_processed"
)

// TransferStatus enumerates stock transfer workflow states.
type TransferStatus string

// Canonical transfer statuses.
const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusCancelled TransferStatus = "cancelled"
	TransferStatusProcessed TransferStatus = "validated_and_processed"
)

// CegidUserStatus enumerates ERP user provisioning workflow states.
type CegidUserStatus string

// Canonical cegid user statuses.
const (
	CegidUserStatusPending   CegidUserStatus = "pending"
	CegidUserStatusCompleted CegidUserStatus = "completed"
	CegidUserStatusRejected  CegidUserStatus = "rejected"
	CegidUserStatusCancelled CegidUserStatus = "cancelled"
	CegidUserStatusProcessed CegidUserStatus = "validated_and_processed"
)

// VoucherStatus enumerates voucher verification outcomes. All non-pending
// statuses are terminal.
type VoucherStatus string

// Canonical voucher statuses.
const (
	VoucherStatusPending   VoucherStatus = "pending"
	VoucherStatusValidated VoucherStatus = "validated"
	VoucherStatusNotFound  VoucherStatus = "not_found"
	VoucherStatusRejected  VoucherStatus = "rejected"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Actor represents an authenticated principal. A store actor owns exactly one
// Store and a district actor owns exactly one District; both references are
// nil for the other roles.
type Actor struct {
	Base
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Role        Role    `json:"role"`
	StoreID     *string `json:"store_id,omitempty"`
	DistrictID  *string `json:"district_id,omitempty"`
}

// Store represents a retail store. Membership in districts is many-to-many
// and kept symmetric with District.StoreIDs through Link/Unlink only.
type Store struct {
	Base
	Name        string   `json:"name"`
	ActorID     string   `json:"actor_id"`
	DistrictIDs []string `json:"district_ids"`
}

// District aggregates stores under one district reviewer.
type District struct {
	Base
	Name     string   `json:"name"`
	ActorID  string   `json:"actor_id"`
	StoreIDs []string `json:"store_ids"`
}

// Ticket is a cash-register ticket correction request.
type Ticket struct {
	Base
	StoreID        string       `json:"store_id"`
	Code           string       `json:"code"`
	Type           string       `json:"type"`
	Amount         float64      `json:"amount"`
	Reason         *string      `json:"reason,omitempty"`
	Status         TicketStatus `json:"status"`
	IsArchived     bool         `json:"is_archived"`
	IsClassified   bool         `json:"is_classified"`
	AttachmentKeys []string     `json:"attachment_keys,omitempty"`
}

// TransferItem is a single product line within a stock transfer.
type TransferItem struct {
	SKU      string `json:"sku"`
	Label    string `json:"label"`
	Quantity int    `json:"quantity"`
}

// Transfer is a stock transfer request between two locations.
type Transfer struct {
	Base
	StoreID     string         `json:"store_id"`
	Reference   string         `json:"reference"`
	Origin      string         `json:"origin"`
	Destination string         `json:"destination"`
	Items       []TransferItem `json:"items"`
	Notes       *string        `json:"notes,omitempty"`
	Status      TransferStatus `json:"status"`
}

// CegidUser is an ERP user provisioning request. UserLogin is assigned by an
// admin when the request is processed.
type CegidUser struct {
	Base
	StoreID      string          `json:"store_id"`
	EmployeeName string          `json:"employee_name"`
	EmployeeID   string          `json:"employee_id"`
	Profile      string          `json:"profile"`
	Status       CegidUserStatus `json:"status"`
	UserLogin    *string         `json:"user_login,omitempty"`
}

// Voucher is a purchase voucher verification request. ValidatedBy records the
// admin actor that moved it to validated.
type Voucher struct {
	Base
	StoreID         string        `json:"store_id"`
	ReferenceNumber string        `json:"reference_number"`
	Amount          float64       `json:"amount"`
	HolderName      string        `json:"holder_name"`
	HolderID        string        `json:"holder_id"`
	Type            string        `json:"type"`
	Status          VoucherStatus `json:"status"`
	ValidatedBy     *string       `json:"validated_by,omitempty"`
	AttachmentKeys  []string      `json:"attachment_keys,omitempty"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
