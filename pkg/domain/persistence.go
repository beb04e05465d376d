package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreateActor(Actor) (Actor, error)
	UpdateActor(id string, mutator func(*Actor) error) (Actor, error)
	CreateStore(Store) (Store, error)
	UpdateStore(id string, mutator func(*Store) error) (Store, error)
	CreateDistrict(District) (District, error)
	UpdateDistrict(id string, mutator func(*District) error) (District, error)
	CreateTicket(Ticket) (Ticket, error)
	UpdateTicket(id string, mutator func(*Ticket) error) (Ticket, error)
	DeleteTicket(id string) error
	CreateTransfer(Transfer) (Transfer, error)
	UpdateTransfer(id string, mutator func(*Transfer) error) (Transfer, error)
	CreateCegidUser(CegidUser) (CegidUser, error)
	UpdateCegidUser(id string, mutator func(*CegidUser) error) (CegidUser, error)
	CreateVoucher(Voucher) (Voucher, error)
	UpdateVoucher(id string, mutator func(*Voucher) error) (Voucher, error)
	FindActor(id string) (Actor, bool)
	FindStore(id string) (Store, bool)
	FindDistrict(id string) (District, bool)
	FindTicket(id string) (Ticket, bool)
	FindTransfer(id string) (Transfer, bool)
	FindCegidUser(id string) (CegidUser, bool)
	FindVoucher(id string) (Voucher, bool)
}

// TransactionView provides read-only access to snapshot data for rules and
// hierarchy resolution.
type TransactionView interface {
	RuleView
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetActor(id string) (Actor, bool)
	GetStore(id string) (Store, bool)
	GetDistrict(id string) (District, bool)
	GetTicket(id string) (Ticket, bool)
	GetTransfer(id string) (Transfer, bool)
	GetCegidUser(id string) (CegidUser, bool)
	GetVoucher(id string) (Voucher, bool)
	ListActors() []Actor
	ListStores() []Store
	ListDistricts() []District
	ListTickets() []Ticket
	ListTransfers() []Transfer
	ListCegidUsers() []CegidUser
	ListVouchers() []Voucher
}
