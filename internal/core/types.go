// Package core implements the request lifecycle service: authorization,
// lifecycle rules, statistics and storage selection on top of the domain
// persistence contracts.
package core

import "retailcore/pkg/domain"

// Aliases keep service signatures concise while exposing domain types.
type (
	Actor           = domain.Actor
	Store           = domain.Store
	District        = domain.District
	Ticket          = domain.Ticket
	Transfer        = domain.Transfer
	CegidUser       = domain.CegidUser
	Voucher         = domain.Voucher
	Change          = domain.Change
	Result          = domain.Result
	RulesEngine     = domain.RulesEngine
	Transaction     = domain.Transaction
	TransactionView = domain.TransactionView
	PersistentStore = domain.PersistentStore
)
