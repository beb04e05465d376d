package core

import (
	"context"
	"sort"
	"strings"
	"time"

	"retailcore/internal/blob"
	"retailcore/pkg/domain"
)

// Service exposes the transactional request lifecycle operations: directory
// management, request submission, reviewed transitions and scoped listings.
// Every mutation runs inside a single store transaction so authorization,
// optimistic concurrency and commit-time rules observe one consistent state.
type Service struct {
	store   PersistentStore
	blobs   blob.Store
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	events  EventSink
	nowFn   func() time.Time
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithLogger installs a structured logger.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics installs a metrics recorder.
func WithMetrics(metrics MetricsRecorder) Option {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithTracer installs a tracer.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithEventSink installs a sink for committed state changes.
func WithEventSink(sink EventSink) Option {
	return func(s *Service) {
		if sink != nil {
			s.events = sink
		}
	}
}

// WithNowFunc overrides the service clock, used by tests.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// NewService constructs a service backed by the supplied persistent store.
func NewService(store PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		events:  noopSink{},
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying persistent store.
func (s *Service) Store() PersistentStore { return s.store }

// run wraps an operation with tracing, metrics and failure logging.
func (s *Service) run(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, operation)
	start := time.Now()
	err := fn(ctx)
	s.metrics.Observe(ctx, operation, err == nil, time.Since(start))
	span.End(err)
	if err != nil {
		s.logger.Warn("operation failed", "operation", operation, "error", err)
	} else {
		s.logger.Debug("operation completed", "operation", operation)
	}
	return err
}

func (s *Service) publish(event StateChange) {
	s.events.Publish(event)
}

// ---- directory operations ----

// CreateActor registers an authenticated principal. Admin authority is
// required except for the very first actor, which bootstraps the directory.
func (s *Service) CreateActor(ctx context.Context, requester Actor, actor Actor) (Actor, Result, error) {
	var created Actor
	var res Result
	err := s.run(ctx, "create_actor", func(ctx context.Context) error {
		if err := validateActor(actor); err != nil {
			return err
		}
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if len(tx.Snapshot().ListActors()) > 0 {
				if aErr := authorizeAdmin(requester); aErr != nil {
					return aErr
				}
			}
			var txErr error
			created, txErr = tx.CreateActor(actor)
			return txErr
		})
		return err
	})
	return created, res, err
}

// CreateStore registers a retail store owned by a store-role actor.
func (s *Service) CreateStore(ctx context.Context, requester Actor, store Store) (Store, Result, error) {
	var created Store
	var res Result
	err := s.run(ctx, "create_store", func(ctx context.Context) error {
		if err := authorizeAdmin(requester); err != nil {
			return err
		}
		if strings.TrimSpace(store.Name) == "" {
			return domain.ValidationError{Field: "name", Reason: "must not be empty"}
		}
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			owner, ok := tx.FindActor(store.ActorID)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityActor, ID: store.ActorID}
			}
			if owner.Role != domain.RoleStore {
				return domain.ValidationError{Field: "actor_id", Reason: "store owner must hold the store role"}
			}
			store.DistrictIDs = nil
			var txErr error
			created, txErr = tx.CreateStore(store)
			if txErr != nil {
				return txErr
			}
			_, txErr = tx.UpdateActor(owner.ID, func(a *Actor) error {
				a.StoreID = &created.ID
				return nil
			})
			return txErr
		})
		return err
	})
	return created, res, err
}

// CreateDistrict registers a district owned by a district-role actor.
func (s *Service) CreateDistrict(ctx context.Context, requester Actor, district District) (District, Result, error) {
	var created District
	var res Result
	err := s.run(ctx, "create_district", func(ctx context.Context) error {
		if err := authorizeAdmin(requester); err != nil {
			return err
		}
		if strings.TrimSpace(district.Name) == "" {
			return domain.ValidationError{Field: "name", Reason: "must not be empty"}
		}
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			owner, ok := tx.FindActor(district.ActorID)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityActor, ID: district.ActorID}
			}
			if owner.Role != domain.RoleDistrict {
				return domain.ValidationError{Field: "actor_id", Reason: "district owner must hold the district role"}
			}
			district.StoreIDs = nil
			var txErr error
			created, txErr = tx.CreateDistrict(district)
			if txErr != nil {
				return txErr
			}
			_, txErr = tx.UpdateActor(owner.ID, func(a *Actor) error {
				a.DistrictID = &created.ID
				return nil
			})
			return txErr
		})
		return err
	})
	return created, res, err
}

// LinkStoreDistrict adds a store to a district, mirroring the membership on
// both sides within one transaction. Linking an already linked pair is a
// no-op. Admin only.
func (s *Service) LinkStoreDistrict(ctx context.Context, requester Actor, storeID, districtID string) (Result, error) {
	var res Result
	err := s.run(ctx, "link_store_district", func(ctx context.Context) error {
		if err := authorizeAdmin(requester); err != nil {
			return err
		}
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			store, ok := tx.FindStore(storeID)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityStore, ID: storeID}
			}
			if _, ok := tx.FindDistrict(districtID); !ok {
				return domain.NotFoundError{Entity: domain.EntityDistrict, ID: districtID}
			}
			if containsID(store.DistrictIDs, districtID) {
				return nil
			}
			if _, txErr := tx.UpdateStore(storeID, func(st *Store) error {
				st.DistrictIDs = append(st.DistrictIDs, districtID)
				return nil
			}); txErr != nil {
				return txErr
			}
			_, txErr := tx.UpdateDistrict(districtID, func(d *District) error {
				d.StoreIDs = append(d.StoreIDs, storeID)
				return nil
			})
			return txErr
		})
		return err
	})
	return res, err
}

// UnlinkStoreDistrict removes a store from a district on both sides.
// Unlinking a pair that is not linked is a no-op. Admin only.
func (s *Service) UnlinkStoreDistrict(ctx context.Context, requester Actor, storeID, districtID string) (Result, error) {
	var res Result
	err := s.run(ctx, "unlink_store_district", func(ctx context.Context) error {
		if err := authorizeAdmin(requester); err != nil {
			return err
		}
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			store, ok := tx.FindStore(storeID)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityStore, ID: storeID}
			}
			if _, ok := tx.FindDistrict(districtID); !ok {
				return domain.NotFoundError{Entity: domain.EntityDistrict, ID: districtID}
			}
			if !containsID(store.DistrictIDs, districtID) {
				return nil
			}
			if _, txErr := tx.UpdateStore(storeID, func(st *Store) error {
				st.DistrictIDs = removeID(st.DistrictIDs, districtID)
				return nil
			}); txErr != nil {
				return txErr
			}
			_, txErr := tx.UpdateDistrict(districtID, func(d *District) error {
				d.StoreIDs = removeID(d.StoreIDs, storeID)
				return nil
			})
			return txErr
		})
		return err
	})
	return res, err
}

// ---- ticket operations ----

// SubmitTicket opens a ticket correction request for the actor's own store.
func (s *Service) SubmitTicket(ctx context.Context, actor Actor, ticket Ticket) (Ticket, Result, error) {
	var created Ticket
	var res Result
	err := s.run(ctx, "submit_ticket", func(ctx context.Context) error {
		if err := authorizeSubmit(actor, ticket.StoreID); err != nil {
			return err
		}
		if strings.TrimSpace(ticket.Code) == "" {
			return domain.ValidationError{Field: "code", Reason: "must not be empty"}
		}
		ticket.Status = domain.TicketStatusPending
		ticket.IsArchived = false
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if _, ok := tx.FindStore(ticket.StoreID); !ok {
				return domain.NotFoundError{Entity: domain.EntityStore, ID: ticket.StoreID}
			}
			var txErr error
			created, txErr = tx.CreateTicket(ticket)
			return txErr
		})
		return err
	})
	if err == nil {
		s.publish(newStateChange(domain.EntityTicket, created.ID, created.StoreID, "", string(created.Status), actor, s.nowFn()))
	}
	return created, res, err
}

// TransitionTicket moves a ticket along its lifecycle. The from status is the
// caller's optimistic precondition; a mismatch fails with a conflict. Moving
// to validated_and_processed archives the ticket.
func (s *Service) TransitionTicket(ctx context.Context, actor Actor, id string, from, to domain.TicketStatus) (Ticket, Result, error) {
	var updated Ticket
	var res Result
	var storeID string
	err := s.run(ctx, "transition_ticket", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			current, ok := tx.FindTicket(id)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityTicket, ID: id}
			}
			if aErr := authorizeTransition(tx.Snapshot(), actor, domain.EntityTicket, id, current.StoreID, string(from), string(to)); aErr != nil {
				return aErr
			}
			if current.Status != from {
				return domain.ConflictError{Entity: domain.EntityTicket, ID: id, Expected: string(from), Actual: string(current.Status)}
			}
			storeID = current.StoreID
			var txErr error
			updated, txErr = tx.UpdateTicket(id, func(t *Ticket) error {
				t.Status = to
				if to == domain.TicketStatusProcessed {
					t.IsArchived = true
				}
				return nil
			})
			return txErr
		})
		return err
	})
	if err == nil {
		s.publish(newStateChange(domain.EntityTicket, id, storeID, string(from), string(to), actor, s.nowFn()))
	}
	return updated, res, err
}

// SetTicketClassified toggles the confidential flag on a ticket. Admin only;
// the flag changes no status and may be set at any point of the lifecycle.
func (s *Service) SetTicketClassified(ctx context.Context, actor Actor, id string, classified bool) (Ticket, Result, error) {
	var updated Ticket
	var res Result
	err := s.run(ctx, "set_ticket_classified", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if _, ok := tx.FindTicket(id); !ok {
				return domain.NotFoundError{Entity: domain.EntityTicket, ID: id}
			}
			if aErr := authorizeAdmin(actor); aErr != nil {
				return aErr
			}
			var txErr error
			updated, txErr = tx.UpdateTicket(id, func(t *Ticket) error {
				t.IsClassified = classified
				return nil
			})
			return txErr
		})
		return err
	})
	return updated, res, err
}

// DeleteTicket removes a ticket record entirely. Permitted for admins
// unconditionally and for the owning store actor; tickets are the only
// request kind that supports hard deletion.
func (s *Service) DeleteTicket(ctx context.Context, actor Actor, id string) (Result, error) {
	var res Result
	err := s.run(ctx, "delete_ticket", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			current, ok := tx.FindTicket(id)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityTicket, ID: id}
			}
			if actor.Role != domain.RoleAdmin {
				if actor.Role != domain.RoleStore || actor.StoreID == nil || *actor.StoreID != current.StoreID {
					return domain.ForbiddenError{Reason: "only admins or the owning store may delete a ticket"}
				}
			}
			return tx.DeleteTicket(id)
		})
		return err
	})
	return res, err
}

// ---- transfer operations ----

// SubmitTransfer opens a stock transfer request for the actor's own store.
func (s *Service) SubmitTransfer(ctx context.Context, actor Actor, transfer Transfer) (Transfer, Result, error) {
	var created Transfer
	var res Result
	err := s.run(ctx, "submit_transfer", func(ctx context.Context) error {
		if err := authorizeSubmit(actor, transfer.StoreID); err != nil {
			return err
		}
		if strings.TrimSpace(transfer.Reference) == "" {
			return domain.ValidationError{Field: "reference", Reason: "must not be empty"}
		}
		if len(transfer.Items) == 0 {
			return domain.ValidationError{Field: "items", Reason: "must contain at least one line"}
		}
		for _, item := range transfer.Items {
			if item.Quantity <= 0 {
				return domain.ValidationError{Field: "items", Reason: "quantities must be positive"}
			}
		}
		transfer.Status = domain.TransferStatusPending
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if _, ok := tx.FindStore(transfer.StoreID); !ok {
				return domain.NotFoundError{Entity: domain.EntityStore, ID: transfer.StoreID}
			}
			var txErr error
			created, txErr = tx.CreateTransfer(transfer)
			return txErr
		})
		return err
	})
	if err == nil {
		s.publish(newStateChange(domain.EntityTransfer, created.ID, created.StoreID, "", string(created.Status), actor, s.nowFn()))
	}
	return created, res, err
}

// TransferUpdate carries the editable fields of a pending transfer.
type TransferUpdate struct {
	Origin      *string
	Destination *string
	Items       []domain.TransferItem
	Notes       *string
}

// UpdateTransfer edits a transfer that is still pending. Only the owning
// store actor may edit, and only while no reviewer has acted.
func (s *Service) UpdateTransfer(ctx context.Context, actor Actor, id string, update TransferUpdate) (Transfer, Result, error) {
	var updated Transfer
	var res Result
	err := s.run(ctx, "update_transfer", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			current, ok := tx.FindTransfer(id)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityTransfer, ID: id}
			}
			if actor.Role != domain.RoleStore || actor.StoreID == nil || *actor.StoreID != current.StoreID {
				return domain.ForbiddenError{Reason: "only the owning store may edit a transfer"}
			}
			if current.Status != domain.TransferStatusPending {
				return domain.InvalidTransitionError{Entity: domain.EntityTransfer, ID: id, From: string(current.Status), To: string(current.Status)}
			}
			if update.Items != nil {
				if len(update.Items) == 0 {
					return domain.ValidationError{Field: "items", Reason: "must contain at least one line"}
				}
				for _, item := range update.Items {
					if item.Quantity <= 0 {
						return domain.ValidationError{Field: "items", Reason: "quantities must be positive"}
					}
				}
			}
			var txErr error
			updated, txErr = tx.UpdateTransfer(id, func(t *Transfer) error {
				if update.Origin != nil {
					t.Origin = *update.Origin
				}
				if update.Destination != nil {
					t.Destination = *update.Destination
				}
				if update.Items != nil {
					t.Items = update.Items
				}
				if update.Notes != nil {
					t.Notes = update.Notes
				}
				return nil
			})
			return txErr
		})
		return err
	})
	return updated, res, err
}

// TransitionTransfer moves a transfer along its lifecycle under the caller's
// optimistic precondition.
func (s *Service) TransitionTransfer(ctx context.Context, actor Actor, id string, from, to domain.TransferStatus) (Transfer, Result, error) {
	var updated Transfer
	var res Result
	var storeID string
	err := s.run(ctx, "transition_transfer", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			current, ok := tx.FindTransfer(id)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityTransfer, ID: id}
			}
			if aErr := authorizeTransition(tx.Snapshot(), actor, domain.EntityTransfer, id, current.StoreID, string(from), string(to)); aErr != nil {
				return aErr
			}
			if current.Status != from {
				return domain.ConflictError{Entity: domain.EntityTransfer, ID: id, Expected: string(from), Actual: string(current.Status)}
			}
			storeID = current.StoreID
			var txErr error
			updated, txErr = tx.UpdateTransfer(id, func(t *Transfer) error {
				t.Status = to
				return nil
			})
			return txErr
		})
		return err
	})
	if err == nil {
		s.publish(newStateChange(domain.EntityTransfer, id, storeID, string(from), string(to), actor, s.nowFn()))
	}
	return updated, res, err
}

// ---- cegid user operations ----

// SubmitCegidUser opens an ERP account request for the actor's own store.
func (s *Service) SubmitCegidUser(ctx context.Context, actor Actor, user CegidUser) (CegidUser, Result, error) {
	var created CegidUser
	var res Result
	err := s.run(ctx, "submit_cegid_user", func(ctx context.Context) error {
		if err := authorizeSubmit(actor, user.StoreID); err != nil {
			return err
		}
		if strings.TrimSpace(user.EmployeeName) == "" {
			return domain.ValidationError{Field: "employee_name", Reason: "must not be empty"}
		}
		user.Status = domain.CegidUserStatusPending
		user.UserLogin = nil
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if _, ok := tx.FindStore(user.StoreID); !ok {
				return domain.NotFoundError{Entity: domain.EntityStore, ID: user.StoreID}
			}
			var txErr error
			created, txErr = tx.CreateCegidUser(user)
			return txErr
		})
		return err
	})
	if err == nil {
		s.publish(newStateChange(domain.EntityCegidUser, created.ID, created.StoreID, "", string(created.Status), actor, s.nowFn()))
	}
	return created, res, err
}

// TransitionCegidUser moves a cegid user request along its lifecycle under
// the caller's optimistic precondition. Use ProcessCegidUser for the final
// provisioning step, which must carry the assigned login.
func (s *Service) TransitionCegidUser(ctx context.Context, actor Actor, id string, from, to domain.CegidUserStatus) (CegidUser, Result, error) {
	if to == domain.CegidUserStatusProcessed {
		return CegidUser{}, Result{}, domain.ValidationError{Field: "status", Reason: "provisioning requires ProcessCegidUser with the assigned login"}
	}
	return s.transitionCegidUser(ctx, actor, id, from, to, nil)
}

// ProcessCegidUser finalizes a completed cegid user request, stamping the
// login assigned in the ERP. Admin only via the transition table.
func (s *Service) ProcessCegidUser(ctx context.Context, actor Actor, id, userLogin string) (CegidUser, Result, error) {
	if strings.TrimSpace(userLogin) == "" {
		return CegidUser{}, Result{}, domain.ValidationError{Field: "user_login", Reason: "must not be empty"}
	}
	return s.transitionCegidUser(ctx, actor, id, domain.CegidUserStatusCompleted, domain.CegidUserStatusProcessed, &userLogin)
}

func (s *Service) transitionCegidUser(ctx context.Context, actor Actor, id string, from, to domain.CegidUserStatus, login *string) (CegidUser, Result, error) {
	var updated CegidUser
	var res Result
	var storeID string
	err := s.run(ctx, "transition_cegid_user", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			current, ok := tx.FindCegidUser(id)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityCegidUser, ID: id}
			}
			if aErr := authorizeTransition(tx.Snapshot(), actor, domain.EntityCegidUser, id, current.StoreID, string(from), string(to)); aErr != nil {
				return aErr
			}
			if current.Status != from {
				return domain.ConflictError{Entity: domain.EntityCegidUser, ID: id, Expected: string(from), Actual: string(current.Status)}
			}
			storeID = current.StoreID
			var txErr error
			updated, txErr = tx.UpdateCegidUser(id, func(u *CegidUser) error {
				u.Status = to
				if login != nil {
					u.UserLogin = login
				}
				return nil
			})
			return txErr
		})
		return err
	})
	if err == nil {
		s.publish(newStateChange(domain.EntityCegidUser, id, storeID, string(from), string(to), actor, s.nowFn()))
	}
	return updated, res, err
}

// ---- voucher operations ----

// SubmitVoucher opens a voucher verification request for the actor's own store.
func (s *Service) SubmitVoucher(ctx context.Context, actor Actor, voucher Voucher) (Voucher, Result, error) {
	var created Voucher
	var res Result
	err := s.run(ctx, "submit_voucher", func(ctx context.Context) error {
		if err := authorizeSubmit(actor, voucher.StoreID); err != nil {
			return err
		}
		if strings.TrimSpace(voucher.ReferenceNumber) == "" {
			return domain.ValidationError{Field: "reference_number", Reason: "must not be empty"}
		}
		if voucher.Amount <= 0 {
			return domain.ValidationError{Field: "amount", Reason: "must be positive"}
		}
		voucher.Status = domain.VoucherStatusPending
		voucher.ValidatedBy = nil
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if _, ok := tx.FindStore(voucher.StoreID); !ok {
				return domain.NotFoundError{Entity: domain.EntityStore, ID: voucher.StoreID}
			}
			var txErr error
			created, txErr = tx.CreateVoucher(voucher)
			return txErr
		})
		return err
	})
	if err == nil {
		s.publish(newStateChange(domain.EntityVoucher, created.ID, created.StoreID, "", string(created.Status), actor, s.nowFn()))
	}
	return created, res, err
}

// TransitionVoucher decides a pending voucher. Every voucher decision is a
// single admin step; a validated voucher records the deciding admin.
func (s *Service) TransitionVoucher(ctx context.Context, actor Actor, id string, from, to domain.VoucherStatus) (Voucher, Result, error) {
	var updated Voucher
	var res Result
	var storeID string
	err := s.run(ctx, "transition_voucher", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			current, ok := tx.FindVoucher(id)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityVoucher, ID: id}
			}
			if aErr := authorizeTransition(tx.Snapshot(), actor, domain.EntityVoucher, id, current.StoreID, string(from), string(to)); aErr != nil {
				return aErr
			}
			if current.Status != from {
				return domain.ConflictError{Entity: domain.EntityVoucher, ID: id, Expected: string(from), Actual: string(current.Status)}
			}
			storeID = current.StoreID
			var txErr error
			updated, txErr = tx.UpdateVoucher(id, func(v *Voucher) error {
				v.Status = to
				if to == domain.VoucherStatusValidated {
					email := actor.Email
					v.ValidatedBy = &email
				}
				return nil
			})
			return txErr
		})
		return err
	})
	if err == nil {
		s.publish(newStateChange(domain.EntityVoucher, id, storeID, string(from), string(to), actor, s.nowFn()))
	}
	return updated, res, err
}

// ---- scoped listings ----

// ListTickets returns the tickets visible to the actor, newest first.
func (s *Service) ListTickets(ctx context.Context, actor Actor) ([]Ticket, error) {
	var out []Ticket
	err := s.run(ctx, "list_tickets", func(ctx context.Context) error {
		return s.store.View(ctx, func(view TransactionView) error {
			scope := scopeFor(view, actor)
			for _, t := range view.ListTickets() {
				if scope.includes(t.StoreID) {
					out = append(out, t)
				}
			}
			sortNewestFirst(out, func(t Ticket) (time.Time, string) { return t.CreatedAt, t.ID })
			return nil
		})
	})
	return out, err
}

// ListTransfers returns the transfers visible to the actor, newest first.
func (s *Service) ListTransfers(ctx context.Context, actor Actor) ([]Transfer, error) {
	var out []Transfer
	err := s.run(ctx, "list_transfers", func(ctx context.Context) error {
		return s.store.View(ctx, func(view TransactionView) error {
			scope := scopeFor(view, actor)
			for _, t := range view.ListTransfers() {
				if scope.includes(t.StoreID) {
					out = append(out, t)
				}
			}
			sortNewestFirst(out, func(t Transfer) (time.Time, string) { return t.CreatedAt, t.ID })
			return nil
		})
	})
	return out, err
}

// ListCegidUsers returns the cegid user requests visible to the actor, newest first.
func (s *Service) ListCegidUsers(ctx context.Context, actor Actor) ([]CegidUser, error) {
	var out []CegidUser
	err := s.run(ctx, "list_cegid_users", func(ctx context.Context) error {
		return s.store.View(ctx, func(view TransactionView) error {
			scope := scopeFor(view, actor)
			for _, u := range view.ListCegidUsers() {
				if scope.includes(u.StoreID) {
					out = append(out, u)
				}
			}
			sortNewestFirst(out, func(u CegidUser) (time.Time, string) { return u.CreatedAt, u.ID })
			return nil
		})
	})
	return out, err
}

// ListVouchers returns the vouchers visible to the actor, newest first.
func (s *Service) ListVouchers(ctx context.Context, actor Actor) ([]Voucher, error) {
	var out []Voucher
	err := s.run(ctx, "list_vouchers", func(ctx context.Context) error {
		return s.store.View(ctx, func(view TransactionView) error {
			scope := scopeFor(view, actor)
			for _, v := range view.ListVouchers() {
				if scope.includes(v.StoreID) {
					out = append(out, v)
				}
			}
			sortNewestFirst(out, func(v Voucher) (time.Time, string) { return v.CreatedAt, v.ID })
			return nil
		})
	})
	return out, err
}

// GetTicket returns a single ticket if it falls within the actor's scope.
func (s *Service) GetTicket(ctx context.Context, actor Actor, id string) (Ticket, error) {
	var out Ticket
	err := s.run(ctx, "get_ticket", func(ctx context.Context) error {
		return s.store.View(ctx, func(view TransactionView) error {
			t, ok := view.FindTicket(id)
			if !ok {
				return domain.NotFoundError{Entity: domain.EntityTicket, ID: id}
			}
			if !scopeFor(view, actor).includes(t.StoreID) {
				return domain.ForbiddenError{Reason: "ticket is outside the actor's scope"}
			}
			out = t
			return nil
		})
	})
	return out, err
}

func validateActor(actor Actor) error {
	if strings.TrimSpace(actor.Email) == "" {
		return domain.ValidationError{Field: "email", Reason: "must not be empty"}
	}
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleDistrict, domain.RoleStore, domain.RoleConsulting:
		return nil
	default:
		return domain.ValidationError{Field: "role", Reason: "unknown role"}
	}
}

// authorizeReview allows admins globally and district actors whose district
// currently includes the store.
func authorizeReview(view domain.RuleView, actor Actor, storeID string) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleDistrict:
		if actor.DistrictID != nil && domain.Linked(view, *actor.DistrictID, storeID) {
			return nil
		}
		return domain.ForbiddenError{Reason: "store is outside the actor's district"}
	default:
		return domain.ForbiddenError{Reason: "review authority required"}
	}
}

func sortNewestFirst[T any](items []T, key func(T) (time.Time, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti.Equal(tj) {
			return idi > idj
		}
		return ti.After(tj)
	})
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
