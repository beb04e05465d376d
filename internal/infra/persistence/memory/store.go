// Package memory provides an in-memory implementation of the core persistence
// store used for tests and ephemeral environments.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"retailcore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Actor aliases domain.Actor for in-memory persistence operations.
	Actor = domain.Actor
	// StoreRecord aliases domain.Store. Named to avoid clashing with the store type itself.
	StoreRecord = domain.Store
	// District aliases domain.District.
	District = domain.District
	// Ticket aliases domain.Ticket.
	Ticket = domain.Ticket
	// Transfer aliases domain.Transfer.
	Transfer = domain.Transfer
	// CegidUser aliases domain.CegidUser.
	CegidUser = domain.CegidUser
	// Voucher aliases domain.Voucher.
	Voucher = domain.Voucher
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

type memoryState struct {
	actors     map[string]Actor
	stores     map[string]StoreRecord
	districts  map[string]District
	tickets    map[string]Ticket
	transfers  map[string]Transfer
	cegidUsers map[string]CegidUser
	vouchers   map[string]Voucher
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Actors     map[string]Actor       `json:"actors"`
	Stores     map[string]StoreRecord `json:"stores"`
	Districts  map[string]District    `json:"districts"`
	Tickets    map[string]Ticket      `json:"tickets"`
	Transfers  map[string]Transfer    `json:"transfers"`
	CegidUsers map[string]CegidUser   `json:"cegid_users"`
	Vouchers   map[string]Voucher     `json:"vouchers"`
}

func newMemoryState() memoryState {
	return memoryState{
		actors:     make(map[string]Actor),
		stores:     make(map[string]StoreRecord),
		districts:  make(map[string]District),
		tickets:    make(map[string]Ticket),
		transfers:  make(map[string]Transfer),
		cegidUsers: make(map[string]CegidUser),
		vouchers:   make(map[string]Voucher),
	}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.actors {
		cloned.actors[k] = cloneActor(v)
	}
	for k, v := range s.stores {
		cloned.stores[k] = cloneStore(v)
	}
	for k, v := range s.districts {
		cloned.districts[k] = cloneDistrict(v)
	}
	for k, v := range s.tickets {
		cloned.tickets[k] = cloneTicket(v)
	}
	for k, v := range s.transfers {
		cloned.transfers[k] = cloneTransfer(v)
	}
	for k, v := range s.cegidUsers {
		cloned.cegidUsers[k] = cloneCegidUser(v)
	}
	for k, v := range s.vouchers {
		cloned.vouchers[k] = cloneVoucher(v)
	}
	return cloned
}

func cloneActor(a Actor) Actor {
	cp := a
	cp.StoreID = clonePtr(a.StoreID)
	cp.DistrictID = clonePtr(a.DistrictID)
	return cp
}

func cloneStore(s StoreRecord) StoreRecord {
	cp := s
	cp.DistrictIDs = append([]string(nil), s.DistrictIDs...)
	return cp
}

func cloneDistrict(d District) District {
	cp := d
	cp.StoreIDs = append([]string(nil), d.StoreIDs...)
	return cp
}

func cloneTicket(t Ticket) Ticket {
	cp := t
	cp.Reason = clonePtr(t.Reason)
	cp.AttachmentKeys = append([]string(nil), t.AttachmentKeys...)
	return cp
}

func cloneTransfer(t Transfer) Transfer {
	cp := t
	cp.Items = append([]domain.TransferItem(nil), t.Items...)
	cp.Notes = clonePtr(t.Notes)
	return cp
}

func cloneCegidUser(u CegidUser) CegidUser {
	cp := u
	cp.UserLogin = clonePtr(u.UserLogin)
	return cp
}

func cloneVoucher(v Voucher) Voucher {
	cp := v
	cp.ValidatedBy = clonePtr(v.ValidatedBy)
	cp.AttachmentKeys = append([]string(nil), v.AttachmentKeys...)
	return cp
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// SetNowFunc overrides the transaction clock. Intended for tests.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		s.nowFn = fn
	}
}

func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ExportState returns a deep snapshot of the committed state.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromState(s.state)
}

// ImportState replaces the committed state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateFromSnapshot(migrateSnapshot(snapshot))
}

func snapshotFromState(state memoryState) Snapshot {
	snap := Snapshot{
		Actors:     make(map[string]Actor, len(state.actors)),
		Stores:     make(map[string]StoreRecord, len(state.stores)),
		Districts:  make(map[string]District, len(state.districts)),
		Tickets:    make(map[string]Ticket, len(state.tickets)),
		Transfers:  make(map[string]Transfer, len(state.transfers)),
		CegidUsers: make(map[string]CegidUser, len(state.cegidUsers)),
		Vouchers:   make(map[string]Voucher, len(state.vouchers)),
	}
	for k, v := range state.actors {
		snap.Actors[k] = cloneActor(v)
	}
	for k, v := range state.stores {
		snap.Stores[k] = cloneStore(v)
	}
	for k, v := range state.districts {
		snap.Districts[k] = cloneDistrict(v)
	}
	for k, v := range state.tickets {
		snap.Tickets[k] = cloneTicket(v)
	}
	for k, v := range state.transfers {
		snap.Transfers[k] = cloneTransfer(v)
	}
	for k, v := range state.cegidUsers {
		snap.CegidUsers[k] = cloneCegidUser(v)
	}
	for k, v := range state.vouchers {
		snap.Vouchers[k] = cloneVoucher(v)
	}
	return snap
}

func stateFromSnapshot(snap Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range snap.Actors {
		state.actors[k] = cloneActor(v)
	}
	for k, v := range snap.Stores {
		state.stores[k] = cloneStore(v)
	}
	for k, v := range snap.Districts {
		state.districts[k] = cloneDistrict(v)
	}
	for k, v := range snap.Tickets {
		state.tickets[k] = cloneTicket(v)
	}
	for k, v := range snap.Transfers {
		state.transfers[k] = cloneTransfer(v)
	}
	for k, v := range snap.CegidUsers {
		state.cegidUsers[k] = cloneCegidUser(v)
	}
	for k, v := range snap.Vouchers {
		state.vouchers[k] = cloneVoucher(v)
	}
	return state
}

func migrateSnapshot(snapshot Snapshot) Snapshot {
	if snapshot.Actors == nil {
		snapshot.Actors = map[string]Actor{}
	}
	if snapshot.Stores == nil {
		snapshot.Stores = map[string]StoreRecord{}
	}
	if snapshot.Districts == nil {
		snapshot.Districts = map[string]District{}
	}
	if snapshot.Tickets == nil {
		snapshot.Tickets = map[string]Ticket{}
	}
	if snapshot.Transfers == nil {
		snapshot.Transfers = map[string]Transfer{}
	}
	if snapshot.CegidUsers == nil {
		snapshot.CegidUsers = map[string]CegidUser{}
	}
	if snapshot.Vouchers == nil {
		snapshot.Vouchers = map[string]Voucher{}
	}
	return snapshot
}

// RunInTransaction executes fn within a transactional copy of the store state.
// The copy is committed only when fn succeeds and no registered rule blocks.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := &view{state: &tx.state}
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(&view{state: &snapshot})
}

// transaction is the mutable unit of work handed to RunInTransaction callers.
type transaction struct {
	state   memoryState
	changes []Change
	now     time.Time
}

var _ Transaction = (*transaction)(nil)

func (tx *transaction) Snapshot() TransactionView {
	return &view{state: &tx.state}
}

func (tx *transaction) record(change Change) {
	tx.changes = append(tx.changes, change)
}

// CreateActor stores a new actor within the transaction.
func (tx *transaction) CreateActor(a Actor) (Actor, error) {
	if a.ID == "" {
		a.ID = newID()
	}
	if _, exists := tx.state.actors[a.ID]; exists {
		return Actor{}, domain.ValidationError{Field: "id", Reason: "actor " + a.ID + " already exists"}
	}
	a.CreatedAt = tx.now
	a.UpdatedAt = tx.now
	tx.state.actors[a.ID] = cloneActor(a)
	tx.record(Change{Entity: domain.EntityActor, Action: domain.ActionCreate, After: cloneActor(a)})
	return cloneActor(a), nil
}

// UpdateActor mutates an actor using the provided mutator function.
func (tx *transaction) UpdateActor(id string, mutator func(*Actor) error) (Actor, error) {
	current, ok := tx.state.actors[id]
	if !ok {
		return Actor{}, domain.NotFoundError{Entity: domain.EntityActor, ID: id}
	}
	before := cloneActor(current)
	if err := mutator(&current); err != nil {
		return Actor{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.actors[id] = cloneActor(current)
	tx.record(Change{Entity: domain.EntityActor, Action: domain.ActionUpdate, Before: before, After: cloneActor(current)})
	return cloneActor(current), nil
}

// CreateStore stores a new store record.
func (tx *transaction) CreateStore(st StoreRecord) (StoreRecord, error) {
	if st.ID == "" {
		st.ID = newID()
	}
	if _, exists := tx.state.stores[st.ID]; exists {
		return StoreRecord{}, domain.ValidationError{Field: "id", Reason: "store " + st.ID + " already exists"}
	}
	st.CreatedAt = tx.now
	st.UpdatedAt = tx.now
	tx.state.stores[st.ID] = cloneStore(st)
	tx.record(Change{Entity: domain.EntityStore, Action: domain.ActionCreate, After: cloneStore(st)})
	return cloneStore(st), nil
}

// UpdateStore mutates an existing store record.
func (tx *transaction) UpdateStore(id string, mutator func(*StoreRecord) error) (StoreRecord, error) {
	current, ok := tx.state.stores[id]
	if !ok {
		return StoreRecord{}, domain.NotFoundError{Entity: domain.EntityStore, ID: id}
	}
	before := cloneStore(current)
	if err := mutator(&current); err != nil {
		return StoreRecord{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.stores[id] = cloneStore(current)
	tx.record(Change{Entity: domain.EntityStore, Action: domain.ActionUpdate, Before: before, After: cloneStore(current)})
	return cloneStore(current), nil
}

// CreateDistrict stores a new district record.
func (tx *transaction) CreateDistrict(d District) (District, error) {
	if d.ID == "" {
		d.ID = newID()
	}
	if _, exists := tx.state.districts[d.ID]; exists {
		return District{}, domain.ValidationError{Field: "id", Reason: "district " + d.ID + " already exists"}
	}
	d.CreatedAt = tx.now
	d.UpdatedAt = tx.now
	tx.state.districts[d.ID] = cloneDistrict(d)
	tx.record(Change{Entity: domain.EntityDistrict, Action: domain.ActionCreate, After: cloneDistrict(d)})
	return cloneDistrict(d), nil
}

// UpdateDistrict mutates an existing district record.
func (tx *transaction) UpdateDistrict(id string, mutator func(*District) error) (District, error) {
	current, ok := tx.state.districts[id]
	if !ok {
		return District{}, domain.NotFoundError{Entity: domain.EntityDistrict, ID: id}
	}
	before := cloneDistrict(current)
	if err := mutator(&current); err != nil {
		return District{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.districts[id] = cloneDistrict(current)
	tx.record(Change{Entity: domain.EntityDistrict, Action: domain.ActionUpdate, Before: before, After: cloneDistrict(current)})
	return cloneDistrict(current), nil
}

// CreateTicket stores a new ticket request.
func (tx *transaction) CreateTicket(t Ticket) (Ticket, error) {
	if t.ID == "" {
		t.ID = newID()
	}
	if _, exists := tx.state.tickets[t.ID]; exists {
		return Ticket{}, domain.ValidationError{Field: "id", Reason: "ticket " + t.ID + " already exists"}
	}
	t.CreatedAt = tx.now
	t.UpdatedAt = tx.now
	tx.state.tickets[t.ID] = cloneTicket(t)
	tx.record(Change{Entity: domain.EntityTicket, Action: domain.ActionCreate, After: cloneTicket(t)})
	return cloneTicket(t), nil
}

// UpdateTicket mutates a ticket request.
func (tx *transaction) UpdateTicket(id string, mutator func(*Ticket) error) (Ticket, error) {
	current, ok := tx.state.tickets[id]
	if !ok {
		return Ticket{}, domain.NotFoundError{Entity: domain.EntityTicket, ID: id}
	}
	before := cloneTicket(current)
	if err := mutator(&current); err != nil {
		return Ticket{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.tickets[id] = cloneTicket(current)
	tx.record(Change{Entity: domain.EntityTicket, Action: domain.ActionUpdate, Before: before, After: cloneTicket(current)})
	return cloneTicket(current), nil
}

// DeleteTicket removes a ticket. Tickets are the only request kind that
// supports hard deletion.
func (tx *transaction) DeleteTicket(id string) error {
	current, ok := tx.state.tickets[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityTicket, ID: id}
	}
	delete(tx.state.tickets, id)
	tx.record(Change{Entity: domain.EntityTicket, Action: domain.ActionDelete, Before: cloneTicket(current)})
	return nil
}

// CreateTransfer stores a new transfer request.
func (tx *transaction) CreateTransfer(t Transfer) (Transfer, error) {
	if t.ID == "" {
		t.ID = newID()
	}
	if _, exists := tx.state.transfers[t.ID]; exists {
		return Transfer{}, domain.ValidationError{Field: "id", Reason: "transfer " + t.ID + " already exists"}
	}
	t.CreatedAt = tx.now
	t.UpdatedAt = tx.now
	tx.state.transfers[t.ID] = cloneTransfer(t)
	tx.record(Change{Entity: domain.EntityTransfer, Action: domain.ActionCreate, After: cloneTransfer(t)})
	return cloneTransfer(t), nil
}

// UpdateTransfer mutates a transfer request.
func (tx *transaction) UpdateTransfer(id string, mutator func(*Transfer) error) (Transfer, error) {
	current, ok := tx.state.transfers[id]
	if !ok {
		return Transfer{}, domain.NotFoundError{Entity: domain.EntityTransfer, ID: id}
	}
	before := cloneTransfer(current)
	if err := mutator(&current); err != nil {
		return Transfer{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.transfers[id] = cloneTransfer(current)
	tx.record(Change{Entity: domain.EntityTransfer, Action: domain.ActionUpdate, Before: before, After: cloneTransfer(current)})
	return cloneTransfer(current), nil
}

// CreateCegidUser stores a new user provisioning request.
func (tx *transaction) CreateCegidUser(u CegidUser) (CegidUser, error) {
	if u.ID == "" {
		u.ID = newID()
	}
	if _, exists := tx.state.cegidUsers[u.ID]; exists {
		return CegidUser{}, domain.ValidationError{Field: "id", Reason: "cegid user " + u.ID + " already exists"}
	}
	u.CreatedAt = tx.now
	u.UpdatedAt = tx.now
	tx.state.cegidUsers[u.ID] = cloneCegidUser(u)
	tx.record(Change{Entity: domain.EntityCegidUser, Action: domain.ActionCreate, After: cloneCegidUser(u)})
	return cloneCegidUser(u), nil
}

// UpdateCegidUser mutates a user provisioning request.
func (tx *transaction) UpdateCegidUser(id string, mutator func(*CegidUser) error) (CegidUser, error) {
	current, ok := tx.state.cegidUsers[id]
	if !ok {
		return CegidUser{}, domain.NotFoundError{Entity: domain.EntityCegidUser, ID: id}
	}
	before := cloneCegidUser(current)
	if err := mutator(&current); err != nil {
		return CegidUser{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.cegidUsers[id] = cloneCegidUser(current)
	tx.record(Change{Entity: domain.EntityCegidUser, Action: domain.ActionUpdate, Before: before, After: cloneCegidUser(current)})
	return cloneCegidUser(current), nil
}

// CreateVoucher stores a new voucher verification request.
func (tx *transaction) CreateVoucher(v Voucher) (Voucher, error) {
	if v.ID == "" {
		v.ID = newID()
	}
	if _, exists := tx.state.vouchers[v.ID]; exists {
		return Voucher{}, domain.ValidationError{Field: "id", Reason: "voucher " + v.ID + " already exists"}
	}
	v.CreatedAt = tx.now
	v.UpdatedAt = tx.now
	tx.state.vouchers[v.ID] = cloneVoucher(v)
	tx.record(Change{Entity: domain.EntityVoucher, Action: domain.ActionCreate, After: cloneVoucher(v)})
	return cloneVoucher(v), nil
}

// UpdateVoucher mutates a voucher verification request.
func (tx *transaction) UpdateVoucher(id string, mutator func(*Voucher) error) (Voucher, error) {
	current, ok := tx.state.vouchers[id]
	if !ok {
		return Voucher{}, domain.NotFoundError{Entity: domain.EntityVoucher, ID: id}
	}
	before := cloneVoucher(current)
	if err := mutator(&current); err != nil {
		return Voucher{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.vouchers[id] = cloneVoucher(current)
	tx.record(Change{Entity: domain.EntityVoucher, Action: domain.ActionUpdate, Before: before, After: cloneVoucher(current)})
	return cloneVoucher(current), nil
}

// Transaction-scoped finders --------------------------------------------------

func (tx *transaction) FindActor(id string) (Actor, bool)         { return findActor(&tx.state, id) }
func (tx *transaction) FindStore(id string) (StoreRecord, bool)   { return findStore(&tx.state, id) }
func (tx *transaction) FindDistrict(id string) (District, bool)   { return findDistrict(&tx.state, id) }
func (tx *transaction) FindTicket(id string) (Ticket, bool)       { return findTicket(&tx.state, id) }
func (tx *transaction) FindTransfer(id string) (Transfer, bool)   { return findTransfer(&tx.state, id) }
func (tx *transaction) FindCegidUser(id string) (CegidUser, bool) { return findCegidUser(&tx.state, id) }
func (tx *transaction) FindVoucher(id string) (Voucher, bool)     { return findVoucher(&tx.state, id) }

func findActor(state *memoryState, id string) (Actor, bool) {
	a, ok := state.actors[id]
	if !ok {
		return Actor{}, false
	}
	return cloneActor(a), true
}

func findStore(state *memoryState, id string) (StoreRecord, bool) {
	s, ok := state.stores[id]
	if !ok {
		return StoreRecord{}, false
	}
	return cloneStore(s), true
}

func findDistrict(state *memoryState, id string) (District, bool) {
	d, ok := state.districts[id]
	if !ok {
		return District{}, false
	}
	return cloneDistrict(d), true
}

func findTicket(state *memoryState, id string) (Ticket, bool) {
	t, ok := state.tickets[id]
	if !ok {
		return Ticket{}, false
	}
	return cloneTicket(t), true
}

func findTransfer(state *memoryState, id string) (Transfer, bool) {
	t, ok := state.transfers[id]
	if !ok {
		return Transfer{}, false
	}
	return cloneTransfer(t), true
}

func findCegidUser(state *memoryState, id string) (CegidUser, bool) {
	u, ok := state.cegidUsers[id]
	if !ok {
		return CegidUser{}, false
	}
	return cloneCegidUser(u), true
}

func findVoucher(state *memoryState, id string) (Voucher, bool) {
	v, ok := state.vouchers[id]
	if !ok {
		return Voucher{}, false
	}
	return cloneVoucher(v), true
}

// view exposes a read-only snapshot of transactional state to rules and
// hierarchy resolution.
type view struct {
	state *memoryState
}

var _ TransactionView = (*view)(nil)

func (v *view) ListActors() []Actor {
	out := make([]Actor, 0, len(v.state.actors))
	for _, a := range v.state.actors {
		out = append(out, cloneActor(a))
	}
	return out
}

func (v *view) ListStores() []StoreRecord {
	out := make([]StoreRecord, 0, len(v.state.stores))
	for _, s := range v.state.stores {
		out = append(out, cloneStore(s))
	}
	return out
}

func (v *view) ListDistricts() []District {
	out := make([]District, 0, len(v.state.districts))
	for _, d := range v.state.districts {
		out = append(out, cloneDistrict(d))
	}
	return out
}

func (v *view) ListTickets() []Ticket {
	out := make([]Ticket, 0, len(v.state.tickets))
	for _, t := range v.state.tickets {
		out = append(out, cloneTicket(t))
	}
	return out
}

func (v *view) ListTransfers() []Transfer {
	out := make([]Transfer, 0, len(v.state.transfers))
	for _, t := range v.state.transfers {
		out = append(out, cloneTransfer(t))
	}
	return out
}

func (v *view) ListCegidUsers() []CegidUser {
	out := make([]CegidUser, 0, len(v.state.cegidUsers))
	for _, u := range v.state.cegidUsers {
		out = append(out, cloneCegidUser(u))
	}
	return out
}

func (v *view) ListVouchers() []Voucher {
	out := make([]Voucher, 0, len(v.state.vouchers))
	for _, vo := range v.state.vouchers {
		out = append(out, cloneVoucher(vo))
	}
	return out
}

func (v *view) FindActor(id string) (Actor, bool)         { return findActor(v.state, id) }
func (v *view) FindStore(id string) (StoreRecord, bool)   { return findStore(v.state, id) }
func (v *view) FindDistrict(id string) (District, bool)   { return findDistrict(v.state, id) }
func (v *view) FindTicket(id string) (Ticket, bool)       { return findTicket(v.state, id) }
func (v *view) FindTransfer(id string) (Transfer, bool)   { return findTransfer(v.state, id) }
func (v *view) FindCegidUser(id string) (CegidUser, bool) { return findCegidUser(v.state, id) }
func (v *view) FindVoucher(id string) (Voucher, bool)     { return findVoucher(v.state, id) }

// Committed-state read helpers ------------------------------------------------

// GetActor retrieves an actor by ID from committed state.
func (s *Store) GetActor(id string) (Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findActor(&s.state, id)
}

// GetStore retrieves a store record by ID from committed state.
func (s *Store) GetStore(id string) (StoreRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findStore(&s.state, id)
}

// GetDistrict retrieves a district by ID from committed state.
func (s *Store) GetDistrict(id string) (District, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findDistrict(&s.state, id)
}

// GetTicket retrieves a ticket by ID from committed state.
func (s *Store) GetTicket(id string) (Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findTicket(&s.state, id)
}

// GetTransfer retrieves a transfer by ID from committed state.
func (s *Store) GetTransfer(id string) (Transfer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findTransfer(&s.state, id)
}

// GetCegidUser retrieves a user provisioning request by ID from committed state.
func (s *Store) GetCegidUser(id string) (CegidUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findCegidUser(&s.state, id)
}

// GetVoucher retrieves a voucher by ID from committed state.
func (s *Store) GetVoucher(id string) (Voucher, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findVoucher(&s.state, id)
}

// ListActors returns all actors from committed state.
func (s *Store) ListActors() []Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{state: &s.state}).ListActors()
}

// ListStores returns all stores from committed state.
func (s *Store) ListStores() []StoreRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{state: &s.state}).ListStores()
}

// ListDistricts returns all districts from committed state.
func (s *Store) ListDistricts() []District {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{state: &s.state}).ListDistricts()
}

// ListTickets returns all tickets from committed state.
func (s *Store) ListTickets() []Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{state: &s.state}).ListTickets()
}

// ListTransfers returns all transfers from committed state.
func (s *Store) ListTransfers() []Transfer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{state: &s.state}).ListTransfers()
}

// ListCegidUsers returns all user provisioning requests from committed state.
func (s *Store) ListCegidUsers() []CegidUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{state: &s.state}).ListCegidUsers()
}

// ListVouchers returns all vouchers from committed state.
func (s *Store) ListVouchers() []Voucher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&view{state: &s.state}).ListVouchers()
}
