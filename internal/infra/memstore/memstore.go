// Package memstore is an in-memory implementation of the unit-of-work
// contract backed by plain maps. It reproduces the constraints the real
// schema enforces (one active session per plate, unique payment idempotency
// keys) so command logic can be tested without a database.
package memstore

import (
	"context"
	"sync"
	"time"

	"parkgate/internal/domain/billing"
	"parkgate/internal/domain/gatecmd"
	"parkgate/internal/domain/operator"
	"parkgate/internal/domain/payment"
	"parkgate/internal/domain/session"
	"parkgate/internal/domain/vehicle"
	"parkgate/internal/infra"
	"parkgate/internal/usecase/shared"

	"github.com/google/uuid"
)

type Store struct {
	mu         sync.Mutex
	sessions   map[uuid.UUID]*session.Session
	rates      map[uuid.UUID]*billing.RateSnapshot
	rateOrder  []uuid.UUID
	attempts   map[uuid.UUID]*payment.Attempt
	commands   map[uuid.UUID]*gatecmd.Command
	vehicles   map[uuid.UUID]*vehicle.Vehicle
	operators  map[uuid.UUID]*operator.Operator
	lastLogins map[uuid.UUID]time.Time
}

func New() *Store {
	return &Store{
		sessions:   make(map[uuid.UUID]*session.Session),
		rates:      make(map[uuid.UUID]*billing.RateSnapshot),
		attempts:   make(map[uuid.UUID]*payment.Attempt),
		commands:   make(map[uuid.UUID]*gatecmd.Command),
		vehicles:   make(map[uuid.UUID]*vehicle.Vehicle),
		operators:  make(map[uuid.UUID]*operator.Operator),
		lastLogins: make(map[uuid.UUID]time.Time),
	}
}

// LastLogin reports the timestamp recorded by UpdateLastLogin, for tests.
func (s *Store) LastLogin(id uuid.UUID) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.lastLogins[id]
	return at, ok
}

// Within holds the store lock for the whole callback, which gives the same
// serialization the database transaction would. No rollback: command code
// validates before writing, as the tests rely on.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, &memTx{store: s})
}

func (s *Store) Reads() shared.CommandReads {
	return &memReads{store: s, locked: false}
}

type memTx struct {
	store *Store
}

func (t *memTx) Sessions() shared.SessionRepository         { return &sessionRepo{store: t.store} }
func (t *memTx) Rates() shared.RateRepository               { return &rateRepo{store: t.store} }
func (t *memTx) Payments() shared.PaymentRepository         { return &paymentRepo{store: t.store} }
func (t *memTx) GateCommands() shared.GateCommandRepository { return &gateCommandRepo{store: t.store} }
func (t *memTx) Vehicles() shared.VehicleRepository         { return &vehicleRepo{store: t.store} }
func (t *memTx) Operators() shared.OperatorRepository       { return &operatorRepo{store: t.store} }
func (t *memTx) Reads() shared.CommandReads                 { return &memReads{store: t.store, locked: true} }

type sessionRepo struct {
	store *Store
}

func (r *sessionRepo) Create(ctx context.Context, sess *session.Session) error {
	for _, existing := range r.store.sessions {
		if existing.Plate() == sess.Plate() && existing.IsActive() {
			return infra.NewRepoErr(infra.KindDuplicateKey, "active session exists for plate", nil)
		}
	}
	r.store.sessions[sess.ID()] = cloneSession(sess)
	return nil
}

func (r *sessionRepo) Update(ctx context.Context, sess *session.Session) error {
	stored, ok := r.store.sessions[sess.ID()]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "session not found", nil)
	}
	// Same compare-and-set guard the SQL repository puts in its WHERE
	// clause: a stale entity loses to whoever transitioned the row first.
	if stored.Status() != sess.StoredStatus() {
		return infra.NewRepoErr(infra.KindConflict, "session was updated concurrently", nil)
	}
	r.store.sessions[sess.ID()] = cloneSession(sess)
	return nil
}

type rateRepo struct {
	store *Store
}

func (r *rateRepo) Insert(ctx context.Context, rate *billing.RateSnapshot) error {
	r.store.rates[rate.ID()] = cloneRate(rate)
	r.store.rateOrder = append(r.store.rateOrder, rate.ID())
	return nil
}

func (r *rateRepo) SupersedeCurrent(ctx context.Context, at time.Time) error {
	for _, rate := range r.store.rates {
		if rate.IsCurrent() {
			r.store.rates[rate.ID()] = billing.ReconstructRateSnapshot(
				rate.ID(), rate.HourlyCents(), rate.FreeMinutes(), rate.MaxDailyCents(),
				rate.CreatedAt(), &at,
			)
			return nil
		}
	}
	return infra.NewRepoErr(infra.KindNotFound, "no current rate", nil)
}

type paymentRepo struct {
	store *Store
}

func (r *paymentRepo) CreateAttempt(ctx context.Context, a *payment.Attempt) error {
	r.store.attempts[a.ID()] = cloneAttempt(a)
	return nil
}

func (r *paymentRepo) UpdateAttempt(ctx context.Context, a *payment.Attempt) error {
	if _, ok := r.store.attempts[a.ID()]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "payment attempt not found", nil)
	}
	r.store.attempts[a.ID()] = cloneAttempt(a)
	return nil
}

type gateCommandRepo struct {
	store *Store
}

func (r *gateCommandRepo) Create(ctx context.Context, c *gatecmd.Command) error {
	r.store.commands[c.ID()] = cloneCommand(c)
	return nil
}

func (r *gateCommandRepo) Update(ctx context.Context, c *gatecmd.Command) error {
	if _, ok := r.store.commands[c.ID()]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "gate command not found", nil)
	}
	r.store.commands[c.ID()] = cloneCommand(c)
	return nil
}

type vehicleRepo struct {
	store *Store
}

func (r *vehicleRepo) Create(ctx context.Context, v *vehicle.Vehicle) error {
	for _, existing := range r.store.vehicles {
		if existing.Plate() == v.Plate() && existing.Active() {
			return infra.NewRepoErr(infra.KindDuplicateKey, "vehicle exists for plate", nil)
		}
	}
	r.store.vehicles[v.ID()] = cloneVehicle(v)
	return nil
}

func (r *vehicleRepo) Update(ctx context.Context, v *vehicle.Vehicle) error {
	if _, ok := r.store.vehicles[v.ID()]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "vehicle not found", nil)
	}
	r.store.vehicles[v.ID()] = cloneVehicle(v)
	return nil
}

type operatorRepo struct {
	store *Store
}

func (r *operatorRepo) Create(ctx context.Context, o *operator.Operator) error {
	for _, existing := range r.store.operators {
		if existing.Email().String() == o.Email().String() {
			return infra.NewRepoErr(infra.KindDuplicateKey, "operator exists for email", nil)
		}
	}
	r.store.operators[o.ID()] = cloneOperator(o)
	return nil
}

func (r *operatorRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if _, ok := r.store.operators[id]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "operator not found", nil)
	}
	r.store.lastLogins[id] = at
	return nil
}

type memReads struct {
	store  *Store
	locked bool
}

func (r *memReads) lock() func() {
	if r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memReads) ActiveSessionByPlate(ctx context.Context, plate string) (*session.Session, error) {
	defer r.lock()()
	for _, s := range r.store.sessions {
		if s.Plate() == plate && s.IsActive() {
			return cloneSession(s), nil
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "no active session for plate", nil)
}

func (r *memReads) SessionByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	defer r.lock()()
	s, ok := r.store.sessions[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "session not found", nil)
	}
	return cloneSession(s), nil
}

func (r *memReads) CurrentRate(ctx context.Context) (*billing.RateSnapshot, error) {
	defer r.lock()()
	// Newest first so a freshly inserted snapshot wins over stale rows.
	for i := len(r.store.rateOrder) - 1; i >= 0; i-- {
		rate := r.store.rates[r.store.rateOrder[i]]
		if rate.IsCurrent() {
			return cloneRate(rate), nil
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "no current rate", nil)
}

func (r *memReads) RateByID(ctx context.Context, id uuid.UUID) (*billing.RateSnapshot, error) {
	defer r.lock()()
	rate, ok := r.store.rates[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "rate not found", nil)
	}
	return cloneRate(rate), nil
}

func (r *memReads) AttemptByKey(ctx context.Context, idempotencyKey string) (*payment.Attempt, error) {
	defer r.lock()()
	var latest *payment.Attempt
	for _, a := range r.store.attempts {
		if a.IdempotencyKey() != idempotencyKey {
			continue
		}
		if latest == nil || a.RequestedAt().After(latest.RequestedAt()) {
			latest = a
		}
	}
	if latest == nil {
		return nil, infra.NewRepoErr(infra.KindNotFound, "payment attempt not found", nil)
	}
	return cloneAttempt(latest), nil
}

func (r *memReads) LatestRequestedAttemptBySession(ctx context.Context, sessionID uuid.UUID) (*payment.Attempt, error) {
	defer r.lock()()
	var latest *payment.Attempt
	for _, a := range r.store.attempts {
		if a.SessionID() != sessionID || a.Status() != payment.StatusRequested {
			continue
		}
		if latest == nil || a.RequestedAt().After(latest.RequestedAt()) {
			latest = a
		}
	}
	if latest == nil {
		return nil, infra.NewRepoErr(infra.KindNotFound, "no requested payment attempt for session", nil)
	}
	return cloneAttempt(latest), nil
}

func (r *memReads) CommandByRequestID(ctx context.Context, requestID string) (*gatecmd.Command, error) {
	defer r.lock()()
	for _, c := range r.store.commands {
		if c.RequestID() == requestID {
			return cloneCommand(c), nil
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "gate command not found", nil)
}

func (r *memReads) VehicleByPlate(ctx context.Context, plate string) (*vehicle.Vehicle, error) {
	defer r.lock()()
	for _, v := range r.store.vehicles {
		if v.Plate() == plate && v.Active() {
			return cloneVehicle(v), nil
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "vehicle not found", nil)
}

func (r *memReads) OperatorByEmail(ctx context.Context, email string) (*operator.Operator, error) {
	defer r.lock()()
	for _, o := range r.store.operators {
		if o.Email().String() == email {
			return cloneOperator(o), nil
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "operator not found", nil)
}

func (r *memReads) OperatorByID(ctx context.Context, id uuid.UUID) (*operator.Operator, error) {
	defer r.lock()()
	o, ok := r.store.operators[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "operator not found", nil)
	}
	return cloneOperator(o), nil
}

// Clones go through the reconstruct constructors so stored state cannot be
// mutated through a handed-out entity, same as rows read from a database.

func cloneSession(s *session.Session) *session.Session {
	return session.ReconstructSession(
		s.ID(), s.Plate(), s.RateID(),
		s.EntryTime(), copyTimePtr(s.ExitTime()),
		s.EntryGateID(), copyStrPtr(s.ExitGateID()),
		s.EntryImageRef(), copyStrPtr(s.ExitImageRef()),
		copyInt64Ptr(s.FeeCents()), s.PaymentState(), s.ExtensionMinutes(),
		s.Status(), s.CreatedAt(), s.UpdatedAt(),
	)
}

func cloneRate(r *billing.RateSnapshot) *billing.RateSnapshot {
	return billing.ReconstructRateSnapshot(
		r.ID(), r.HourlyCents(), r.FreeMinutes(), r.MaxDailyCents(),
		r.CreatedAt(), copyTimePtr(r.SupersededAt()),
	)
}

func cloneAttempt(a *payment.Attempt) *payment.Attempt {
	return payment.ReconstructAttempt(
		a.ID(), a.SessionID(), a.AmountCents(), a.IdempotencyKey(), copyStrPtr(a.GatewayRef()),
		a.Status(), a.RequestedAt(), copyTimePtr(a.SettledAt()), copyStrPtr(a.FailureReason()),
	)
}

func cloneCommand(c *gatecmd.Command) *gatecmd.Command {
	return gatecmd.ReconstructCommand(
		c.ID(), c.RequestID(), c.SessionID(), c.GateID(), c.Action(), c.Reason(),
		c.Status(), c.Attempts(), c.IssuedAt(), copyTimePtr(c.SettledAt()),
	)
}

func cloneVehicle(v *vehicle.Vehicle) *vehicle.Vehicle {
	return vehicle.ReconstructVehicle(
		v.ID(), v.Plate(), v.OwnerName(), v.OwnerContact(), v.Active(),
		v.RegisteredAt(), v.UpdatedAt(),
	)
}

func cloneOperator(o *operator.Operator) *operator.Operator {
	return operator.ReconstructOperator(o.ID(), o.Email(), o.PasswordHash(), o.Role(), o.CreatedAt())
}

func copyTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyStrPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyInt64Ptr(i *int64) *int64 {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
