// Package session turns identity credentials into an application session
// by joining them with the stored user record.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medictrans/oncall-api/internal/identity"
	"github.com/medictrans/oncall-api/internal/model"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusAnonymous
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is what subscribers observe. User is set only when Authenticated.
type State struct {
	Status  Status
	Loading bool
	User    *model.User
	// Err is the last join failure, if any.
	Err error
}

// UserStore is the part of the user repository the adapter needs.
type UserStore interface {
	Get(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, id, email string) (*model.User, error)
}

type Adapter struct {
	provider identity.Provider
	users    UserStore
	logger   zerolog.Logger

	mu          sync.Mutex
	state       State
	gen         uint64
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	listeners   map[int]func(State)
	nextID      int
	joins       sync.WaitGroup

	// registering maps an email whose record is still being created to the
	// generation of its deferred credential notification.
	registering map[string]uint64
}

func NewAdapter(provider identity.Provider, users UserStore, logger zerolog.Logger) *Adapter {
	return &Adapter{
		provider:  provider,
		users:     users,
		logger:    logger.With().Str("component", "session").Logger(),
		state:     State{Status: StatusUnknown, Loading: true},
		listeners:   make(map[int]func(State)),
		registering: make(map[string]uint64),
	}
}

// Start subscribes to credential changes. Calling it twice is a no-op.
func (a *Adapter) Start(ctx context.Context) {
	a.mu.Lock()
	if a.cancel != nil {
		a.mu.Unlock()
		return
	}
	a.ctx, a.cancel = context.WithCancel(ctx)
	a.mu.Unlock()

	unsubscribe := a.provider.Subscribe(a.onCredential)

	a.mu.Lock()
	a.unsubscribe = unsubscribe
	a.mu.Unlock()
}

// Stop unsubscribes, cancels in-flight joins and waits for them to return.
func (a *Adapter) Stop() {
	a.mu.Lock()
	unsubscribe, cancel := a.unsubscribe, a.cancel
	a.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	a.joins.Wait()
}

func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Subscribe registers fn for every published state.
func (a *Adapter) Subscribe(fn func(State)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

// WaitFor blocks until a published state satisfies pred or ctx is done.
// pred sees every state published after the call, including ones that are
// superseded before WaitFor returns.
func (a *Adapter) WaitFor(ctx context.Context, pred func(State) bool) (State, error) {
	matched := make(chan State, 1)
	unsubscribe := a.Subscribe(func(st State) {
		if !pred(st) {
			return
		}
		select {
		case matched <- st:
		default:
		}
	})
	defer unsubscribe()

	if st := a.State(); pred(st) {
		return st, nil
	}
	select {
	case st := <-matched:
		return st, nil
	case <-ctx.Done():
		return a.State(), ctx.Err()
	}
}

// Settled matches any state that is no longer loading.
func Settled(st State) bool {
	return !st.Loading
}

// Register creates the identity and its patient record and returns the new id.
// The credential notification raised while the identity is created is held
// in the loading state until the record exists, so subscribers never see
// the missing record as a failed sign-in.
func (a *Adapter) Register(ctx context.Context, email, password string) (string, error) {
	key := strings.ToLower(email)
	a.mu.Lock()
	a.registering[key] = 0
	a.mu.Unlock()

	cred, err := a.provider.CreateIdentity(ctx, email, password)
	if err != nil {
		a.finishRegistration(key)
		a.logger.Error().Err(err).Str("email", email).Msg("failed to create identity")
		return "", err
	}
	if _, err := a.users.Create(ctx, cred.UID, cred.Email); err != nil {
		if gen := a.finishRegistration(key); gen != 0 {
			a.publish(gen, State{Status: StatusAnonymous, Err: err})
		}
		a.logger.Error().Err(err).Str("uid", cred.UID).Msg("failed to create user record")
		return "", err
	}
	if gen := a.finishRegistration(key); gen != 0 {
		a.startJoin(gen, cred)
	}
	return cred.UID, nil
}

// finishRegistration clears the registration for key and returns the
// generation of the notification it deferred, or 0 if none arrived.
func (a *Adapter) finishRegistration(key string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	gen := a.registering[key]
	delete(a.registering, key)
	return gen
}

func (a *Adapter) Login(ctx context.Context, email, password string) (string, error) {
	cred, err := a.provider.Authenticate(ctx, email, password)
	if err != nil {
		a.logger.Error().Err(err).Str("email", email).Msg("failed to sign in")
		return "", err
	}
	return cred.UID, nil
}

func (a *Adapter) SignOut(ctx context.Context) error {
	if err := a.provider.Invalidate(ctx); err != nil {
		a.logger.Error().Err(err).Msg("failed to sign out")
		return err
	}

	a.mu.Lock()
	alreadyAnonymous := a.state.Status == StatusAnonymous && !a.state.Loading
	a.mu.Unlock()
	if !alreadyAnonymous {
		a.publish(a.bump(), State{Status: StatusAnonymous})
	}
	return nil
}

// onCredential handles one provider notification. A newer notification
// supersedes any join still running for an older one.
func (a *Adapter) onCredential(cred *identity.Credential) {
	gen := a.bump()

	if cred == nil {
		a.publish(gen, State{Status: StatusAnonymous})
		return
	}

	a.mu.Lock()
	prev := a.state
	a.mu.Unlock()

	a.publish(gen, State{Status: prev.Status, Loading: true, User: prev.User})

	if a.deferJoin(gen, cred) {
		return
	}
	a.startJoin(gen, cred)
}

// deferJoin records gen against a registration in flight for cred.
func (a *Adapter) deferJoin(gen uint64, cred *identity.Credential) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := strings.ToLower(cred.Email)
	if _, ok := a.registering[key]; !ok {
		return false
	}
	a.registering[key] = gen
	return true
}

func (a *Adapter) startJoin(gen uint64, cred *identity.Credential) {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	a.joins.Add(1)
	go func() {
		defer a.joins.Done()
		a.join(ctx, gen, cred)
	}()
}

func (a *Adapter) join(ctx context.Context, gen uint64, cred *identity.Credential) {
	user, err := a.users.Get(ctx, cred.UID)
	if err != nil {
		a.logger.Error().Err(err).Str("uid", cred.UID).Msg("failed to load user for credential")
		a.publish(gen, State{Status: StatusAnonymous, Err: err})
		return
	}

	joined := *user
	joined.ID = cred.UID
	if cred.Email != "" {
		joined.Email = cred.Email
	}
	a.publish(gen, State{Status: StatusAuthenticated, User: &joined})
}

func (a *Adapter) bump() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	return a.gen
}

// publish stores st and notifies listeners unless a newer notification has
// been received since gen was issued.
func (a *Adapter) publish(gen uint64, st State) {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.state = st
	fns := make([]func(State), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
