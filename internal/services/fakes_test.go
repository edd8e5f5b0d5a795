package services

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"hoffman/internal/core"
)

// fakeStore implements every store interface the services need.
type fakeStore struct {
	mu       sync.Mutex
	nextID   int64
	profiles map[string]core.Profile
	settings map[string]core.MonthSettings
	incomes  []core.Income
	expenses []core.Expense
	debts    []core.Debt
	links    []core.FamilyLink

	failProfile  error
	failInsert   error
	failIncomes  error
	failSettings error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: map[string]core.Profile{},
		settings: map[string]core.MonthSettings{},
	}
}

func settingsKey(owner string, ym core.YearMonth) string { return owner + "|" + ym.String() }

func (f *fakeStore) InsertProfile(_ context.Context, p core.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failProfile != nil {
		return f.failProfile
	}
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeStore) GetMonthSettings(_ context.Context, owner string, ym core.YearMonth) (core.MonthSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSettings != nil {
		return core.MonthSettings{}, f.failSettings
	}
	ms, ok := f.settings[settingsKey(owner, ym)]
	if !ok {
		return core.MonthSettings{}, core.ErrNotFound
	}
	return ms, nil
}

func (f *fakeStore) UpsertMonthSettings(_ context.Context, ms core.MonthSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert != nil {
		return f.failInsert
	}
	f.settings[settingsKey(ms.UserOwner, ms.YearMonth)] = ms
	return nil
}

func (f *fakeStore) InsertIncome(_ context.Context, inc core.Income) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert != nil {
		return 0, f.failInsert
	}
	f.nextID++
	inc.ID = f.nextID
	f.incomes = append(f.incomes, inc)
	return inc.ID, nil
}

func (f *fakeStore) InsertExpense(_ context.Context, e core.Expense) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert != nil {
		return 0, f.failInsert
	}
	f.nextID++
	e.ID = f.nextID
	f.expenses = append(f.expenses, e)
	return e.ID, nil
}

func (f *fakeStore) InsertDebt(_ context.Context, d core.Debt) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert != nil {
		return 0, f.failInsert
	}
	f.nextID++
	d.ID = f.nextID
	f.debts = append(f.debts, d)
	return d.ID, nil
}

func (f *fakeStore) ListIncomes(_ context.Context, owner, from, to string) ([]core.Income, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIncomes != nil {
		return nil, f.failIncomes
	}
	var out []core.Income
	for _, inc := range f.incomes {
		if d := inc.Date.String(); inc.UserOwner == owner && d >= from && d <= to {
			out = append(out, inc)
		}
	}
	return out, nil
}

func (f *fakeStore) ListExpenses(_ context.Context, owner, from, to string) ([]core.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Expense
	for _, e := range f.expenses {
		if d := e.Date.String(); e.UserOwner == owner && d >= from && d <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListOpenDebts(_ context.Context, owner string) ([]core.Debt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Debt
	for _, d := range f.debts {
		if d.UserOwner == owner && d.Status.Open() {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertFamilyLink(_ context.Context, l core.FamilyLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[l.AdminID]; !ok {
		return errors.New("FOREIGN KEY constraint failed")
	}
	for _, existing := range f.links {
		if existing.ViewerID == l.ViewerID {
			return errors.New("UNIQUE constraint failed: family_links.viewer_id")
		}
	}
	f.links = append(f.links, l)
	return nil
}

func (f *fakeStore) ListLinkedViewers(_ context.Context, adminID string) ([]core.LinkedViewer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.LinkedViewer
	for _, l := range f.links {
		if l.AdminID == adminID {
			out = append(out, core.LinkedViewer{ID: l.ViewerID, DisplayName: f.profiles[l.ViewerID].DisplayName})
		}
	}
	return out, nil
}

// fakeProvider is an in-memory identity provider.
type fakeProvider struct {
	mu        sync.Mutex
	accounts  map[string]core.Account
	deleted   []string
	failSign  error
	failDel   error
	idCounter int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{accounts: map[string]core.Account{}}
}

func (p *fakeProvider) SignUp(_ context.Context, email, _ string) (core.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSign != nil {
		return core.Account{}, p.failSign
	}
	p.idCounter++
	a := core.Account{ID: "user-" + strconv.Itoa(p.idCounter), Email: email}
	p.accounts[a.ID] = a
	return a, nil
}

func (p *fakeProvider) SignIn(_ context.Context, email, _ string) (core.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return core.Account{}, errors.New("E-mail ou senha inválidos")
}

func (p *fakeProvider) DeleteAccount(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, id)
	if p.failDel != nil {
		return p.failDel
	}
	delete(p.accounts, id)
	return nil
}

type publishedEvent struct {
	kind  core.LedgerKind
	id    int64
	owner string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) PublishLedgerCreated(_ context.Context, kind core.LedgerKind, id int64, owner string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{kind, id, owner})
	return p.err
}
