package outreach

import (
	"context"
	"maps"
	"time"

	"github.com/jonathan/connexion/internal/page"
	"github.com/jonathan/connexion/internal/types"
)

// fakePage describes a profile page and how it reacts to actions.
type fakePage struct {
	fields map[page.Field]string
	// reveals adds fields once the action has been performed.
	reveals map[page.Action]map[page.Field]string
	// missing lists actions whose element is absent.
	missing map[page.Action]bool
	// failOn makes an action return an error.
	failOn  map[page.Action]error
	loadErr error
	panics  bool
}

type performed struct {
	url    string
	action page.Action
	text   string
}

// fakeSession is a scripted page.Session.
type fakeSession struct {
	loginOK  bool
	loginErr error
	pages    map[string]*fakePage
	// afterLoad runs once a page has loaded, before classification.
	afterLoad func(url string)

	current string
	fields  map[page.Field]string
	loaded  []string
	actions []performed
	closed  bool
}

func newFakeSession(pages map[string]*fakePage) *fakeSession {
	return &fakeSession{loginOK: true, pages: pages}
}

func (f *fakeSession) Login(context.Context, string, string) (bool, error) {
	return f.loginOK, f.loginErr
}

func (f *fakeSession) Load(_ context.Context, url string) error {
	p, ok := f.pages[url]
	if !ok {
		p = &fakePage{}
	}
	if p.loadErr != nil {
		return p.loadErr
	}
	if p.panics {
		panic("broken page")
	}
	f.current = url
	f.fields = maps.Clone(p.fields)
	if f.fields == nil {
		f.fields = map[page.Field]string{}
	}
	f.loaded = append(f.loaded, url)
	if f.afterLoad != nil {
		f.afterLoad(url)
	}
	return nil
}

func (f *fakeSession) ReadText(_ context.Context, field page.Field) (string, bool, error) {
	v, ok := f.fields[field]
	return v, ok, nil
}

func (f *fakeSession) Perform(_ context.Context, action page.Action, text string) (bool, error) {
	p := f.pages[f.current]
	if p == nil || p.missing[action] {
		return false, nil
	}
	if err := p.failOn[action]; err != nil {
		return false, err
	}
	f.actions = append(f.actions, performed{url: f.current, action: action, text: text})
	maps.Copy(f.fields, p.reveals[action])
	return true, nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

func (f *fakeSession) actionsFor(url string) []page.Action {
	var out []page.Action
	for _, a := range f.actions {
		if a.url == url {
			out = append(out, a.action)
		}
	}
	return out
}

// memQueue is an in-memory queue.Store.
type memQueue struct {
	profiles []types.CandidateProfile
	loadErr  error
	saves    int
}

func (m *memQueue) Load(context.Context) ([]types.CandidateProfile, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]types.CandidateProfile(nil), m.profiles...), nil
}

func (m *memQueue) Save(_ context.Context, profiles []types.CandidateProfile) error {
	m.saves++
	m.profiles = append([]types.CandidateProfile(nil), profiles...)
	return nil
}

func (m *memQueue) urls() []string {
	out := make([]string, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p.URL)
	}
	return out
}

func queueOf(urls ...string) *memQueue {
	m := &memQueue{}
	for _, u := range urls {
		m.profiles = append(m.profiles, types.CandidateProfile{Title: u, URL: u})
	}
	return m
}

// directPage can be invited through its primary button.
func directPage(count, name string) *fakePage {
	return &fakePage{
		fields: map[page.Field]string{
			page.FieldConnectionCount: count,
			page.FieldPrimaryAction:   "Connect",
			page.FieldFullName:        name,
		},
		reveals: map[page.Action]map[page.Field]string{
			page.ActionSendInvite: {page.FieldPendingPrimary: "Pending"},
		},
	}
}

// menuPage hides its connect action in the overflow menu.
func menuPage(count, name string) *fakePage {
	return &fakePage{
		fields: map[page.Field]string{
			page.FieldConnectionCount: count,
			page.FieldPrimaryAction:   "Message",
			page.FieldMenuConnect:     "Connect",
			page.FieldFullName:        name,
		},
		reveals: map[page.Action]map[page.Field]string{
			page.ActionSendInvite: {page.FieldPendingMenu: "Pending"},
		},
	}
}

// acceptPage has an incoming invitation.
func acceptPage(count string) *fakePage {
	return &fakePage{
		fields: map[page.Field]string{
			page.FieldConnectionCount: count,
			page.FieldPrimaryAction:   "Accept",
		},
		reveals: map[page.Action]map[page.Field]string{
			page.ActionAccept: {page.FieldMessageButton: "Message"},
		},
	}
}

// instantPacer never sleeps but counts waits.
func instantPacer(waits *int) *Pacer {
	p := NewPacer(DefaultMinDelay, DefaultMaxDelay)
	p.Sleep = func(time.Duration) { *waits++ }
	return p
}
