package route

import (
	"net/url"
	"strings"
	"sync"
)

// Paths the shell can show.
const (
	Home    = "/"
	Login   = "/login"
	Builder = "/builder"
	MyCVs   = "/my-cvs"
)

// Router tracks which screen the shell is on and notifies subscribers when
// it changes. The network client never navigates itself; the shell wires
// RedirectToLogin to the client's unauthorized hook.
type Router struct {
	mu          sync.Mutex
	path        string
	subscribers []func(path string)
}

// New returns a router positioned at start.
func New(start string) *Router {
	return &Router{path: start}
}

// Path returns the current path including any query.
func (r *Router) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// Subscribe registers fn to be called after every navigation.
func (r *Router) Subscribe(fn func(path string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

// Navigate moves to path and notifies subscribers.
func (r *Router) Navigate(path string) {
	r.mu.Lock()
	r.path = path
	subs := append([]func(string){}, r.subscribers...)
	r.mu.Unlock()

	for _, fn := range subs {
		fn(path)
	}
}

// RedirectToLogin sends the user to the sign-in screen, remembering where
// they were. It does nothing when already on the sign-in screen, so a burst
// of failing requests redirects once. Reports whether it navigated.
func (r *Router) RedirectToLogin() bool {
	r.mu.Lock()
	current := r.path
	if OnLogin(current) {
		r.mu.Unlock()
		return false
	}
	target := Login + "?next=" + url.QueryEscape(current)
	r.path = target
	subs := append([]func(string){}, r.subscribers...)
	r.mu.Unlock()

	for _, fn := range subs {
		fn(target)
	}
	return true
}

// OnLogin reports whether path is the sign-in screen.
func OnLogin(path string) bool {
	return strings.HasPrefix(path, Login)
}

// Next extracts the return path from a sign-in path, defaulting to Builder.
func Next(path string) string {
	_, query, ok := strings.Cut(path, "?")
	if !ok {
		return Builder
	}
	v, err := url.ParseQuery(query)
	if err != nil || v.Get("next") == "" {
		return Builder
	}
	return v.Get("next")
}
