// Package session keeps the authenticated identity of a browser between
// requests. Handlers and middleware depend on the Store interface; the
// gorilla/sessions implementation is wired in main.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// DefaultFilesystemMaxAge applies to the filesystem backend when MaxAge is 0.
const DefaultFilesystemMaxAge = 86400 * 30

const (
	keyUserID = "user_id"
	keyEmail  = "email"
)

// Data is everything the service keeps in a session.
type Data struct {
	UserID int
	Email  string
}

// Store reads and writes the session attached to a request.
type Store interface {
	// Get returns the session data and whether the request is authenticated:
	// user_id must be present and email non-empty.
	Get(r *http.Request) (Data, bool)
	// Set replaces the whole session with d.
	Set(w http.ResponseWriter, r *http.Request, d Data) error
	// Clear removes every key and expires the cookie.
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Options configures a GorillaStore.
type Options struct {
	Secret string
	// Backend is "cookie" (all data in the signed cookie) or "filesystem"
	// (cookie holds an id, data lives in Dir).
	Backend string
	Dir     string
	// MaxAge in seconds; 0 makes a browser-session cookie that never expires server side.
	MaxAge int
	Secure bool
}

// GorillaStore implements Store on top of gorilla/sessions.
type GorillaStore struct {
	store sessions.Store
	name  string
}

// NewGorillaStore builds the configured backend.
func NewGorillaStore(opts Options) (*GorillaStore, error) {
	if opts.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	keys := []byte(opts.Secret)

	cookieOpts := &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	var store sessions.Store
	switch opts.Backend {
	case "", "cookie":
		cs := sessions.NewCookieStore(keys)
		cs.MaxAge(opts.MaxAge)
		cs.Options = cookieOpts
		store = cs
	case "filesystem":
		// gorilla erases filesystem sessions saved with MaxAge <= 0.
		if cookieOpts.MaxAge == 0 {
			cookieOpts.MaxAge = DefaultFilesystemMaxAge
		}
		fs := sessions.NewFilesystemStore(opts.Dir, keys)
		fs.MaxAge(cookieOpts.MaxAge)
		fs.Options = cookieOpts
		store = fs
	default:
		return nil, fmt.Errorf("unknown session backend %q", opts.Backend)
	}

	return wrapStore(store), nil
}

func wrapStore(store sessions.Store) *GorillaStore {
	return &GorillaStore{store: store, name: CookieName}
}

func (s *GorillaStore) Get(r *http.Request) (Data, bool) {
	sess, err := s.store.Get(r, s.name)
	if err != nil || sess == nil {
		return Data{}, false
	}
	return dataFrom(sess.Values)
}

func (s *GorillaStore) Set(w http.ResponseWriter, r *http.Request, d Data) error {
	sess, err := s.store.Get(r, s.name)
	if sess == nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	// A cookie that no longer decodes is replaced, not fatal.

	sess.Values = map[interface{}]interface{}{
		keyUserID: d.UserID,
		keyEmail:  d.Email,
	}
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *GorillaStore) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, err := s.store.Get(r, s.name)
	if sess == nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	sess.Values = make(map[interface{}]interface{})
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func dataFrom(values map[interface{}]interface{}) (Data, bool) {
	raw, present := values[keyUserID]
	if !present {
		return Data{}, false
	}
	userID, ok := coerceID(raw)
	if !ok {
		return Data{}, false
	}
	email, _ := values[keyEmail].(string)
	if email == "" {
		return Data{}, false
	}
	return Data{UserID: userID, Email: email}, true
}

// coerceID accepts the numeric forms a session backend may hand back.
func coerceID(v interface{}) (int, bool) {
	switch id := v.(type) {
	case int:
		return id, true
	case int64:
		return int(id), true
	case float64:
		return int(id), true
	case string:
		n, err := strconv.Atoi(id)
		return n, err == nil
	default:
		return 0, false
	}
}
