// Package auth is the authentication collaborator: sign-in, sign-out,
// bearer-token verification, and a subscription to identity-change events so
// per-identity state can re-key and never leak across users.
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Identity is the authenticated principal. ID is the opaque key all
// per-identity persistence is scoped by.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Event is delivered to subscribers on every identity change.
type Event struct {
	Identity Identity
	SignedIn bool // false on sign-out
}

// Listener receives identity-change events.
type Listener func(Event)

type user struct {
	id   string
	hash []byte
}

// Provider is an in-memory user registry issuing HS256 bearer tokens.
// Safe for concurrent use.
type Provider struct {
	mu        sync.RWMutex
	users     map[string]user
	revoked   map[string]struct{} // jti denylist for signed-out tokens
	listeners []Listener
	secret    []byte
	ttl       time.Duration
}

// NewProvider creates a provider signing tokens with the given secret.
func NewProvider(secret string, ttl time.Duration) *Provider {
	return &Provider{
		users:   make(map[string]user),
		revoked: make(map[string]struct{}),
		secret:  []byte(secret),
		ttl:     ttl,
	}
}

// Register creates a new user account.
func (p *Provider) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username required")
	}
	if len(password) < 6 { // basic password policy
		return fmt.Errorf("password too short (min 6)")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.users[username]; exists {
		return fmt.Errorf("user already exists")
	}
	p.users[username] = user{id: uuid.NewString(), hash: hash}
	return nil
}

// SignIn authenticates the user and issues a bearer token. Subscribers are
// notified of the identity change.
func (p *Provider) SignIn(ctx context.Context, username, password string) (string, Identity, error) {
	username = strings.TrimSpace(username)

	p.mu.RLock()
	u, exists := p.users[username]
	p.mu.RUnlock()

	if !exists {
		return "", Identity{}, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return "", Identity{}, fmt.Errorf("invalid credentials")
	}

	ident := Identity{ID: u.id, Username: username}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      ident.ID,
		"username": ident.Username,
		"jti":      uuid.NewString(),
		"exp":      time.Now().Add(p.ttl).Unix(),
	})
	tokenString, err := token.SignedString(p.secret)
	if err != nil {
		return "", Identity{}, fmt.Errorf("sign token: %w", err)
	}

	p.notify(Event{Identity: ident, SignedIn: true})
	return tokenString, ident, nil
}

// Verify checks a bearer token and returns the identity it carries.
func (p *Provider) Verify(tokenString string) (Identity, error) {
	claims, err := p.parse(tokenString)
	if err != nil {
		return Identity{}, err
	}

	jti, _ := claims["jti"].(string)
	p.mu.RLock()
	_, gone := p.revoked[jti]
	p.mu.RUnlock()
	if gone {
		return Identity{}, fmt.Errorf("token revoked")
	}

	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	if sub == "" {
		return Identity{}, fmt.Errorf("token missing subject")
	}
	return Identity{ID: sub, Username: username}, nil
}

// SignOut revokes the token and notifies subscribers so per-identity state
// can be evicted.
func (p *Provider) SignOut(tokenString string) error {
	claims, err := p.parse(tokenString)
	if err != nil {
		return err
	}

	jti, _ := claims["jti"].(string)
	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)

	p.mu.Lock()
	p.revoked[jti] = struct{}{}
	p.mu.Unlock()

	p.notify(Event{Identity: Identity{ID: sub, Username: username}, SignedIn: false})
	return nil
}

// Subscribe registers a listener for identity-change events.
func (p *Provider) Subscribe(fn Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *Provider) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

func (p *Provider) notify(ev Event) {
	p.mu.RLock()
	listeners := make([]Listener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}
