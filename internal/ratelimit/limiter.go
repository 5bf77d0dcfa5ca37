// Package ratelimit throttles login attempts with fixed-window counters.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

const keyNamespace = "inventory:rl"

// Store increments a counter that expires after ttl.
type Store interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Policy names a throttled surface and its window.
type Policy struct {
	Name   string
	Window time.Duration
	Limit  int
}

func (p Policy) enabled() bool {
	return p.Window > 0 && p.Limit > 0
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed  bool
	Attempts int64
	Scope    string
}

// Limiter applies a Policy against a Store.
type Limiter struct {
	policy Policy
	store  Store
}

func New(policy Policy, store Store) *Limiter {
	return &Limiter{policy: policy, store: store}
}

func (l *Limiter) Policy() Policy {
	return l.policy
}

// Allow counts one attempt for every non-empty scope value and reports the
// first scope over the limit. A nil Limiter allows everything.
func (l *Limiter) Allow(ctx context.Context, scopes map[string]string) (Decision, error) {
	if l == nil || l.store == nil || !l.policy.enabled() {
		return Decision{Allowed: true}, nil
	}

	for _, scope := range []string{ScopeIP, ScopeName} {
		value := scopes[scope]
		if value == "" {
			continue
		}
		count, err := l.store.IncrWithTTL(ctx, l.key(scope, value), l.policy.Window)
		if err != nil {
			return Decision{}, err
		}
		if count > int64(l.policy.Limit) {
			return Decision{Allowed: false, Attempts: count, Scope: scope}, nil
		}
	}
	return Decision{Allowed: true}, nil
}

// Scopes counted by Allow, in evaluation order.
const (
	ScopeIP   = "ip"
	ScopeName = "name"
)

func (l *Limiter) key(scope, value string) string {
	name := strings.ToLower(strings.TrimSpace(l.policy.Name))
	if name == "" {
		name = "login"
	}
	return strings.Join([]string{keyNamespace, name, scope, hashValue(value)}, ":")
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
