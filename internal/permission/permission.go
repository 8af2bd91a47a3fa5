// Package permission tracks the location authorization decision. Nothing in
// the app reads a location; the status only drives the settings button.
package permission

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/jask/linkview/internal/database/repository"
)

// Status is the authorization state.
type Status string

const (
	Undetermined Status = "undetermined"
	Denied       Status = "denied"
	Granted      Status = "granted"
)

// Location is the permission name persisted for location access.
const Location = "location"

func parseStatus(s string) Status {
	switch Status(s) {
	case Denied, Granted:
		return Status(s)
	}
	return Undetermined
}

// Backend persists decisions by permission name.
type Backend interface {
	Get(ctx context.Context, name string) (*repository.Permission, error)
	Upsert(ctx context.Context, name, status string) error
}

// Service exposes one permission's status, a request action and change callbacks.
// It is safe for concurrent use; the TUI calls it from background commands.
type Service struct {
	mu       sync.Mutex
	backend  Backend
	name     string
	status   Status
	loaded   bool
	handlers []func(Status)
}

func NewService(backend Backend, name string) *Service {
	return &Service{backend: backend, name: name, status: Undetermined}
}

// OnChange registers fn to be called whenever the status changes.
func (s *Service) OnChange(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, fn)
}

// Status returns the current decision, reading it from the backend once.
func (s *Service) Status(ctx context.Context) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked(ctx)
}

func (s *Service) statusLocked(ctx context.Context) (Status, error) {
	if s.loaded {
		return s.status, nil
	}
	p, err := s.backend.Get(ctx, s.name)
	if err != nil {
		return Undetermined, fmt.Errorf("read %s permission: %w", s.name, err)
	}
	if p != nil {
		s.status = parseStatus(p.Status)
	}
	s.loaded = true
	return s.status, nil
}

// Request asks for access. It reports whether the user must be prompted,
// which is only the case while no decision has been recorded.
func (s *Service) Request(ctx context.Context) (prompt bool, err error) {
	st, err := s.Status(ctx)
	if err != nil {
		return false, err
	}
	return st == Undetermined, nil
}

// Set records a decision and notifies handlers when it differs from the current one.
func (s *Service) Set(ctx context.Context, st Status) error {
	s.mu.Lock()
	prev, err := s.statusLocked(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.backend.Upsert(ctx, s.name, string(st)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save %s permission: %w", s.name, err)
	}
	s.status = st
	handlers := append([]func(Status){}, s.handlers...)
	s.mu.Unlock()

	if prev == st {
		return nil
	}
	log.Printf("%s permission %s -> %s", s.name, prev, st)
	for _, fn := range handlers {
		fn(st)
	}
	return nil
}

// Authorized reports whether access was granted.
func (s *Service) Authorized(ctx context.Context) bool {
	st, err := s.Status(ctx)
	return err == nil && st == Granted
}
