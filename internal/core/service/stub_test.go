package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/modernmember/member-directory/internal/core/domain"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// stubMemberRepo is an in-memory identity store for service tests.
type stubMemberRepo struct {
	mu      sync.Mutex
	members map[string]*domain.Member
}

func newStubMemberRepo(members ...*domain.Member) *stubMemberRepo {
	r := &stubMemberRepo{members: make(map[string]*domain.Member)}
	for _, m := range members {
		clone := *m
		r.members[m.ID] = &clone
	}
	return r
}

func cloneMember(m *domain.Member) *domain.Member {
	if m == nil {
		return nil
	}
	clone := *m
	return &clone
}

func (r *stubMemberRepo) FindByID(_ context.Context, id string) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[id]; ok {
		return cloneMember(m), nil
	}
	return nil, domain.ErrMemberNotFound
}

func (r *stubMemberRepo) FindByHandle(_ context.Context, handle string) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.Handle == handle {
			return cloneMember(m), nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (r *stubMemberRepo) FindAll(_ context.Context) ([]domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Member
	for _, m := range r.members {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMemberRepo) FindByRoleNot(_ context.Context, role domain.Role) ([]domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Member
	for _, m := range r.members {
		if m.Role != role {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMemberRepo) ExistsByHandle(_ context.Context, handle string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.Handle == handle {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubMemberRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubMemberRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubMemberRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.members {
		if m.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *stubMemberRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.members)), nil
}

func (r *stubMemberRepo) Save(_ context.Context, m *domain.Member) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *m
	r.members[m.ID] = &clone
	return cloneMember(&clone), nil
}

func (r *stubMemberRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(r.members, id)
	return nil
}

// stubAuditSink collects submitted events synchronously.
type stubAuditSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *stubAuditSink) Submit(event domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *stubAuditSink) actions() []domain.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Action)
	}
	return out
}
