package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wordspy/wordspy/internal/domain"
)

type MembershipRepository struct {
	mu      sync.RWMutex
	members map[string]domain.Membership
}

func NewMembershipRepository() *MembershipRepository {
	return &MembershipRepository{
		members: make(map[string]domain.Membership),
	}
}

func (r *MembershipRepository) Add(ctx context.Context, m *domain.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members[m.ID] = *m
	return nil
}

func (r *MembershipRepository) Get(ctx context.Context, roomID, playerID string) (*domain.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.members {
		if m.RoomID == roomID && m.PlayerID == playerID {
			member := m
			return &member, nil
		}
	}

	return nil, domain.ErrMemberNotFound
}

func (r *MembershipRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []domain.Membership
	for _, m := range r.members {
		if m.RoomID == roomID {
			members = append(members, m)
		}
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})

	return members, nil
}

func (r *MembershipRepository) SetTeamRole(ctx context.Context, roomID, playerID string, team domain.Team, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, m := range r.members {
		if m.RoomID == roomID && m.PlayerID == playerID {
			m.Team = team
			m.Role = role
			r.members[id] = m
			return nil
		}
	}

	return domain.ErrMemberNotFound
}

func (r *MembershipRepository) ClearTeamsAndRoles(ctx context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, m := range r.members {
		if m.RoomID == roomID {
			m.Team = domain.TeamNone
			m.Role = domain.RoleNone
			r.members[id] = m
		}
	}

	return nil
}

func (r *MembershipRepository) Remove(ctx context.Context, roomID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, m := range r.members {
		if m.RoomID == roomID && m.PlayerID == playerID {
			delete(r.members, id)
			return nil
		}
	}

	return domain.ErrMemberNotFound
}

func (r *MembershipRepository) RemoveByRoom(ctx context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, m := range r.members {
		if m.RoomID == roomID {
			delete(r.members, id)
		}
	}

	return nil
}
