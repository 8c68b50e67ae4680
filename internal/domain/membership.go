package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
	// TeamNone means the member has not picked a side yet.
	TeamNone Team = ""
)

func (t Team) Opponent() Team {
	switch t {
	case TeamRed:
		return TeamBlue
	case TeamBlue:
		return TeamRed
	}
	return TeamNone
}

func ValidTeam(t Team) bool {
	return t == TeamRed || t == TeamBlue
}

type Role string

const (
	RoleSpymaster Role = "spymaster"
	RoleOperative Role = "operative"
	RoleNone      Role = ""
)

// Membership associates a player with a room. Team and role are optional;
// role is meaningful only when a team is set; a spymaster always has a team.
type Membership struct {
	ID       string    `bson:"_id" json:"-"`
	RoomID   string    `bson:"room_id" json:"-"`
	PlayerID string    `bson:"player_id" json:"-"`
	Team     Team      `bson:"team" json:"team"`
	Role     Role      `bson:"role" json:"role"`
	JoinedAt time.Time `bson:"joined_at" json:"-"`
}

type MembershipRepository interface {
	Add(ctx context.Context, m *Membership) error
	Get(ctx context.Context, roomID, playerID string) (*Membership, error)
	// ListByRoom returns memberships ordered by join time, earliest first.
	// Host succession relies on this ordering.
	ListByRoom(ctx context.Context, roomID string) ([]Membership, error)
	SetTeamRole(ctx context.Context, roomID, playerID string, team Team, role Role) error
	ClearTeamsAndRoles(ctx context.Context, roomID string) error
	Remove(ctx context.Context, roomID, playerID string) error
	RemoveByRoom(ctx context.Context, roomID string) error
}

func NewMembership(roomID, playerID string) *Membership {
	return &Membership{
		ID:       uuid.NewString(),
		RoomID:   roomID,
		PlayerID: playerID,
		Team:     TeamNone,
		Role:     RoleNone,
		JoinedAt: time.Now(),
	}
}

func (m *Membership) OnTeam(team Team) bool {
	return m != nil && m.Team == team
}

func (m *Membership) IsSpymaster() bool {
	return m != nil && m.Role == RoleSpymaster
}
