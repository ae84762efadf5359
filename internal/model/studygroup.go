package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GroupRole is a member's role within a study group.
type GroupRole string

const (
	GroupRoleLeader GroupRole = "leader"
	GroupRoleMember GroupRole = "member"
)

// LocationKind tells whether a session happens online or in a room.
type LocationKind string

const (
	LocationOnline   LocationKind = "online"
	LocationPhysical LocationKind = "physical"
)

// AttendeeStatus is an attendee's reply to a session invitation.
type AttendeeStatus string

const (
	AttendeeConfirmed AttendeeStatus = "confirmed"
	AttendeeTentative AttendeeStatus = "tentative"
	AttendeeDeclined  AttendeeStatus = "declined"
)

// DefaultMaxMembers is the capacity applied when a group is created without one.
const DefaultMaxMembers = 10

// StudyGroupStore defines persistence operations for study groups.
type StudyGroupStore interface {
	// Create stores a new group with the creator as its sole leader member.
	Create(ctx context.Context, group StudyGroup) (StudyGroup, error)
	GetByID(ctx context.Context, id uuid.UUID) (StudyGroup, error)
	// List returns public groups plus private groups the user belongs to.
	List(ctx context.Context, userID uuid.UUID) ([]StudyGroup, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]StudyGroup, error)
	// Join appends a member using a conditional insert: it fails with
	// ErrCapacityExceeded when the group is full and ErrAlreadyMember when
	// the user is already present.
	Join(ctx context.Context, groupID uuid.UUID, member Member) error
	// Leave removes a member. Removing the only leader fails with
	// ErrLastLeader.
	Leave(ctx context.Context, groupID, userID uuid.UUID) error
	AddSession(ctx context.Context, groupID uuid.UUID, session Session) (Session, error)
	// UpcomingSessions returns sessions starting after the given time across
	// every group the user is a member of, ordered by start time.
	UpcomingSessions(ctx context.Context, userID uuid.UUID, after time.Time) ([]UpcomingSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StudyGroup represents a course study group with members and sessions.
type StudyGroup struct {
	ID          uuid.UUID
	Name        string
	Description string
	CourseID    uuid.UUID
	CreatorID   uuid.UUID
	Members     []Member
	MaxMembers  int
	IsPublic    bool
	Sessions    []Session
	CreatedAt   time.Time
}

// Member is a user's membership entry within a group.
type Member struct {
	UserID   uuid.UUID
	Role     GroupRole
	JoinedAt time.Time
}

// MemberRole returns the role of the given user, if they are a member.
func (g StudyGroup) MemberRole(userID uuid.UUID) (GroupRole, bool) {
	for _, m := range g.Members {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// Session is a scheduled meeting embedded in a study group.
type Session struct {
	ID          uuid.UUID
	Title       string
	StartTime   time.Time
	EndTime     time.Time
	Location    LocationKind
	MeetingLink string
	Building    string
	Room        string
	Agenda      string
	Attendees   []Attendee
}

// Attendee is a user's reply entry on a session.
type Attendee struct {
	UserID uuid.UUID
	Status AttendeeStatus
}

// UpcomingSession is a session joined with its owning group.
type UpcomingSession struct {
	Session
	GroupID   uuid.UUID
	GroupName string
}
