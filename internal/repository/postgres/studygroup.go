package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adelaidehub/studyhub-server/internal/model"
)

var _ model.StudyGroupStore = (*StudyGroupRepository)(nil)

type StudyGroupRepository struct {
	db *Connection
}

func NewStudyGroupRepository(db *Connection) *StudyGroupRepository {
	return &StudyGroupRepository{
		db: db,
	}
}

const groupColumns = `id, name, description, course_id, creator_id, max_members, is_public, created_at`

func scanGroup(row pgx.Row) (model.StudyGroup, error) {
	var group model.StudyGroup
	err := row.Scan(
		&group.ID, &group.Name, &group.Description, &group.CourseID,
		&group.CreatorID, &group.MaxMembers, &group.IsPublic, &group.CreatedAt,
	)
	return group, err
}

// Create stores the group and its creator's leader membership in one
// transaction, so a group can never exist without a leader.
func (r *StudyGroupRepository) Create(ctx context.Context, group model.StudyGroup) (model.StudyGroup, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.StudyGroup{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO study_groups (`+groupColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		group.ID, group.Name, group.Description, group.CourseID,
		group.CreatorID, group.MaxMembers, group.IsPublic, group.CreatedAt)
	if err != nil {
		return model.StudyGroup{}, fmt.Errorf("failed to create study group: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO group_members (group_id, user_id, role, joined_at)
		 VALUES ($1, $2, $3, $4)`,
		group.ID, group.CreatorID, model.GroupRoleLeader, group.CreatedAt)
	if err != nil {
		return model.StudyGroup{}, fmt.Errorf("failed to add creator as leader: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.StudyGroup{}, fmt.Errorf("failed to commit study group: %w", err)
	}

	return r.GetByID(ctx, group.ID)
}

func (r *StudyGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (model.StudyGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM study_groups WHERE id = $1`

	group, err := scanGroup(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.StudyGroup{}, model.ErrNotFound
		}
		return model.StudyGroup{}, fmt.Errorf("failed to get study group by id: %w", err)
	}

	group.Members, err = r.loadMembers(ctx, id)
	if err != nil {
		return model.StudyGroup{}, err
	}

	group.Sessions, err = r.loadSessions(ctx, id)
	if err != nil {
		return model.StudyGroup{}, err
	}

	return group, nil
}

// List returns every public group plus private groups the user is a member of.
// Sessions are not loaded for listings.
func (r *StudyGroupRepository) List(ctx context.Context, userID uuid.UUID) ([]model.StudyGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM study_groups
			  WHERE is_public
			     OR id IN (SELECT group_id FROM group_members WHERE user_id = $1)
			  ORDER BY created_at DESC`
	return r.listGroups(ctx, query, userID)
}

func (r *StudyGroupRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]model.StudyGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM study_groups
			  WHERE id IN (SELECT group_id FROM group_members WHERE user_id = $1)
			  ORDER BY created_at DESC`
	return r.listGroups(ctx, query, userID)
}

func (r *StudyGroupRepository) listGroups(ctx context.Context, query string, args ...any) ([]model.StudyGroup, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list study groups: %w", err)
	}
	defer rows.Close()

	groups := []model.StudyGroup{}
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan study group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read study groups: %w", err)
	}

	for i := range groups {
		groups[i].Members, err = r.loadMembers(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return groups, nil
}

func (r *StudyGroupRepository) loadMembers(ctx context.Context, groupID uuid.UUID) ([]model.Member, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, role, joined_at FROM group_members
		 WHERE group_id = $1 ORDER BY joined_at`,
		groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		var member model.Member
		if err := rows.Scan(&member.UserID, &member.Role, &member.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}

	return members, nil
}

func (r *StudyGroupRepository) loadSessions(ctx context.Context, groupID uuid.UUID) ([]model.Session, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, start_time, end_time, location, meeting_link, building, room, agenda
		 FROM group_sessions WHERE group_id = $1 ORDER BY start_time`,
		groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	defer rows.Close()

	sessions := []model.Session{}
	for rows.Next() {
		var session model.Session
		err := rows.Scan(
			&session.ID, &session.Title, &session.StartTime, &session.EndTime,
			&session.Location, &session.MeetingLink, &session.Building,
			&session.Room, &session.Agenda,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}

	for i := range sessions {
		sessions[i].Attendees, err = r.loadAttendees(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return sessions, nil
}

func (r *StudyGroupRepository) loadAttendees(ctx context.Context, sessionID uuid.UUID) ([]model.Attendee, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, status FROM session_attendees WHERE session_id = $1`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendees: %w", err)
	}
	defer rows.Close()

	attendees := []model.Attendee{}
	for rows.Next() {
		var attendee model.Attendee
		if err := rows.Scan(&attendee.UserID, &attendee.Status); err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		attendees = append(attendees, attendee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendees: %w", err)
	}

	return attendees, nil
}

// Join locks the group row before counting members, so two concurrent joins
// cannot both pass the capacity check.
func (r *StudyGroupRepository) Join(ctx context.Context, groupID uuid.UUID, member model.Member) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var maxMembers int
	err = tx.QueryRow(ctx,
		`SELECT max_members FROM study_groups WHERE id = $1 FOR UPDATE`,
		groupID).Scan(&maxMembers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to lock study group: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM group_members WHERE group_id = $1`,
		groupID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count members: %w", err)
	}
	if count >= maxMembers {
		return model.ErrCapacityExceeded
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO group_members (group_id, user_id, role, joined_at)
		 VALUES ($1, $2, $3, $4)`,
		groupID, member.UserID, member.Role, member.JoinedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrAlreadyMember
		}
		return fmt.Errorf("failed to add member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit join: %w", err)
	}

	return nil
}

// Leave locks the group row before checking the leader count, so concurrent
// leaves cannot strip a group of its last leader.
func (r *StudyGroupRepository) Leave(ctx context.Context, groupID, userID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT TRUE FROM study_groups WHERE id = $1 FOR UPDATE`,
		groupID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to lock study group: %w", err)
	}

	var role model.GroupRole
	err = tx.QueryRow(ctx,
		`SELECT role FROM group_members WHERE group_id = $1 AND user_id = $2`,
		groupID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotMember
		}
		return fmt.Errorf("failed to get member role: %w", err)
	}

	if role == model.GroupRoleLeader {
		var leaders int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM group_members WHERE group_id = $1 AND role = $2`,
			groupID, model.GroupRoleLeader).Scan(&leaders)
		if err != nil {
			return fmt.Errorf("failed to count leaders: %w", err)
		}
		if leaders <= 1 {
			return model.ErrLastLeader
		}
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`,
		groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit leave: %w", err)
	}

	return nil
}

func (r *StudyGroupRepository) AddSession(ctx context.Context, groupID uuid.UUID, session model.Session) (model.Session, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO group_sessions (id, group_id, title, start_time, end_time, location, meeting_link, building, room, agenda)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		session.ID, groupID, session.Title, session.StartTime, session.EndTime,
		session.Location, session.MeetingLink, session.Building, session.Room, session.Agenda)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to insert session: %w", err)
	}

	for _, attendee := range session.Attendees {
		_, err = tx.Exec(ctx,
			`INSERT INTO session_attendees (session_id, user_id, status)
			 VALUES ($1, $2, $3)`,
			session.ID, attendee.UserID, attendee.Status)
		if err != nil {
			return model.Session{}, fmt.Errorf("failed to insert attendee: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Session{}, fmt.Errorf("failed to commit session: %w", err)
	}

	return session, nil
}

func (r *StudyGroupRepository) UpcomingSessions(ctx context.Context, userID uuid.UUID, after time.Time) ([]model.UpcomingSession, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.title, s.start_time, s.end_time, s.location,
		        s.meeting_link, s.building, s.room, s.agenda, g.id, g.name
		 FROM group_sessions s
		 JOIN study_groups g ON g.id = s.group_id
		 JOIN group_members m ON m.group_id = g.id AND m.user_id = $1
		 WHERE s.start_time > $2
		 ORDER BY s.start_time`,
		userID, after)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming sessions: %w", err)
	}
	defer rows.Close()

	sessions := []model.UpcomingSession{}
	for rows.Next() {
		var session model.UpcomingSession
		err := rows.Scan(
			&session.ID, &session.Title, &session.StartTime, &session.EndTime,
			&session.Location, &session.MeetingLink, &session.Building,
			&session.Room, &session.Agenda, &session.GroupID, &session.GroupName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan upcoming session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read upcoming sessions: %w", err)
	}

	return sessions, nil
}

func (r *StudyGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM study_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete study group: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
