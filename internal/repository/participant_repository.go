package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/codeshare/internal/model"
)

// ParticipantRepo provides persistence for room membership. A unique
// key on (user_id, room_id) guarantees at most one record per user and
// room; concurrent enrollments race at the constraint and the loser
// receives ErrAlreadyParticipant.
type ParticipantRepo struct{ DB *sql.DB }

// NewParticipantRepo returns a new ParticipantRepo bound to the given database.
func NewParticipantRepo(db *sql.DB) *ParticipantRepo { return &ParticipantRepo{DB: db} }

// Get fetches the participant record for a user in a room.
func (r *ParticipantRepo) Get(ctx context.Context, roomID, userID uint64) (model.Participant, error) {
	var p model.Participant
	var role string
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,room_id,role,joined_at FROM participants WHERE room_id=? AND user_id=? LIMIT 1",
		roomID, userID).Scan(&p.ID, &p.UserID, &p.RoomID, &role, &p.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Participant{}, ErrNotFound
	}
	if err != nil {
		return model.Participant{}, err
	}
	parsed, ok := model.ParseRole(role)
	if !ok {
		// An unknown role in storage must not default to anything
		// permissive; surface it as corruption.
		return model.Participant{}, errors.New("unknown role in participants table: " + role)
	}
	p.Role = parsed
	return p, nil
}

// Create enrolls a user into a room with the given role.
func (r *ParticipantRepo) Create(ctx context.Context, roomID, userID uint64, role model.Role) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO participants (user_id, room_id, role) VALUES (?,?,?)",
		userID, roomID, string(role))
	if err != nil && isDuplicateKey(err) {
		return ErrAlreadyParticipant
	}
	return err
}

// ListWithUsers returns every participant of a room joined with the
// user's display name and email, plus an independently computed total
// count. Both reads run inside one read-only transaction so the count
// and the list reflect the same snapshot even under concurrent joins.
func (r *ParticipantRepo) ListWithUsers(ctx context.Context, roomID uint64) ([]model.ParticipantInfo, int, error) {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM participants WHERE room_id=?", roomID).Scan(&count); err != nil {
		return nil, 0, err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT p.id, p.user_id, u.name, u.email, p.role, p.joined_at
		 FROM participants p JOIN users u ON u.id = p.user_id
		 WHERE p.room_id=? ORDER BY p.joined_at, p.id`, roomID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.ParticipantInfo, 0, count)
	for rows.Next() {
		var info model.ParticipantInfo
		var role string
		if err := rows.Scan(&info.ID, &info.UserID, &info.Name, &info.Email, &role, &info.JoinedAt); err != nil {
			return nil, 0, err
		}
		if parsed, ok := model.ParseRole(role); ok {
			info.Role = parsed
		} else {
			return nil, 0, errors.New("unknown role in participants table: " + role)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, count, tx.Commit()
}

// UpdateRole mutates an existing participant's role and returns the
// updated record joined with the user's display name for confirmation
// messaging. A missing participant yields ErrNotFound; role changes
// never create membership.
func (r *ParticipantRepo) UpdateRole(ctx context.Context, roomID, userID uint64, role model.Role) (model.ParticipantInfo, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE participants SET role=? WHERE room_id=? AND user_id=?",
		string(role), roomID, userID)
	if err != nil {
		return model.ParticipantInfo{}, err
	}
	// RowsAffected is 0 both when the row is absent and when the role
	// is unchanged, so existence is confirmed by the select below.
	if _, err := res.RowsAffected(); err != nil {
		return model.ParticipantInfo{}, err
	}

	var info model.ParticipantInfo
	var raw string
	err = r.DB.QueryRowContext(ctx,
		`SELECT p.id, p.user_id, u.name, u.email, p.role, p.joined_at
		 FROM participants p JOIN users u ON u.id = p.user_id
		 WHERE p.room_id=? AND p.user_id=? LIMIT 1`, roomID, userID).
		Scan(&info.ID, &info.UserID, &info.Name, &info.Email, &raw, &info.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ParticipantInfo{}, ErrNotFound
	}
	if err != nil {
		return model.ParticipantInfo{}, err
	}
	if parsed, ok := model.ParseRole(raw); ok {
		info.Role = parsed
	}
	return info, nil
}
