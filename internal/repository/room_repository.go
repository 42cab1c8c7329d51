package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/codeshare/internal/model"
)

// RoomRepo provides persistence for rooms. Rooms are addressed by
// their unique short link; the link column carries a unique index
// covering live and soft-deleted rows alike, so a historical link is
// never reissued.
type RoomRepo struct{ DB *sql.DB }

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{DB: db} }

// CreateWithOwner inserts a room together with its owner's editor
// participant record in a single transaction. Either both rows exist
// afterwards or neither does; a room must never be observable without
// its owner enrolled as an editor. The generated ids and timestamps
// are populated on the passed room.
func (r *RoomRepo) CreateWithOwner(ctx context.Context, room *model.Room) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO rooms (link, title, language, content, is_editable, is_deleted, owner_id) VALUES (?,?,?,?,?,?,?)",
		room.Link, room.Title, room.Language, room.Content, room.IsEditable, false, room.OwnerID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrLinkTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO participants (user_id, room_id, role) VALUES (?,?,?)",
		room.OwnerID, room.ID, string(model.RoleEditor)); err != nil {
		return err
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM rooms WHERE id=?", room.ID).
		Scan(&room.CreatedAt, &room.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByLink fetches a room by its link, including soft-deleted rows.
// The service layer decides whether a deleted room is visible; at this
// layer deletion is just a column.
func (r *RoomRepo) GetByLink(ctx context.Context, link string) (model.Room, error) {
	var m model.Room
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,link,title,language,content,is_editable,is_deleted,owner_id,created_at,updated_at FROM rooms WHERE link=? LIMIT 1",
		link).Scan(&m.ID, &m.Link, &m.Title, &m.Language, &m.Content,
		&m.IsEditable, &m.IsDeleted, &m.OwnerID, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, ErrNotFound
	}
	return m, err
}

// LinkExists reports whether any room, live or soft-deleted, already
// uses the given link. The uniqueness resolver consults this before
// inserting, but the unique constraint remains the source of truth.
func (r *RoomRepo) LinkExists(ctx context.Context, link string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM rooms WHERE link=? LIMIT 1", link).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SoftDelete flips the is_deleted flag. Participant rows are left in
// place; the room simply stops resolving.
func (r *RoomRepo) SoftDelete(ctx context.Context, roomID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE rooms SET is_deleted=1 WHERE id=? AND is_deleted=0", roomID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetEditable switches the room between edit and view mode.
func (r *RoomRepo) SetEditable(ctx context.Context, roomID uint64, editable bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE rooms SET is_editable=? WHERE id=? AND is_deleted=0", editable, roomID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
