package model

import "time"

// Room models a row in the `rooms` table. A room is a shareable
// document addressed by its short link. Deletion is a soft flag:
// rows are never removed so historical links keep resolving on the
// database side while the service layer treats them as gone.
//
// Fields:
//  ID         – primary key identifier.
//  Link       – globally unique short link (e.g. RONQXZ). Case sensitive.
//  Title      – human readable title of the room.
//  Language   – language tag used by editors for highlighting.
//  Content    – the shared document text.
//  IsEditable – true when the room is in edit mode, false for view mode.
//  IsDeleted  – soft-delete flag; deleted rooms behave as not found.
//  OwnerID    – the user who created the room.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Room struct {
	ID         uint64    // rooms.id
	Link       string    // rooms.link
	Title      string    // rooms.title
	Language   string    // rooms.language
	Content    string    // rooms.content
	IsEditable bool      // rooms.is_editable
	IsDeleted  bool      // rooms.is_deleted
	OwnerID    uint64    // rooms.owner_id
	CreatedAt  time.Time // rooms.created_at
	UpdatedAt  time.Time // rooms.updated_at
}
