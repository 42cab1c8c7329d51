package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/codeshare/internal/model"
	"github.com/iliyamo/codeshare/internal/service"
)

// RoomHandler exposes the room lifecycle and participant management
// endpoints. All routes assume JWTAuth ran first and left user_id in
// the context.
type RoomHandler struct {
	Rooms      *service.RoomService
	Membership *service.ParticipantService
}

// NewRoomHandler constructs a RoomHandler and panics on nil dependencies.
func NewRoomHandler(rooms *service.RoomService, participants *service.ParticipantService) *RoomHandler {
	if rooms == nil || participants == nil {
		panic("nil service passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms, Membership: participants}
}

// ----- DTOs -----

type changeRoleReq struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
}
type modeReq struct {
	Mode bool `json:"mode"`
}

type roomPart struct {
	Link       string `json:"link"`
	Title      string `json:"title"`
	Language   string `json:"language"`
	Content    string `json:"content,omitempty"`
	IsEditable bool   `json:"is_editable"`
}

func roomToPart(r model.Room, withContent bool) roomPart {
	p := roomPart{Link: r.Link, Title: r.Title, Language: r.Language, IsEditable: r.IsEditable}
	if withContent {
		p.Content = r.Content
	}
	return p
}

// serviceFail translates service sentinels into the response envelope.
// Unknown errors are reported as internal without detail leakage.
func serviceFail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fail(c, http.StatusNotFound, "room not found")
	case errors.Is(err, service.ErrForbidden):
		return fail(c, http.StatusForbidden, "you are not allowed to perform this action")
	case errors.Is(err, service.ErrLinkExhausted):
		return fail(c, http.StatusConflict, "could not allocate a room link, try again")
	case errors.Is(err, service.ErrInvalidRole):
		return fail(c, http.StatusBadRequest, "role must be editor or viewer")
	}
	return fail(c, http.StatusInternalServerError, "internal error took place")
}

// Create allocates a link and creates a room owned by the caller.
func (h *RoomHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room, err := h.Rooms.Create(ctx, uid)
	if err != nil {
		return serviceFail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"error":   false,
		"message": "room created successfully",
		"data":    roomToPart(room, false),
		"link":    room.Link,
	})
}

// Get returns the full room detail, content included, for owners and
// participants.
func (h *RoomHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	link := c.Param("link")
	if link == "" {
		return fail(c, http.StatusBadRequest, "no link was provided")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room, err := h.Rooms.Get(ctx, uid, link)
	if err != nil {
		return serviceFail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"error":   false,
		"message": "room details fetched successfully",
		"data":    roomToPart(room, true),
	})
}

// Delete soft-deletes a room. The link stops resolving for everyone.
func (h *RoomHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	link := c.Param("link")
	if link == "" {
		return fail(c, http.StatusBadRequest, "no link was provided")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.Delete(ctx, uid, link); err != nil {
		return serviceFail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"error":   false,
		"message": fmt.Sprintf("room %s was deleted successfully", link),
	})
}

// Download streams the room content as a markdown attachment.
func (h *RoomHandler) Download(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	link := c.Param("link")
	if link == "" {
		return fail(c, http.StatusBadRequest, "no link was provided")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room, err := h.Rooms.Download(ctx, uid, link)
	if err != nil {
		return serviceFail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, room.Link+".md"))
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(room.Content))
}

// Participants lists room membership with an independent total count.
func (h *RoomHandler) Participants(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	link := c.Param("link")
	if link == "" {
		return fail(c, http.StatusBadRequest, "no link was provided")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, count, err := h.Membership.List(ctx, uid, link)
	if err != nil {
		return serviceFail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"error":   false,
		"message": "room participants fetched successfully",
		"data":    list,
		"count":   count,
	})
}

// ChangeRole promotes or demotes an existing participant.
func (h *RoomHandler) ChangeRole(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	link := c.Param("link")
	if link == "" {
		return fail(c, http.StatusBadRequest, "no link was provided")
	}
	var req changeRoleReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return fail(c, http.StatusBadRequest, "user_id and role required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	info, err := h.Membership.ChangeRole(ctx, uid, link, req.UserID, req.Role)
	if err != nil {
		return serviceFail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"error":   false,
		"message": fmt.Sprintf("user %s now has the role %s", info.Name, info.Role),
		"data":    info,
	})
}

// SetMode switches the room between edit and view mode.
func (h *RoomHandler) SetMode(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	link := c.Param("link")
	if link == "" {
		return fail(c, http.StatusBadRequest, "no link was provided")
	}
	var req modeReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.SetEditable(ctx, uid, link, req.Mode); err != nil {
		return serviceFail(c, err)
	}
	mode := "view"
	if req.Mode {
		mode = "edit"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"error":   false,
		"message": fmt.Sprintf("the room was switched to %s mode", mode),
	})
}
