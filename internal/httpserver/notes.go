package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/noteet/internal/middleware/auth"
	"github.com/Skotchmaster/noteet/internal/service"
	"github.com/Skotchmaster/noteet/internal/transport"
	"github.com/Skotchmaster/noteet/internal/util"
	"github.com/Skotchmaster/noteet/pkg/logging"
)

type NotesHTTP struct {
	Svc *service.NoteService
}

// ListNotes godoc
//
//	@Summary		List notes
//	@Description	Returns the caller's notes, newest first. Answers 204 when there are none.
//	@Tags			Notes
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	transport.NotesResponse
//	@Success		204
//	@Failure		401	{object}	transport.ErrorResponse
//	@Failure		403	{object}	transport.ErrorResponse
//	@Router			/notes [get]
func (h *NotesHTTP) ListNotes(c echo.Context) error {
	ctx := c.Request().Context()
	owner, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	notes, err := h.Svc.ListNotes(ctx, owner)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, transport.NotesResponse{Notes: notes})
}

// SearchNotes godoc
//
//	@Summary		Search notes
//	@Description	Full-text search over the caller's notes.
//	@Tags			Notes
//	@Produce		json
//	@Security		BearerAuth
//	@Param			q		query		string	true	"Search text"
//	@Param			limit	query		int		false	"Max results (default 20, max 100)"
//	@Success		200		{object}	transport.NotesResponse
//	@Failure		400		{object}	transport.ErrorResponse
//	@Failure		401		{object}	transport.ErrorResponse
//	@Failure		403		{object}	transport.ErrorResponse
//	@Router			/notes/search [get]
func (h *NotesHTTP) SearchNotes(c echo.Context) error {
	ctx := c.Request().Context()
	owner, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	notes, err := h.Svc.SearchNotes(ctx, owner, c.QueryParam("q"), util.Limit(c.QueryParam("limit")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NotesResponse{Notes: notes})
}

// GetNote godoc
//
//	@Summary		Get a note
//	@Tags			Notes
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Note ID"
//	@Success		200	{object}	models.Note
//	@Failure		400	{object}	transport.ErrorResponse	"note not found"
//	@Failure		401	{object}	transport.ErrorResponse
//	@Failure		403	{object}	transport.ErrorResponse
//	@Router			/notes/{id} [get]
func (h *NotesHTTP) GetNote(c echo.Context) error {
	ctx := c.Request().Context()
	owner, err := authmw.UserID(c)
	if err != nil {
		return err
	}
	id, err := noteID(c)
	if err != nil {
		return err
	}

	note, err := h.Svc.GetNote(ctx, id, owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, note)
}

// CreateNote godoc
//
//	@Summary		Create a note
//	@Tags			Notes
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		transport.NoteRequest	true	"Note"
//	@Success		201		{object}	transport.MessageResponse
//	@Failure		400		{object}	transport.ErrorResponse
//	@Failure		401		{object}	transport.ErrorResponse
//	@Failure		403		{object}	transport.ErrorResponse
//	@Router			/notes [post]
func (h *NotesHTTP) CreateNote(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notes.create")

	owner, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var req transport.NoteRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("note_create_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	note, err := h.Svc.CreateNote(ctx, owner, req.Value, req.Color)
	if err != nil {
		return err
	}

	l.Info("note_create_success", "note_id", note.ID.String())
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: "created successfully", ID: note.ID.String()})
}

// UpdateNote godoc
//
//	@Summary		Update a note
//	@Tags			Notes
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Note ID"
//	@Param			request	body		transport.NoteRequest	true	"New value and color"
//	@Success		200		{object}	transport.MessageResponse
//	@Failure		400		{object}	transport.ErrorResponse	"Empty request or note not found"
//	@Failure		401		{object}	transport.ErrorResponse
//	@Failure		403		{object}	transport.ErrorResponse
//	@Router			/notes/{id} [put]
func (h *NotesHTTP) UpdateNote(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notes.update")

	owner, err := authmw.UserID(c)
	if err != nil {
		return err
	}
	id, err := noteID(c)
	if err != nil {
		return err
	}

	var req transport.NoteRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("note_update_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	note, err := h.Svc.UpdateNote(ctx, id, owner, req.Value, req.Color)
	if err != nil {
		return err
	}

	l.Info("note_update_success", "note_id", note.ID.String())
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "updated successfully", ID: note.ID.String()})
}

// DeleteNote godoc
//
//	@Summary		Delete a note
//	@Tags			Notes
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Note ID"
//	@Success		200	{object}	transport.MessageResponse
//	@Failure		400	{object}	transport.ErrorResponse	"note not found"
//	@Failure		401	{object}	transport.ErrorResponse
//	@Failure		403	{object}	transport.ErrorResponse
//	@Router			/notes/{id} [delete]
func (h *NotesHTTP) DeleteNote(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notes.delete")

	owner, err := authmw.UserID(c)
	if err != nil {
		return err
	}
	id, err := noteID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteNote(ctx, id, owner); err != nil {
		return err
	}

	l.Info("note_delete_success", "note_id", id.String())
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "deleted successfully", ID: id.String()})
}

// a malformed id cannot name an owned note
func noteID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "note not found").SetInternal(err)
	}
	return id, nil
}
