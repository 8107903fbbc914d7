package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/noteet/internal/models"
	"github.com/Skotchmaster/noteet/internal/mykafka"
	"github.com/Skotchmaster/noteet/internal/repo"
	"github.com/Skotchmaster/noteet/pkg/logging"
)

// NoteStore scopes every lookup by owner; a note owned by someone else
// reads as repo.ErrNotFound.
type NoteStore interface {
	ListNotes(ctx context.Context, owner uuid.UUID) ([]models.Note, error)
	FindNote(ctx context.Context, id, owner uuid.UUID) (*models.Note, error)
	CreateNote(ctx context.Context, n *models.Note) error
	UpdateNote(ctx context.Context, id, owner uuid.UUID, value, color string) (*models.Note, error)
	DeleteNote(ctx context.Context, id, owner uuid.UUID) error
	SearchNotes(ctx context.Context, owner uuid.UUID, query string, limit int) ([]models.Note, error)
}

type NoteSearcher interface {
	SearchNotes(ctx context.Context, owner uuid.UUID, query string, limit int) ([]models.Note, error)
}

type NoteIndexer interface {
	IndexNote(ctx context.Context, n models.Note) error
	RemoveNote(ctx context.Context, id uuid.UUID) error
}

type NoteService struct {
	Notes  NoteStore
	Events EventPublisher

	// Search and Index point at a full-text engine. When Search is nil
	// or fails, SearchNotes falls back to the store.
	Search NoteSearcher
	Index  NoteIndexer

	now func() time.Time
}

func NewNoteService(notes NoteStore, events EventPublisher) *NoteService {
	return &NoteService{Notes: notes, Events: events, now: time.Now}
}

func (s *NoteService) WithSearch(searcher NoteSearcher, indexer NoteIndexer) *NoteService {
	s.Search = searcher
	s.Index = indexer
	return s
}

func (s *NoteService) ListNotes(ctx context.Context, owner uuid.UUID) ([]models.Note, error) {
	notes, err := s.Notes.ListNotes(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) GetNote(ctx context.Context, id, owner uuid.UUID) (*models.Note, error) {
	note, err := s.Notes.FindNote(ctx, id, owner)
	if err != nil {
		return nil, noteErr(err)
	}
	return note, nil
}

func (s *NoteService) CreateNote(ctx context.Context, owner uuid.UUID, value, color string) (*models.Note, error) {
	l := logging.FromContext(ctx).With("svc", "notes.create")

	if blank(value) || blank(color) {
		return nil, newError(ErrValidation, "value and color are required")
	}

	note := &models.Note{
		Value:     value,
		Color:     color,
		Owner:     owner,
		CreatedAt: s.now().UTC(),
	}
	if err := s.Notes.CreateNote(ctx, note); err != nil {
		l.Error("note_create_error", "status", 500, "reason", "cannot add note to db", "error", err)
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.index(ctx, *note)
	publishEvent(ctx, s.Events, s.now, mykafka.TopicNotes, "note_created", owner, note.ID)
	return note, nil
}

func (s *NoteService) UpdateNote(ctx context.Context, id, owner uuid.UUID, value, color string) (*models.Note, error) {
	l := logging.FromContext(ctx).With("svc", "notes.update")

	if blank(value) || blank(color) {
		return nil, newError(ErrValidation, "value and color are required")
	}

	note, err := s.Notes.UpdateNote(ctx, id, owner, value, color)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			l.Error("note_update_error", "status", 500, "reason", "cannot update note", "error", err)
		}
		return nil, noteErr(err)
	}

	s.index(ctx, *note)
	publishEvent(ctx, s.Events, s.now, mykafka.TopicNotes, "note_updated", owner, note.ID)
	return note, nil
}

func (s *NoteService) DeleteNote(ctx context.Context, id, owner uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "notes.delete")

	if err := s.Notes.DeleteNote(ctx, id, owner); err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			l.Error("note_delete_error", "status", 500, "reason", "cannot delete note", "error", err)
		}
		return noteErr(err)
	}

	if s.Index != nil {
		if err := s.Index.RemoveNote(ctx, id); err != nil {
			l.Warn("note_unindex_error", "note_id", id.String(), "error", err)
		}
	}
	publishEvent(ctx, s.Events, s.now, mykafka.TopicNotes, "note_deleted", owner, id)
	return nil
}

func (s *NoteService) SearchNotes(ctx context.Context, owner uuid.UUID, query string, limit int) ([]models.Note, error) {
	if blank(query) {
		return nil, newError(ErrValidation, "query is required")
	}

	if s.Search != nil {
		notes, err := s.Search.SearchNotes(ctx, owner, query, limit)
		if err == nil {
			return notes, nil
		}
		logging.FromContext(ctx).Warn("note_search_fallback", "reason", "search engine failed", "error", err)
	}

	notes, err := s.Notes.SearchNotes(ctx, owner, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) index(ctx context.Context, n models.Note) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexNote(ctx, n); err != nil {
		logging.FromContext(ctx).Warn("note_index_error", "note_id", n.ID.String(), "error", err)
	}
}

func noteErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return wrapError(ErrNotFound, "note not found", err)
	}
	return err
}
