package handler

import (
	"errors"
	"net/http"

	notesdomain "family-planner-go/internal/domain/notes"
	"family-planner-go/internal/transport/httpserver/middleware"
)

func (h *Handlers) writeNotesError(w http.ResponseWriter, op string, err error) {
	var pathErr *notesdomain.PathError
	message := err.Error()
	if errors.As(err, &pathErr) {
		message = pathErr.Error()
	}

	switch {
	case errors.Is(err, notesdomain.ErrNotFound):
		h.log.BusinessError(op+": not found", err)
		writeError(w, http.StatusNotFound, "not_found", message)
	case errors.Is(err, notesdomain.ErrAlreadyExists),
		errors.Is(err, notesdomain.ErrNoParent),
		errors.Is(err, notesdomain.ErrCannotMove):
		h.log.BusinessError(op+": rejected", err)
		writeError(w, http.StatusBadRequest, "invalid_request", message)
	default:
		h.log.InternalError(op+" failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// ListFiles serves the section-grouped file listing with optional
// search. With an explicit path it lists that directory instead.
func (h *Handlers) ListFiles(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()
	if path := query.Get("path"); path != "" {
		files, err := h.Notes.ListDirectory(r.Context(), user.ID, path)
		if err != nil {
			h.writeNotesError(w, "notes.list_files", err)
			return
		}
		writeJSON(w, http.StatusOK, files)
		return
	}

	sections, err := h.Notes.ListGrouped(r.Context(), user.ID, query.Get("search"))
	if err != nil {
		h.writeNotesError(w, "notes.list_files", err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

func (h *Handlers) ListSections(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	sections, err := h.Notes.ListSections(r.Context(), user.ID)
	if err != nil {
		h.writeNotesError(w, "notes.list_sections", err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

type createDirectoryRequest struct {
	Path string `json:"path"`
}

func (h *Handlers) CreateDirectory(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createDirectoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "path is required")
		return
	}

	dir, err := h.Notes.CreateDirectory(r.Context(), user.ID, req.Path)
	if err != nil {
		h.writeNotesError(w, "notes.create_directory", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        dir.ID,
		"name":      dir.Name,
		"file_path": dir.FilePath,
		"is_folder": true,
	})
}

type saveNoteRequest struct {
	Path        string   `json:"path"`
	Content     *string  `json:"content"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

func (h *Handlers) SaveNote(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req saveNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Path == "" || req.Content == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "path and content are required")
		return
	}

	file, updated, err := h.Notes.SaveNote(r.Context(), user.ID, notesdomain.SaveNoteInput{
		Path:        req.Path,
		Content:     *req.Content,
		Tags:        req.Tags,
		Description: req.Description,
	})
	if err != nil {
		h.writeNotesError(w, "notes.save_note", err)
		return
	}

	message := "note created"
	status := http.StatusCreated
	if updated {
		message = "note updated"
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]interface{}{
		"id":        file.ID,
		"name":      file.Name,
		"file_path": file.FilePath,
		"message":   message,
	})
}

func (h *Handlers) GetNote(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "path is required")
		return
	}

	note, err := h.Notes.GetNote(r.Context(), user.ID, path)
	if err != nil {
		h.writeNotesError(w, "notes.get_note", err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (h *Handlers) DeleteFile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "path is required")
		return
	}

	if err := h.Notes.Delete(r.Context(), user.ID, path); err != nil {
		h.writeNotesError(w, "notes.delete", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted: " + notesdomain.NormalizePath(path)})
}

type moveRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

func (h *Handlers) MoveFile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Source == "" || req.Destination == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "source and destination are required")
		return
	}

	newPath, err := h.Notes.Move(r.Context(), user.ID, req.Source, req.Destination)
	if err != nil {
		h.writeNotesError(w, "notes.move", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "moved",
		"new_path": newPath,
	})
}

func (h *Handlers) SyncNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	rootFolderID := r.URL.Query().Get("folder_id")
	count, err := h.Notes.SyncFromProvider(r.Context(), user.ID, rootFolderID)
	if err != nil {
		h.log.InternalError("notes.sync failed", err, "user_id", user.ID)
		writeError(w, http.StatusBadGateway, "sync_failed", "failed to sync from storage provider")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "sync complete",
		"files":   count,
	})
}
