// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"mediapress/internal/apperr"
	"mediapress/internal/files"
	"mediapress/internal/models"
)

// Media groups the file and folder management endpoints.
type Media struct {
	service *files.Service
}

// NewMedia creates the media handler group.
func NewMedia(service *files.Service) *Media {
	return &Media{service: service}
}

type folderRequest struct {
	Name       string     `json:"name" validate:"required,max=200"`
	ParentID   *uuid.UUID `json:"parent_id"`
	AccessType string     `json:"access_type" validate:"omitempty,oneof=private public"`
	IsPublic   bool       `json:"is_public"`
}

// Upload accepts one multipart file plus optional folder_id and
// access_type form fields. The stored access type is the effective one
// after folder inheritance, which may differ from the request.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(files.MaxUploadSize); err != nil {
		writeError(w, apperr.Validationf("file", "invalid multipart form: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperr.Validationf("file", "file field is required"))
		return
	}
	defer file.Close()

	var folderID *uuid.UUID
	if raw := r.FormValue("folder_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, apperr.Validationf("folderId", "invalid folder id"))
			return
		}
		folderID = &id
	}

	var userID *uuid.UUID
	if caller := callerID(r); caller != uuid.Nil {
		userID = &caller
	}

	f, err := h.service.Upload(r.Context(), files.UploadInput{
		OriginalName: header.Filename,
		Content:      file,
		Size:         header.Size,
		FolderID:     folderID,
		UserID:       userID,
		AccessType:   models.AccessType(r.FormValue("access_type")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// Get returns a file's metadata.
func (h *Media) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	f, err := h.service.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// DownloadURL returns the URL the file's bytes are served from.
func (h *Media) DownloadURL(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	url, err := h.service.DownloadURL(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Content streams the file's bytes through the API. Useful for private
// files when pre-signed URLs cannot be handed out.
func (h *Media) Content(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	data, f, err := h.service.Content(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", f.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.OriginalName+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Delete removes a file unless a publication still attaches it.
func (h *Media) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRoot returns top-level folders and root files.
func (h *Media) ListRoot(w http.ResponseWriter, r *http.Request) {
	folders, rootFiles, err := h.service.ListRoot()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"folders": folders,
		"files":   rootFiles,
	})
}

// CreateFolder makes a new folder.
func (h *Media) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&req); err != nil {
		writeError(w, err)
		return
	}
	var userID *uuid.UUID
	if caller := callerID(r); caller != uuid.Nil {
		userID = &caller
	}
	f, err := h.service.CreateFolder(req.Name, req.ParentID, userID, models.AccessType(req.AccessType), req.IsPublic)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// GetFolder returns a folder with its child folders and files.
func (h *Media) GetFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	folder, children, contents, err := h.service.GetFolder(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"folder":  folder,
		"folders": children,
		"files":   contents,
	})
}

// UpdateFolder renames a folder or changes its access flags.
func (h *Media) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req folderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := checkStruct(&req); err != nil {
		writeError(w, err)
		return
	}
	accessType := models.AccessType(req.AccessType)
	if accessType == "" {
		accessType = models.AccessPrivate
	}
	f, err := h.service.UpdateFolder(&models.Folder{
		ID:         id,
		Name:       req.Name,
		ParentID:   req.ParentID,
		AccessType: accessType,
		IsPublic:   req.IsPublic,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// DeleteFolder removes a folder; its contents re-parent to the root.
func (h *Media) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.DeleteFolder(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
