package api

import (
	"errors"
	"net/http"

	"github.com/docmanhq/docman/pkg/httputil"
	"github.com/docmanhq/docman/pkg/middleware"
	"github.com/docmanhq/docman/pkg/pagination"
	"github.com/docmanhq/docman/pkg/policy"
	"github.com/docmanhq/docman/pkg/storage"
)

// Messages for document operations
const (
	msgDocumentNotFound    = "This document does not exist or has been previously deleted"
	msgNoDocuments         = "No document found"
	msgDocumentViewDenied  = "You are not allowed to view this document"
	msgDocumentUpdateOwner = "Only the document owner can update a document"
	msgDocumentDeleteOwner = "Only the document owner or admin can delete a document"
	msgDocumentDeleted     = "Document successfully deleted"
	msgInvalidAccess       = "public, private and role are the only allowed access types"
)

func validateDocumentRequest(req *documentRequest) *httputil.Validation {
	v := &httputil.Validation{}
	v.Require(req.Title, "title cannot be empty")
	v.Require(req.Content, "content cannot be empty")
	v.Require(req.Access, "access cannot be empty")
	v.Check(policy.ValidAccess(req.Access), msgInvalidAccess)
	return v
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if validateDocumentRequest(&req).Report(w) {
		return
	}

	identity := middleware.GetIdentity(r)

	doc := &storage.Document{
		Title:   req.Title,
		Content: req.Content,
		Access:  policy.Access(req.Access),
		UserID:  identity.UserID,
	}
	if err := s.store.CreateDocument(r.Context(), doc); err != nil {
		s.internalError(w, r, err)
		return
	}

	httputil.WriteCreated(w, map[string]interface{}{
		"document": doc,
	})
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.ParseParams(r)
	if err != nil {
		httputil.WriteValidationErrors(w, []string{err.Error()})
		return
	}

	documents, total, err := s.store.ListDocuments(r.Context(), params.Limit, params.Offset)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if len(documents) == 0 {
		httputil.WriteNotFound(w, msgNoDocuments)
		return
	}

	httputil.WriteSuccess(w, documentListResponse{
		Pagination: pagination.Paginate(params.Limit, params.Offset, total),
		Documents:  documents,
	})
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	documentID, ok := httputil.ParsePathIDOrError(w, r, "id", "document id")
	if !ok {
		return
	}

	doc, err := s.store.GetDocument(r.Context(), documentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFound(w, msgDocumentNotFound)
			return
		}
		s.internalError(w, r, err)
		return
	}

	// Existence is reported before access: the 404 must not leak into a 403
	identity := middleware.GetIdentity(r)
	if identity == nil || !policy.CanRead(*identity, doc.Resource()) {
		httputil.WriteForbidden(w, msgDocumentViewDenied)
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"document": doc,
	})
}

func (s *Server) updateDocument(w http.ResponseWriter, r *http.Request) {
	documentID, ok := httputil.ParsePathIDOrError(w, r, "id", "document id")
	if !ok {
		return
	}

	var req documentRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if validateDocumentRequest(&req).Report(w) {
		return
	}

	doc, err := s.store.GetDocument(r.Context(), documentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFound(w, msgDocumentNotFound)
			return
		}
		s.internalError(w, r, err)
		return
	}

	// Owner only. Admins read everything but do not rewrite other people's
	// documents.
	identity := middleware.GetIdentity(r)
	if identity == nil || !policy.CanUpdate(*identity, doc.Resource()) {
		httputil.WriteForbidden(w, msgDocumentUpdateOwner)
		return
	}

	doc.Title = req.Title
	doc.Content = req.Content
	doc.Access = policy.Access(req.Access)

	if err := s.store.UpdateDocument(r.Context(), doc); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFound(w, msgDocumentNotFound)
			return
		}
		s.internalError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"document": doc,
	})
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	documentID, ok := httputil.ParsePathIDOrError(w, r, "id", "document id")
	if !ok {
		return
	}

	doc, err := s.store.GetDocument(r.Context(), documentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFound(w, msgDocumentNotFound)
			return
		}
		s.internalError(w, r, err)
		return
	}

	identity := middleware.GetIdentity(r)
	if identity == nil || !policy.CanDelete(*identity, doc.Resource()) {
		httputil.WriteForbidden(w, msgDocumentDeleteOwner)
		return
	}

	if err := s.store.DeleteDocument(r.Context(), documentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFound(w, msgDocumentNotFound)
			return
		}
		s.internalError(w, r, err)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, msgDocumentDeleted)
}
