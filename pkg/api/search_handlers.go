package api

import (
	"net/http"

	"github.com/docmanhq/docman/pkg/httputil"
	"github.com/docmanhq/docman/pkg/pagination"
)

// Messages for the search endpoints
const (
	msgUserQueryRequired     = "an email or name is required"
	msgDocumentQueryRequired = "a document title is required"
	msgNoUserMatches         = "no user found for your search query"
	msgNoDocumentMatches     = "No documents found for your search query"
)

// parseSearchParams validates pagination plus the q parameter, accumulating
// all failures into one response like the rest of the API
func parseSearchParams(w http.ResponseWriter, r *http.Request, queryMessage string) (pagination.Params, string, bool) {
	v := &httputil.Validation{}

	params, err := pagination.ParseParams(r)
	if err != nil {
		v.Check(false, err.Error())
	}

	query := r.URL.Query().Get("q")
	v.Require(query, queryMessage)

	if v.Report(w) {
		return pagination.Params{}, "", false
	}
	return params, query, true
}

func (s *Server) searchUsers(w http.ResponseWriter, r *http.Request) {
	params, query, ok := parseSearchParams(w, r, msgUserQueryRequired)
	if !ok {
		return
	}

	users, total, err := s.store.SearchUsers(r.Context(), query, params.Limit, params.Offset)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if len(users) == 0 {
		httputil.WriteNotFound(w, msgNoUserMatches)
		return
	}

	httputil.WriteSuccess(w, userSearchResponse{
		Pagination: pagination.Paginate(params.Limit, params.Offset, total),
		Users:      searchResults(users),
	})
}

func (s *Server) searchDocuments(w http.ResponseWriter, r *http.Request) {
	params, query, ok := parseSearchParams(w, r, msgDocumentQueryRequired)
	if !ok {
		return
	}

	documents, total, err := s.store.SearchDocuments(r.Context(), query, params.Limit, params.Offset)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if len(documents) == 0 {
		httputil.WriteNotFound(w, msgNoDocumentMatches)
		return
	}

	httputil.WriteSuccess(w, documentListResponse{
		Pagination: pagination.Paginate(params.Limit, params.Offset, total),
		Documents:  documents,
	})
}
