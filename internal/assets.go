package internal

import (
	"encoding/json"
	"errors"
	"net/http"

	"assets-manager/internal/asset"
	"assets-manager/internal/store"

	"go.uber.org/zap"
)

// errorBody is the JSON shape of validation and conflict responses.
type errorBody struct {
	Errors asset.FieldErrors `json:"errors"`
}

func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := s.Store.List(r.Context(), filter)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) getAsset(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := s.Store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) createAsset(w http.ResponseWriter, r *http.Request) {
	var in asset.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	rec, fieldErrs := asset.Validate(in)
	if fieldErrs != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Errors: fieldErrs})
		return
	}

	created, err := s.Store.Create(r.Context(), rec)
	if errors.Is(err, store.ErrDuplicateSerial) {
		writeJSON(w, http.StatusConflict, errorBody{Errors: asset.FieldErrors{asset.FieldSerialNumber: asset.MsgSerialTaken}})
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.Log.Info("asset created", zap.Int64("id", created.IDValue()), zap.String("request_id", RequestIDFromContext(r.Context())))
	writeJSON(w, http.StatusCreated, created)
}

// updateAsset replaces the whole record.
func (s *Server) updateAsset(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var in asset.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	rec, fieldErrs := asset.Validate(in)
	if fieldErrs != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Errors: fieldErrs})
		return
	}

	updated, err := s.Store.Update(r.Context(), id, rec)
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
		return
	case errors.Is(err, store.ErrDuplicateSerial):
		writeJSON(w, http.StatusConflict, errorBody{Errors: asset.FieldErrors{asset.FieldSerialNumber: asset.MsgSerialTaken}})
		return
	case err != nil:
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = s.Store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.Log.Error("request failed",
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFromContext(r.Context())),
	)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
