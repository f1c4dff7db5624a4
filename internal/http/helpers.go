package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitepages/internal/pages"
	schemavalidation "github.com/goliatone/go-sitepages/internal/validation"
)

var errBadRequest = errors.New("http: bad request")

type errorResponse struct {
	Error   string                             `json:"error"`
	Message string                             `json:"message,omitempty"`
	Issues  []schemavalidation.ValidationIssue `json:"issues,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	if pages.IsNotFound(err) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: notFoundMessage(err),
		}
	}

	if errors.Is(err, pages.ErrSlugExists) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}
	}

	if errors.Is(err, schemavalidation.ErrSchemaValidation) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Issues:  schemavalidation.Issues(err),
		}
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
			Issues:  fieldIssues(fieldErrs),
		}
	}

	if errors.Is(err, errBadRequest) ||
		errors.Is(err, pages.ErrSlugInvalid) ||
		errors.Is(err, pages.ErrSchemaUnknown) ||
		errors.Is(err, pages.ErrPageRequired) ||
		goerrors.IsCategory(err, goerrors.CategoryValidation) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func notFoundMessage(err error) string {
	var notFound *pages.NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}
	return err.Error()
}

func fieldIssues(errs validation.Errors) []schemavalidation.ValidationIssue {
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	issues := make([]schemavalidation.ValidationIssue, 0, len(keys))
	for _, key := range keys {
		if errs[key] == nil {
			continue
		}
		issues = append(issues, schemavalidation.ValidationIssue{
			Location: "/" + key,
			Message:  errs[key].Error(),
		})
	}
	return issues
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.Join(errBadRequest, errors.New("uuid required"))
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, errors.Join(errBadRequest, err)
	}
	return parsed, nil
}
