package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// JournalService defines the behavior needed by JournalHandler.
type JournalService interface {
	CreateEntry(ctx context.Context, input usecase.CreateEntryInput, actor *domain.Actor) (*domain.JournalEntry, error)
	GetEntry(ctx context.Context, companyID, id string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error)
	UpdateEntry(ctx context.Context, input usecase.UpdateEntryInput, actor *domain.Actor) (*domain.JournalEntry, error)
	DeleteEntry(ctx context.Context, companyID, id string, actor *domain.Actor) error
	PostEntry(ctx context.Context, companyID, id string, actor *domain.Actor) (*domain.JournalEntry, error)
	ReverseEntry(ctx context.Context, companyID, id string, actor *domain.Actor) (*domain.JournalEntry, error)
}

// JournalHandler handles journal entry HTTP requests.
type JournalHandler struct {
	journalUC JournalService
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journalUC JournalService) *JournalHandler {
	return &JournalHandler{journalUC: journalUC}
}

// Create stores a new draft entry.
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.journalUC.CreateEntry(r.Context(), req.ToUseCaseInput(companyID(r)), actor(r))
	if err != nil {
		writeDomainError(w, r, "failed to create journal entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.JournalEntryFromDomain(entry))
}

// Get retrieves an entry with its lines.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.journalUC.GetEntry(r.Context(), companyID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get journal entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntryFromDomain(entry))
}

// List lists entry headers. Supports status, document_type, date_from and date_to.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateQuery(r, "date_from")
	if err != nil {
		writeDomainError(w, r, "invalid query", err)
		return
	}
	to, err := parseDateQuery(r, "date_to")
	if err != nil {
		writeDomainError(w, r, "invalid query", err)
		return
	}

	q := r.URL.Query()
	entries, err := h.journalUC.ListEntries(r.Context(), domain.EntryFilter{
		CompanyID:    companyID(r),
		Status:       domain.EntryStatus(q.Get("status")),
		DocumentType: domain.DocumentType(q.Get("document_type")),
		DateFrom:     from,
		DateTo:       to,
		Limit:        parseIntQuery(r, "limit", 50),
		Offset:       parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list journal entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListJournalEntriesResponse{
		Entries: dto.JournalEntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}

// Update replaces a draft's header fields and lines.
func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := req.ToUseCaseInput(companyID(r), chi.URLParam(r, "id"))
	entry, err := h.journalUC.UpdateEntry(r.Context(), input, actor(r))
	if err != nil {
		writeDomainError(w, r, "failed to update journal entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntryFromDomain(entry))
}

// Delete soft-deletes a draft.
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.journalUC.DeleteEntry(r.Context(), companyID(r), chi.URLParam(r, "id"), actor(r)); err != nil {
		writeDomainError(w, r, "failed to delete journal entry", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Post numbers a draft and makes it immutable.
func (h *JournalHandler) Post(w http.ResponseWriter, r *http.Request) {
	entry, err := h.journalUC.PostEntry(r.Context(), companyID(r), chi.URLParam(r, "id"), actor(r))
	if err != nil {
		writeDomainError(w, r, "failed to post journal entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntryFromDomain(entry))
}

// Reverse creates and posts the mirror image of a posted entry.
func (h *JournalHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	reversal, err := h.journalUC.ReverseEntry(r.Context(), companyID(r), chi.URLParam(r, "id"), actor(r))
	if err != nil {
		writeDomainError(w, r, "failed to reverse journal entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.JournalEntryFromDomain(reversal))
}
