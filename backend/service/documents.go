package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/pkg/logger"
)

// RequiredDocuments returns the fixed document definitions.
func RequiredDocuments() []model.RequiredDocument {
	return []model.RequiredDocument{
		{Name: "Valid ID of Signatory", Formats: "PDF, JPEG, PNG", Description: "Government-issued ID of the person authorized to sign documents"},
		{Name: "DTI Certificate", Formats: "PDF", Description: "Department of Trade and Industry registration certificate"},
		{Name: "BIR Form 2303", Formats: "PDF", Description: "Bureau of Internal Revenue certificate of registration"},
		{Name: "Business Permit", Formats: "PDF", Description: "Local government unit business permit"},
	}
}

// AllowedDocumentExtensions are the accepted upload file types.
var AllowedDocumentExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

// DocumentStorage persists uploaded files.
type DocumentStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
}

// DocumentLinker is implemented by storage that can hand out download links.
type DocumentLinker interface {
	Link(ctx context.Context, key string) (string, error)
}

// DiscardStorage accepts uploads without keeping them.
type DiscardStorage struct{}

func (DiscardStorage) Put(_ context.Context, _ string, r io.Reader, _ int64, _ string) error {
	_, err := io.Copy(io.Discard, r)
	return err
}

func (DiscardStorage) Remove(context.Context, string) error { return nil }

// UploadInput is one uploaded file for a named required document.
type UploadInput struct {
	Name        string
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
}

// DocumentStats are the counters shown above the document list.
type DocumentStats struct {
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
	Missing  int `json:"missing"`
}

// DocumentService owns the Documents screen.
type DocumentService struct {
	owner    string
	required []model.RequiredDocument
	docs     *RecordList[model.Document]
	storage  DocumentStorage
	notifier Notifier
	now      func() time.Time
}

func NewDocumentService(owner string, seed []model.Document, storage DocumentStorage, notifier Notifier, now func() time.Time) *DocumentService {
	if storage == nil {
		storage = DiscardStorage{}
	}
	if now == nil {
		now = time.Now
	}
	return &DocumentService{
		owner:    owner,
		required: RequiredDocuments(),
		docs:     NewRecordList(seed),
		storage:  storage,
		notifier: notifier,
		now:      now,
	}
}

func (s *DocumentService) Required() []model.RequiredDocument { return s.required }

func (s *DocumentService) List() []model.Document { return s.docs.Snapshot() }

func (s *DocumentService) isRequired(name string) bool {
	return slices.ContainsFunc(s.required, func(r model.RequiredDocument) bool { return r.Name == name })
}

// Upload stores the file and records it under the document name, replacing
// any earlier record of that name.
func (s *DocumentService) Upload(ctx context.Context, in UploadInput) (model.Document, error) {
	if !s.isRequired(in.Name) {
		err := model.NewValidationError("Unknown Document", "not a required document", in.Name)
		notifyFailure(ctx, s.notifier, err)
		return model.Document{}, err
	}
	ext := strings.ToLower(filepath.Ext(in.Filename))
	if !slices.Contains(AllowedDocumentExtensions, ext) {
		err := model.NewValidationError("Invalid File Type", "only PDF, JPEG and PNG files are allowed", in.Filename)
		notifyFailure(ctx, s.notifier, err)
		return model.Document{}, err
	}

	id := uuid.New().String()
	key := fmt.Sprintf("documents/%s/%s/%s", s.owner, id, filepath.Base(in.Filename))
	if err := s.storage.Put(ctx, key, in.Body, in.Size, in.ContentType); err != nil {
		return model.Document{}, fmt.Errorf("failed to store document: %w", err)
	}

	doc := model.Document{
		ID:         id,
		Name:       in.Name,
		Type:       in.ContentType,
		Status:     model.DocumentPending,
		UploadDate: model.Date(s.now()),
		Size:       FormatSize(in.Size),
		Required:   true,
		ObjectKey:  key,
	}
	old, replaced := s.docs.Upsert(func(d model.Document) bool { return d.Name == in.Name }, doc)
	if replaced && old.ObjectKey != "" {
		if err := s.storage.Remove(ctx, old.ObjectKey); err != nil {
			logger.Warn(ctx, "failed to remove replaced document", "key", old.ObjectKey, "error", err)
		}
	}

	logger.Info(ctx, "document uploaded", "document", in.Name, "replaced", replaced)
	notify(ctx, s.notifier, "Document Uploaded", fmt.Sprintf("%s has been uploaded successfully.", in.Name))
	return doc, nil
}

// Delete removes a document record. Deleting an unknown id is a no-op.
func (s *DocumentService) Delete(ctx context.Context, id string) bool {
	doc, ok := s.docs.Find(func(d model.Document) bool { return d.ID == id })
	if !ok {
		return false
	}
	s.docs.Filter(func(d model.Document) bool { return d.ID != id })

	if doc.ObjectKey != "" {
		if err := s.storage.Remove(ctx, doc.ObjectKey); err != nil {
			logger.Warn(ctx, "failed to remove document object", "key", doc.ObjectKey, "error", err)
		}
	}
	notify(ctx, s.notifier, "Document Deleted", "The document has been removed.")
	return true
}

// DownloadURL returns a link to the stored file of a document. Seeded
// records and uploads kept by non-linking storage have no file.
func (s *DocumentService) DownloadURL(ctx context.Context, id string) (string, error) {
	doc, ok := s.docs.Find(func(d model.Document) bool { return d.ID == id })
	if !ok {
		return "", ErrNotFound
	}
	linker, ok := s.storage.(DocumentLinker)
	if !ok || doc.ObjectKey == "" {
		return "", ErrNotStored
	}
	url, err := linker.Link(ctx, doc.ObjectKey)
	if err != nil {
		return "", fmt.Errorf("failed to link document: %w", err)
	}
	return url, nil
}

func (s *DocumentService) Stats() DocumentStats {
	docs := s.docs.Snapshot()
	var st DocumentStats
	for _, d := range docs {
		switch d.Status {
		case model.DocumentApproved:
			st.Approved++
		case model.DocumentPending:
			st.Pending++
		case model.DocumentRejected:
			st.Rejected++
		}
	}
	st.Missing = len(s.required) - uploadedRequired(s.required, docs)
	return st
}

func (s *DocumentService) Unlocked() bool {
	return DocumentsUnlocked(s.required, s.docs.Snapshot())
}

// SubmitForApproval sends the document set to finance review. Every
// required document must be uploaded first.
func (s *DocumentService) SubmitForApproval(ctx context.Context) error {
	if !s.Unlocked() {
		err := model.NewValidationError("Documents Incomplete", "all required documents must be uploaded before submission")
		notifyFailure(ctx, s.notifier, err)
		return err
	}
	notify(ctx, s.notifier, "Documents Submitted", "Your documents have been submitted for finance approval.")
	return nil
}

func (s *DocumentService) Header() Header {
	unlocked := s.Unlocked()
	status := model.BadgePending
	if unlocked {
		status = model.BadgeApproved
	}
	return Header{
		Title:       "Document Management",
		Description: "Upload and manage your required business documents",
		CurrentStep: model.StepDocuments,
		TotalSteps:  len(model.OnboardingSteps()),
		StepStatus:  status,
		Prev:        &model.NavLink{Label: "Back to Registration", Path: "/register"},
		Next:        &model.NavLink{Label: "Next: Contracts", Path: "/contracts", Disabled: !unlocked},
	}
}

func (s *DocumentService) Progress() Progress {
	return screenProgress(model.StepDocuments, s.Unlocked())
}

// FormatSize renders a byte count the way the document list shows it.
func FormatSize(size int64) string {
	return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
}
