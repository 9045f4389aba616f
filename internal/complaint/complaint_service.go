// Package complaint provides the complaint lifecycle: filing, listing with
// proof URLs, status transitions and the dashboard statistics.
package complaint

import (
	"civiceye/backend/internal/analysis"
	"civiceye/backend/internal/models"
	"civiceye/backend/internal/proof"
	"civiceye/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

// Messages carried by the errors this package returns. The HTTP layer sends
// them to clients verbatim.
const (
	MsgInvalidUserID     = "Invalid User ID format"
	MsgUserNotFound      = "User Not Found"
	MsgActorNotFound     = "User not found"
	MsgNotAdmin          = "Forbidden: Not an admin"
	MsgComplaintNotFound = "Complaint not found"
	MsgInvalidStatus     = "Invalid Status"
	MsgTypeRequired      = "Complaint type is required"
	MsgProofTooLarge     = "Proof file too large"
)

// ProofStore keeps uploaded attachments.
type ProofStore interface {
	Save(userID, originalName string, src io.Reader) (string, error)
	Remove(userID, name string) error
}

// Notifier is told about complaint events. Failures are logged, never
// returned to the caller.
type Notifier interface {
	ComplaintFiled(ctx context.Context, c *models.Complaint) error
	StatusChanged(ctx context.Context, c *models.Complaint, previous models.Status) error
}

// Attachment is an uploaded proof file.
type Attachment struct {
	Name string
	Body io.Reader
}

// NewComplaint is the payload of a complaint submission.
type NewComplaint struct {
	UserID      string
	Type        string
	Description string
	Location    string
	Attachment  *Attachment
}

// Service handles the business logic for complaints.
type Service struct {
	Storage  storage.Storage
	Proofs   ProofStore
	Resolver proof.Resolver
	Notifier Notifier

	// Now is the clock used for createdAt, resolvedAt and the stats window.
	Now func() time.Time
}

// NewService creates a new complaint service.
func NewService(s storage.Storage, proofs ProofStore, resolver proof.Resolver) *Service {
	return &Service{
		Storage:  s,
		Proofs:   proofs,
		Resolver: resolver,
		Now:      time.Now,
	}
}

// requireUser validates id against the store's scheme and loads the user.
func (s *Service) requireUser(ctx context.Context, id, notFoundMsg string) (*models.User, error) {
	if id == "" || !s.Storage.ValidID(id) {
		return nil, NewValidationError(MsgInvalidUserID)
	}
	user, err := s.Storage.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", id, err)
	}
	if user == nil {
		return nil, NewNotFoundError(notFoundMsg, nil)
	}
	return user, nil
}

// AuthorizeAdmin is the single role check for admin-only operations.
func (s *Service) AuthorizeAdmin(ctx context.Context, actorID string) (*models.User, error) {
	user, err := s.requireUser(ctx, actorID, MsgActorNotFound)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, NewForbiddenError(MsgNotAdmin)
	}
	return user, nil
}

// Create files a new complaint in the Pending state and returns it.
func (s *Service) Create(ctx context.Context, in NewComplaint) (*models.Complaint, error) {
	if _, err := s.requireUser(ctx, in.UserID, MsgUserNotFound); err != nil {
		return nil, err
	}
	complaintType := strings.TrimSpace(in.Type)
	if complaintType == "" {
		return nil, NewValidationError(MsgTypeRequired)
	}

	c := &models.Complaint{
		UserID:      in.UserID,
		Type:        complaintType,
		Description: in.Description,
		Location:    in.Location,
		Status:      models.StatusPending,
		CreatedAt:   s.Now(),
	}

	if in.Attachment != nil {
		name, err := s.Proofs.Save(in.UserID, in.Attachment.Name, in.Attachment.Body)
		if err != nil {
			if errors.Is(err, proof.ErrTooLarge) {
				return nil, NewValidationError(MsgProofTooLarge)
			}
			return nil, fmt.Errorf("store proof: %w", err)
		}
		c.Proof = &name
	}

	if err := s.Storage.CreateComplaint(ctx, c); err != nil {
		if c.Proof != nil {
			if rmErr := s.Proofs.Remove(in.UserID, *c.Proof); rmErr != nil {
				log.Printf("WARNING: Failed to remove orphaned proof %s/%s: %v", in.UserID, *c.Proof, rmErr)
			}
		}
		return nil, fmt.Errorf("create complaint: %w", err)
	}

	if s.Notifier != nil {
		if err := s.Notifier.ComplaintFiled(ctx, c); err != nil {
			log.Printf("WARNING: Failed to send complaint notification for %s: %v", c.ID, err)
		}
	}
	return c, nil
}

// ListAll returns every complaint to an admin actor.
func (s *Service) ListAll(ctx context.Context, actorID string) ([]models.Complaint, error) {
	if _, err := s.AuthorizeAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	complaints, err := s.Storage.ListComplaints(ctx)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return s.withProofURLs(complaints), nil
}

// ListByUser returns the complaints filed by userID. No ownership check is
// made here; the HTTP layer decides whether the caller may ask.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Complaint, error) {
	complaints, err := s.Storage.ListComplaintsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list complaints for %s: %w", userID, err)
	}
	return s.withProofURLs(complaints), nil
}

// UpdateStatus moves a complaint to status. Any status may follow any
// other; ResolvedAt is stamped on Resolved and cleared otherwise. The
// read-then-write is not guarded, so concurrent updates are last-writer-wins.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaintByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load complaint %s: %w", id, err)
	}
	if c == nil {
		return nil, NewNotFoundError(MsgComplaintNotFound, nil)
	}

	target, ok := models.ParseStatus(status)
	if !ok {
		return nil, NewValidationError(MsgInvalidStatus)
	}

	previous := c.Status
	c.SetStatus(target, s.Now())
	if err := s.Storage.UpdateComplaint(ctx, c); err != nil {
		return nil, fmt.Errorf("update complaint %s: %w", id, err)
	}

	if s.Notifier != nil && previous != target {
		if err := s.Notifier.StatusChanged(ctx, c, previous); err != nil {
			log.Printf("WARNING: Failed to send status notification for %s: %v", c.ID, err)
		}
	}
	return c, nil
}

// Stats scans every complaint and aggregates them. It returns nil when the
// store holds no complaints at all.
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	complaints, err := s.Storage.ListComplaints(ctx)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	if len(complaints) == 0 {
		return nil, nil
	}
	stats := analysis.Aggregate(complaints, s.Now())
	return &stats, nil
}

// withProofURLs replaces each stored proof name with its public URL.
func (s *Service) withProofURLs(complaints []models.Complaint) []models.Complaint {
	out := make([]models.Complaint, len(complaints))
	for i, c := range complaints {
		c.Proof = s.Resolver.URL(c.UserID, c.Proof)
		out[i] = c
	}
	return out
}
