package viewmodel

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/uniconnect-hub/backend/internal/models"
)

func newConfessionFixture() (*ConfessionService, *fakeConfessionRepo, *fakeAuditRepo) {
	confessions := &fakeConfessionRepo{}
	audit := &fakeAuditRepo{}
	return NewConfessionService(confessions, audit), confessions, audit
}

func TestSubmitConfessionStartsPending(t *testing.T) {
	svc, _, _ := newConfessionFixture()

	confession, err := svc.Submit(uuid.New(), "I never read the course material")
	if err != nil {
		t.Fatal(err)
	}
	if confession.Status != models.ConfessionPending {
		t.Fatalf("status %q, want pending", confession.Status)
	}

	approved, err := svc.Approved()
	if err != nil {
		t.Fatal(err)
	}
	if len(approved) != 0 {
		t.Fatal("pending confession must not be on the public board")
	}
}

func TestApprovedBoardStripsAuthor(t *testing.T) {
	svc, repo, _ := newConfessionFixture()
	author := uuid.New()
	admin := uuid.New()

	confession, err := svc.Submit(author, "secret")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Approve(admin, confession.ID); err != nil {
		t.Fatal(err)
	}

	approved, err := svc.Approved()
	if err != nil {
		t.Fatal(err)
	}
	if len(approved) != 1 {
		t.Fatalf("expected 1 approved, got %d", len(approved))
	}
	if approved[0].UserID != uuid.Nil {
		t.Fatal("author id must be stripped from the public board")
	}
	// the stored row keeps the author for admin accountability
	if repo.confessions[0].UserID != author {
		t.Fatal("stored row must retain the author")
	}
}

func TestModerationDecisionsAreAudited(t *testing.T) {
	svc, repo, audit := newConfessionFixture()
	admin := uuid.New()

	first, _ := svc.Submit(uuid.New(), "one")
	second, _ := svc.Submit(uuid.New(), "two")

	if err := svc.Approve(admin, first.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reject(admin, second.ID); err != nil {
		t.Fatal(err)
	}

	if len(audit.entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(audit.entries))
	}
	if audit.entries[0].action != models.AuditApproveConfession ||
		audit.entries[1].action != models.AuditRejectConfession {
		t.Fatalf("audit actions wrong: %+v", audit.entries)
	}
	if audit.entries[0].adminID != admin || *audit.entries[0].targetID != first.ID {
		t.Fatalf("audit entry wrong: %+v", audit.entries[0])
	}

	pending, _ := svc.Pending()
	if len(pending) != 0 {
		t.Fatalf("moderation queue should be empty, got %d", len(pending))
	}
	if status := repo.confessions[0].Status; status != models.ConfessionRejected {
		t.Fatalf("second confession status %q", status)
	}
}

func TestReviewSurfacesAuditFailure(t *testing.T) {
	svc, _, audit := newConfessionFixture()
	audit.fail = errors.New("audit store down")

	confession, _ := svc.Submit(uuid.New(), "secret")
	if err := svc.Approve(uuid.New(), confession.ID); err == nil {
		t.Fatal("a failed audit write must surface")
	}
}
