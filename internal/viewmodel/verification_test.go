package viewmodel

import (
	"testing"

	"github.com/google/uuid"

	"github.com/uniconnect-hub/backend/internal/models"
)

type verificationFixture struct {
	svc      *VerificationService
	requests *fakeVerificationRepo
	profiles *fakeProfileRepo
	users    *fakeUserRepo
	audit    *fakeAuditRepo
	mailer   *fakeMailer
}

func newVerificationFixture() *verificationFixture {
	f := &verificationFixture{
		requests: &fakeVerificationRepo{},
		profiles: newFakeProfileRepo(),
		users:    newFakeUserRepo(),
		audit:    &fakeAuditRepo{},
		mailer:   &fakeMailer{},
	}
	f.svc = NewVerificationService(f.requests, f.profiles, f.users, f.audit, f.mailer)
	return f
}

func (f *verificationFixture) seedUser(username, name, email string) uuid.UUID {
	id := uuid.New()
	f.users.CreateUser(&models.User{ID: id, Email: email})
	f.profiles.add(id, username, name)
	return id
}

func TestApplyRejectsDuplicate(t *testing.T) {
	f := newVerificationFixture()
	user := f.seedUser("amara", "Amara", "amara@unilag.edu.ng")

	req := models.ApplyVerificationRequest{Reason: "student union president", PaymentReference: "PAY-123"}
	if _, err := f.svc.Apply(user, req); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Apply(user, req); err == nil {
		t.Fatal("second application must be rejected")
	}
}

func TestStatusForWithoutApplication(t *testing.T) {
	f := newVerificationFixture()

	status, err := f.svc.StatusFor(uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if status != nil {
		t.Fatalf("expected no application, got %+v", status)
	}
}

func TestApproveGrantsBadge(t *testing.T) {
	f := newVerificationFixture()
	user := f.seedUser("amara", "Amara", "amara@unilag.edu.ng")
	admin := uuid.New()

	request, err := f.svc.Apply(user, models.ApplyVerificationRequest{
		Reason: "student union president", PaymentReference: "PAY-123",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Approve(admin, request.ID, "docs check out"); err != nil {
		t.Fatal(err)
	}

	stored, _ := f.requests.GetByID(request.ID)
	if stored.Status != models.VerificationApproved || stored.AdminNotes != "docs check out" {
		t.Fatalf("request not reviewed: %+v", stored)
	}
	if stored.ReviewedBy == nil || *stored.ReviewedBy != admin {
		t.Fatal("reviewer not recorded")
	}

	prof, _ := f.profiles.GetByUserID(user)
	if !prof.IsVerified {
		t.Fatal("profile is_verified flag must be set")
	}

	if len(f.audit.entries) != 1 || f.audit.entries[0].action != models.AuditApproveVerification {
		t.Fatalf("audit entries %+v", f.audit.entries)
	}
	if f.audit.entries[0].details["request_id"] != request.ID {
		t.Fatal("audit details must carry the request id")
	}

	if len(f.mailer.sent) != 1 || !f.mailer.sent[0].approved || f.mailer.sent[0].to != "amara@unilag.edu.ng" {
		t.Fatalf("outcome mail wrong: %+v", f.mailer.sent)
	}
}

func TestRejectLeavesProfileUnverified(t *testing.T) {
	f := newVerificationFixture()
	user := f.seedUser("bayo", "Bayo", "bayo@unilag.edu.ng")
	admin := uuid.New()

	request, _ := f.svc.Apply(user, models.ApplyVerificationRequest{
		Reason: "just want the badge", PaymentReference: "PAY-999",
	})
	if err := f.svc.Reject(admin, request.ID, "insufficient grounds"); err != nil {
		t.Fatal(err)
	}

	prof, _ := f.profiles.GetByUserID(user)
	if prof.IsVerified {
		t.Fatal("rejection must not verify the profile")
	}
	if len(f.audit.entries) != 1 || f.audit.entries[0].action != models.AuditRejectVerification {
		t.Fatalf("audit entries %+v", f.audit.entries)
	}
	if len(f.mailer.sent) != 1 || f.mailer.sent[0].approved {
		t.Fatalf("mail wrong: %+v", f.mailer.sent)
	}
	if f.mailer.sent[0].notes != "insufficient grounds" {
		t.Fatalf("rejection mail must carry the notes: %q", f.mailer.sent[0].notes)
	}
}

func TestReviewRejectsDoubleDecision(t *testing.T) {
	f := newVerificationFixture()
	user := f.seedUser("chidi", "Chidi", "chidi@unilag.edu.ng")
	admin := uuid.New()

	request, _ := f.svc.Apply(user, models.ApplyVerificationRequest{
		Reason: "faculty representative", PaymentReference: "PAY-777",
	})
	if err := f.svc.Approve(admin, request.ID, ""); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Approve(admin, request.ID, ""); err == nil {
		t.Fatal("second approve must fail")
	}
	if err := f.svc.Reject(admin, request.ID, ""); err == nil {
		t.Fatal("reject after approve must fail")
	}
}
