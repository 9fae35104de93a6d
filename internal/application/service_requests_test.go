package application_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/helpbridge/helpbridge/internal/domain"
)

func TestCreateRequestStartsPending(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Mumbai")

	row := f.createRequest(t, requester.UserID, "Mumbai")

	if row.Status != domain.RequestStatusPending {
		t.Fatalf("status = %s, want %s", row.Status, domain.RequestStatusPending)
	}
	if row.VolunteerID != "" {
		t.Fatalf("volunteer id should be unset, got %q", row.VolunteerID)
	}
	if row.RequestID == "" {
		t.Fatal("request id not generated")
	}
}

func TestCreateRequestTimestampsAdvance(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Mumbai")

	first := f.createRequest(t, requester.UserID, "Mumbai")
	time.Sleep(2 * time.Millisecond)
	second := f.createRequest(t, requester.UserID, "Mumbai")

	if !second.CreatedAt.After(first.CreatedAt) {
		t.Fatalf("created_at did not advance: first=%v second=%v", first.CreatedAt, second.CreatedAt)
	}
}

func TestCreateRequestRejectsEmptyDescription(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.CreateRequest(context.Background(), requestInput("user-1", "   "))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCreateRequestWithNoVolunteersInCity(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Pune")

	row := f.createRequest(t, requester.UserID, "Pune")

	if row.Status != domain.RequestStatusPending {
		t.Fatalf("status = %s, want PENDING", row.Status)
	}
	if got := f.notificationCount(); got != 0 {
		t.Fatalf("notification events = %d, want 0", got)
	}
}

func TestCreateRequestNotifiesVolunteersInCity(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Pune")
	volunteer := f.register(t, "VOLUNTEER", "Ravi Kumar", "ravi@example.com", "Pune")
	if err := f.svc.ApproveIdentity(context.Background(), volunteer.UserID); err != nil {
		t.Fatalf("approve volunteer: %v", err)
	}
	before := f.notificationCount()

	f.createRequest(t, requester.UserID, "Pune")

	if got := f.notificationCount(); got != before+1 {
		t.Fatalf("notification events = %d, want %d", got, before+1)
	}
}

func TestAssignVolunteerAlwaysAssigns(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Mumbai")
	volunteer := f.register(t, "VOLUNTEER", "Ravi Kumar", "ravi@example.com", "Mumbai")
	second := f.register(t, "VOLUNTEER", "Meera Shah", "meera@example.com", "Mumbai")
	org := f.register(t, "ORGANIZATION", "Seva Trust", "seva@example.com", "Mumbai")
	req := f.createRequest(t, requester.UserID, "Mumbai")

	row, err := f.svc.AssignVolunteer(context.Background(), req.RequestID, volunteer.UserID, org.UserID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if row.Status != domain.RequestStatusAssigned || row.VolunteerID != volunteer.UserID {
		t.Fatalf("got status=%s volunteer=%s", row.Status, row.VolunteerID)
	}

	// Re-assignment has no status precondition: last writer wins.
	row, err = f.svc.AssignVolunteer(context.Background(), req.RequestID, second.UserID, org.UserID)
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if row.VolunteerID != second.UserID || row.Status != domain.RequestStatusAssigned {
		t.Fatalf("reassign got status=%s volunteer=%s", row.Status, row.VolunteerID)
	}
}

func TestAssignVolunteerUnknownCollaborators(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Mumbai")
	org := f.register(t, "ORGANIZATION", "Seva Trust", "seva@example.com", "Mumbai")
	req := f.createRequest(t, requester.UserID, "Mumbai")

	if _, err := f.svc.AssignVolunteer(context.Background(), req.RequestID, "missing-id", org.UserID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown volunteer err = %v, want ErrNotFound", err)
	}
	// A requester id in the volunteer slot is a role mismatch, reported the
	// same way as a missing record.
	if _, err := f.svc.AssignVolunteer(context.Background(), req.RequestID, requester.UserID, org.UserID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("role mismatch err = %v, want ErrNotFound", err)
	}

	got, err := f.svc.GetRequest(context.Background(), req.RequestID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if got.Status != domain.RequestStatusPending {
		t.Fatalf("status = %s, want PENDING after failed assigns", got.Status)
	}
}

func TestVolunteerAcceptRequiresAssigned(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Mumbai")
	req := f.createRequest(t, requester.UserID, "Mumbai")

	if _, err := f.svc.VolunteerAccept(context.Background(), req.RequestID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("accept on PENDING err = %v, want ErrInvalidTransition", err)
	}

	got, _ := f.svc.GetRequest(context.Background(), req.RequestID)
	if got.Status != domain.RequestStatusPending {
		t.Fatalf("status = %s, want unchanged PENDING", got.Status)
	}
}

func TestVolunteerAcceptMovesToAccepted(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Mumbai")
	volunteer := f.register(t, "VOLUNTEER", "Ravi Kumar", "ravi@example.com", "Mumbai")
	org := f.register(t, "ORGANIZATION", "Seva Trust", "seva@example.com", "Mumbai")
	req := f.createRequest(t, requester.UserID, "Mumbai")
	if _, err := f.svc.AssignVolunteer(context.Background(), req.RequestID, volunteer.UserID, org.UserID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	row, err := f.svc.VolunteerAccept(context.Background(), req.RequestID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if row.Status != domain.RequestStatusAccepted {
		t.Fatalf("status = %s, want ACCEPTED", row.Status)
	}

	// Accept is not idempotent: the second call sees ACCEPTED, not ASSIGNED.
	if _, err := f.svc.VolunteerAccept(context.Background(), req.RequestID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("second accept err = %v, want ErrInvalidTransition", err)
	}
}

func TestRejectAssignmentReturnsToPending(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Mumbai")
	volunteer := f.register(t, "VOLUNTEER", "Ravi Kumar", "ravi@example.com", "Mumbai")
	org := f.register(t, "ORGANIZATION", "Seva Trust", "seva@example.com", "Mumbai")
	req := f.createRequest(t, requester.UserID, "Mumbai")
	if _, err := f.svc.AssignVolunteer(context.Background(), req.RequestID, volunteer.UserID, org.UserID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	row, err := f.svc.RejectAssignment(context.Background(), req.RequestID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if row.Status != domain.RequestStatusPending {
		t.Fatalf("status = %s, want PENDING", row.Status)
	}
	if row.VolunteerID != "" {
		t.Fatalf("volunteer id = %q, want cleared", row.VolunteerID)
	}

	if _, err := f.svc.RejectAssignment(context.Background(), req.RequestID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("reject on PENDING err = %v, want ErrInvalidTransition", err)
	}
}

func TestAcceptByOrganizationRequiresPending(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Mumbai")
	volunteer := f.register(t, "VOLUNTEER", "Ravi Kumar", "ravi@example.com", "Mumbai")
	org := f.register(t, "ORGANIZATION", "Seva Trust", "seva@example.com", "Mumbai")
	req := f.createRequest(t, requester.UserID, "Mumbai")

	row, err := f.svc.AcceptByOrganization(context.Background(), req.RequestID, org.UserID)
	if err != nil {
		t.Fatalf("org accept: %v", err)
	}
	if row.Status != domain.RequestStatusAccepted || row.OrganizationID != org.UserID {
		t.Fatalf("got status=%s org=%s", row.Status, row.OrganizationID)
	}

	assigned := f.createRequest(t, requester.UserID, "Mumbai")
	if _, err := f.svc.AssignVolunteer(context.Background(), assigned.RequestID, volunteer.UserID, org.UserID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := f.svc.AcceptByOrganization(context.Background(), assigned.RequestID, org.UserID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("org accept on ASSIGNED err = %v, want ErrInvalidTransition", err)
	}
}

func TestCompleteFromAnyState(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Mumbai")
	req := f.createRequest(t, requester.UserID, "Mumbai")

	row, err := f.svc.Complete(context.Background(), req.RequestID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if row.Status != domain.RequestStatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", row.Status)
	}
}

func TestAllocateFundsAccumulates(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Mumbai")
	req := f.createRequest(t, requester.UserID, "Mumbai")

	if _, err := f.svc.AllocateFunds(context.Background(), req.RequestID, 100); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	row, err := f.svc.AllocateFunds(context.Background(), req.RequestID, 50.5)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if row.FundsAllocated != 150.5 {
		t.Fatalf("funds = %v, want 150.5", row.FundsAllocated)
	}

	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := f.svc.AllocateFunds(context.Background(), req.RequestID, bad); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("allocate %v err = %v, want ErrInvalidInput", bad, err)
		}
	}
	got, _ := f.svc.GetRequest(context.Background(), req.RequestID)
	if got.FundsAllocated != 150.5 {
		t.Fatalf("funds after invalid inputs = %v, want 150.5", got.FundsAllocated)
	}
}

func TestAllocateFundsConcurrentWritersSerialize(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Mumbai")
	req := f.createRequest(t, requester.UserID, "Mumbai")

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.AllocateFunds(context.Background(), req.RequestID, 10)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("allocate: %v", err)
		}
	}

	got, err := f.svc.GetRequest(context.Background(), req.RequestID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	// Lost updates would leave the total short of writers * 10.
	if got.FundsAllocated != writers*10 {
		t.Fatalf("funds = %v, want %d", got.FundsAllocated, writers*10)
	}
}

func TestSubmitFeedbackKeepsStatus(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Mumbai")
	req := f.createRequest(t, requester.UserID, "Mumbai")

	row, err := f.svc.SubmitFeedback(context.Background(), req.RequestID, "Great help, thank you")
	if err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if row.Feedback != "Great help, thank you" {
		t.Fatalf("feedback = %q", row.Feedback)
	}
	if row.Status != domain.RequestStatusPending {
		t.Fatalf("status = %s, want unchanged PENDING", row.Status)
	}
}

func TestDeleteRequest(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Mumbai")
	req := f.createRequest(t, requester.UserID, "Mumbai")

	if err := f.svc.DeleteRequest(context.Background(), req.RequestID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.GetRequest(context.Background(), req.RequestID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get after delete err = %v, want ErrNotFound", err)
	}
	if err := f.svc.DeleteRequest(context.Background(), req.RequestID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("double delete err = %v, want ErrNotFound", err)
	}
}

func TestListNearbyReturnsPendingInCity(t *testing.T) {
	f := newFixture(t, nil)
	requester := f.register(t, "REQUESTER", "Asha Rao", "asha@example.com", "Mumbai")
	org := f.register(t, "ORGANIZATION", "Seva Trust", "seva@example.com", "Mumbai")

	inCity := f.createRequest(t, requester.UserID, "Mumbai")
	f.createRequest(t, requester.UserID, "Delhi")
	claimed := f.createRequest(t, requester.UserID, "Mumbai")
	if _, err := f.svc.AcceptByOrganization(context.Background(), claimed.RequestID, org.UserID); err != nil {
		t.Fatalf("org accept: %v", err)
	}

	rows, err := f.svc.ListNearbyRequests(context.Background(), "mumbai")
	if err != nil {
		t.Fatalf("list nearby: %v", err)
	}
	if len(rows) != 1 || rows[0].RequestID != inCity.RequestID {
		t.Fatalf("nearby = %d rows, want only the pending Mumbai request", len(rows))
	}
}
