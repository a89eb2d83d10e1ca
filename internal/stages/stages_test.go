package stages

import (
	"testing"

	"parcelTrackingManagement/models"
)

func TestClassify_EnRoute(t *testing.T) {
	// En_Route is index 5 in the canonical list: 0-4 completed, 5 current,
	// 6-10 pending.
	out, err := Classify(models.StatusEnRoute, models.CanonicalStages)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(out) != 11 {
		t.Fatalf("expected 11 stages, got %d", len(out))
	}
	currents := 0
	for i, ss := range out {
		var want State
		switch {
		case i < 5:
			want = StateCompleted
		case i == 5:
			want = StateCurrent
		default:
			want = StatePending
		}
		if ss.State != want {
			t.Errorf("stage %d (%s): got %s, want %s", i, ss.Stage, ss.State, want)
		}
		if ss.State == StateCurrent {
			currents++
		}
	}
	if currents != 1 {
		t.Fatalf("expected exactly one current stage, got %d", currents)
	}
}

func TestClassify_FirstAndLast(t *testing.T) {
	out, err := Classify(models.StatusPendingInspection, models.CanonicalStages)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if out[0].State != StateCurrent || out[1].State != StatePending {
		t.Fatalf("first stage should be current, rest pending: %+v", out[:2])
	}

	out, err = Classify(models.StatusDelivered, models.CanonicalStages)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if out[len(out)-1].State != StateCurrent || out[len(out)-2].State != StateCompleted {
		t.Fatalf("last stage should be current, prior completed")
	}
}

func TestClassify_BackwardMoveIsLegal(t *testing.T) {
	// Admins may revert Delivered back to En_Route; the classifier is pure
	// index math and must not reject it.
	if _, err := Classify(models.StatusEnRoute, models.CanonicalStages); err != nil {
		t.Fatalf("backward move should classify cleanly: %v", err)
	}
}

func TestStageIndex_UnknownStatusFails(t *testing.T) {
	if _, err := StageIndex(models.OrderStatus("Lost_In_Transit"), models.CanonicalStages); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if _, err := Classify(models.OrderStatus(""), models.CanonicalStages); err == nil {
		t.Fatal("expected error for empty status")
	}
}

func TestListFor(t *testing.T) {
	if list, ok := ListFor(models.StatusProcessingLY); !ok || len(list) != 11 {
		t.Fatalf("Processing_LY should resolve to the canonical list")
	}
	if list, ok := ListFor(models.StatusChinaStore); !ok || len(list) != 6 {
		t.Fatalf("China_Store should resolve to the legacy list")
	}
	if _, ok := ListFor(models.OrderStatus("bogus")); ok {
		t.Fatal("bogus status should not resolve")
	}
}

func TestLabel(t *testing.T) {
	if got := Label(models.StatusOutForDelivery, "en"); got != "Out for Delivery" {
		t.Fatalf("en label = %q", got)
	}
	if got := Label(models.StatusOutForDelivery, "ar"); got == "" || got == "Out for Delivery" {
		t.Fatalf("ar label missing: %q", got)
	}
	if got := Label(models.OrderStatus("X_Y"), "en"); got != "X_Y" {
		t.Fatalf("unknown stage should echo raw value, got %q", got)
	}
}
