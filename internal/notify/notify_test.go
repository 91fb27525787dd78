package notify

import "testing"

func TestBufferDrain(t *testing.T) {
	b := NewBuffer(10)

	b.Notify(LevelSuccess, "Reward claimed: Free Wash")
	b.Notify(LevelFailure, "Redemption was declined")

	got := b.Drain()
	if len(got) != 2 {
		t.Fatalf("drained %d notifications, want 2", len(got))
	}
	if got[0].Level != LevelSuccess || got[0].Message != "Reward claimed: Free Wash" {
		t.Fatalf("unexpected first notification: %+v", got[0])
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Fatalf("notifications must carry unique ids")
	}

	if again := b.Drain(); len(again) != 0 {
		t.Fatalf("second drain must be empty, got %d", len(again))
	}
}

func TestBufferCapacity(t *testing.T) {
	b := NewBuffer(2)

	b.Notify(LevelInfo, "first")
	b.Notify(LevelInfo, "second")
	b.Notify(LevelInfo, "third")

	got := b.Drain()
	if len(got) != 2 {
		t.Fatalf("buffered %d notifications, want 2", len(got))
	}
	if got[0].Message != "second" || got[1].Message != "third" {
		t.Fatalf("oldest notification must be dropped, got %+v", got)
	}
}
