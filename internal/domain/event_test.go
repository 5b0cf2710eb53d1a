package domain

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  EventStatus
		to    EventStatus
		actor TransitionActor
		want  bool
	}{
		{"creator submits draft", StatusDraft, StatusPendingReview, ActorCreator, true},
		{"admin cannot submit draft", StatusDraft, StatusPendingReview, ActorAdmin, false},
		{"admin approves pending", StatusPendingReview, StatusLive, ActorAdmin, true},
		{"creator cannot self-approve", StatusPendingReview, StatusLive, ActorCreator, false},
		{"creator withdraws pending", StatusPendingReview, StatusCancelled, ActorCreator, true},
		{"system fills live event", StatusLive, StatusFull, ActorSystem, true},
		{"system reopens full event", StatusFull, StatusLive, ActorSystem, true},
		{"creator cancels live event", StatusLive, StatusCancelled, ActorCreator, true},
		{"no resurrecting cancelled events", StatusCancelled, StatusLive, ActorAdmin, false},
		{"no editing ended events", StatusEnded, StatusLive, ActorSystem, false},
		{"draft cannot skip review", StatusDraft, StatusLive, ActorAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to, tt.actor); got != tt.want {
				t.Fatalf("CanTransition(%s, %s, %s) = %v, want %v", tt.from, tt.to, tt.actor, got, tt.want)
			}
		})
	}
}

func TestValidSortOrder(t *testing.T) {
	for _, s := range []SortOrder{SortDateAsc, SortDateDesc, SortParticipantsDesc, SortParticipantsAsc, SortCreatedDesc} {
		if !ValidSortOrder(s) {
			t.Fatalf("%s should be valid", s)
		}
	}
	if ValidSortOrder("alphabetical") {
		t.Fatal("unknown sort order accepted")
	}
}
