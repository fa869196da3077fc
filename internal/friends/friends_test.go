package friends

import "testing"

func TestStaticRelationSymmetry(t *testing.T) {
	r := NewStaticRelation([]string{"1:3", "7:8"})

	if !r.AreFriends("1", "3") {
		t.Error("expected 1 and 3 to be friends")
	}
	if !r.AreFriends("3", "1") {
		t.Error("expected relation to be symmetric")
	}
	if r.AreFriends("1", "7") {
		t.Error("unexpected friendship between 1 and 7")
	}
	if r.AreFriends("9", "1") {
		t.Error("unexpected friendship for unrelated user")
	}
}

func TestStaticRelationMalformedPairs(t *testing.T) {
	r := NewStaticRelation([]string{"", "1", "1:", ":3", "5:5", " 2 : 4 "})

	if r.Len() != 1 {
		t.Fatalf("expected 1 valid pair, got %d", r.Len())
	}
	if !r.AreFriends("2", "4") {
		t.Error("expected whitespace-trimmed pair to be accepted")
	}
	if r.AreFriends("5", "5") {
		t.Error("self pair must never be a friendship")
	}
}
