package core

import (
	"testing"
	"time"
)

func member(sender, device, name string, joinedAt int) Membership {
	return Membership{
		SenderID:          sender,
		DeviceID:          device,
		MembershipEventID: "$" + sender + ":" + device,
		DisplayName:       name,
		CreatedAt:         time.Unix(int64(1700000000+joinedAt), 0),
	}
}

func TestDisambiguateCollidingNames(t *testing.T) {
	members := []Membership{
		member("@alice:example.org", "DEV1", "Alice", 0),
		member("@imposter:example.org", "DEV2", "Alice", 1),
		member("@bob:example.org", "DEV3", "Bob", 2),
	}
	names := DisambiguateNames(members)

	if got := names[members[0].Key()]; got != "Alice (@alice:example.org)" {
		t.Fatalf("first Alice = %q", got)
	}
	if got := names[members[1].Key()]; got != "Alice (@imposter:example.org)" {
		t.Fatalf("second Alice = %q", got)
	}
	if got := names[members[2].Key()]; got != "Bob" {
		t.Fatalf("Bob = %q", got)
	}
}

func TestDisambiguateRevertsWhenCollisionLeaves(t *testing.T) {
	members := []Membership{
		member("@alice:example.org", "DEV1", "Alice", 0),
	}
	names := DisambiguateNames(members)
	if got := names[members[0].Key()]; got != "Alice" {
		t.Fatalf("lone Alice = %q", got)
	}
}

func TestDisambiguateZeroWidthCollision(t *testing.T) {
	members := []Membership{
		member("@alice:example.org", "DEV1", "Alice", 0),
		member("@imposter:example.org", "DEV2", "Ali​ce", 1),
	}
	names := DisambiguateNames(members)
	for _, m := range members {
		if got := names[m.Key()]; got == "Alice" || got == "Ali​ce" {
			t.Fatalf("zero-width collision not disambiguated: %q", got)
		}
	}
}

func TestDisambiguateIDLikeNameAlways(t *testing.T) {
	members := []Membership{
		member("@mallory:example.org", "DEV1", "@alice:example.org", 0),
	}
	names := DisambiguateNames(members)
	want := "@alice:example.org (@mallory:example.org)"
	if got := names[members[0].Key()]; got != want {
		t.Fatalf("id-like name = %q, want %q", got, want)
	}
}

func TestDisambiguateRTLOverrideAlways(t *testing.T) {
	members := []Membership{
		member("@mallory:example.org", "DEV1", "gro‮elpmaxe", 0),
	}
	names := DisambiguateNames(members)
	if got := names[members[0].Key()]; got == "gro‮elpmaxe" {
		t.Fatalf("RTL override name not disambiguated: %q", got)
	}
}

func TestDisambiguateMissingNameFallsBackToID(t *testing.T) {
	members := []Membership{
		member("@ghost:example.org", "DEV1", "", 0),
	}
	names := DisambiguateNames(members)
	if got := names[members[0].Key()]; got != "@ghost:example.org" {
		t.Fatalf("missing name = %q", got)
	}
}
