package models

import "testing"

func TestPositionKeyRoundTrip(t *testing.T) {
	key := PositionKey{InstrumentID: "ins_17", Day: 3, Slot: SlotAfternoon}
	parsed, err := ParsePositionKey(key.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != key {
		t.Fatalf("round trip mismatch: %+v vs %+v", parsed, key)
	}
}

func TestPositionKeyHyphenatedInstrumentID(t *testing.T) {
	key := PositionKey{InstrumentID: "hplc-column-2", Day: 0, Slot: SlotMorning}
	parsed, err := ParsePositionKey(key.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.InstrumentID != "hplc-column-2" {
		t.Fatalf("instrument id mangled: %q", parsed.InstrumentID)
	}
	if parsed.Day != 0 || parsed.Slot != SlotMorning {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
}

func TestParsePositionKeyRejectsBadInput(t *testing.T) {
	for _, raw := range []string{"", "ins", "ins-9-M", "ins-1-X", "ins-M-1"} {
		if _, err := ParsePositionKey(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestOverrideKeyRoundTrip(t *testing.T) {
	key := OverrideKey{PersonnelID: "per_3", Date: "2024-02-19", Slot: SlotMorning}
	parsed, err := ParseOverrideKey(key.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != key {
		t.Fatalf("round trip mismatch: %+v vs %+v", parsed, key)
	}
}

func TestOverrideKeyHyphenatedPersonnelID(t *testing.T) {
	key := OverrideKey{PersonnelID: "maria-rossi", Date: "2024-02-19", Slot: SlotAfternoon}
	parsed, err := ParseOverrideKey(key.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.PersonnelID != "maria-rossi" {
		t.Fatalf("personnel id mangled: %q", parsed.PersonnelID)
	}
	if parsed.Date != "2024-02-19" {
		t.Fatalf("date mangled: %q", parsed.Date)
	}
}

func TestSelectableAbsenceTypesExcludesFixed(t *testing.T) {
	snap := SeedSnapshot()
	for _, at := range snap.SelectableAbsenceTypes() {
		if at.ID == AbsenceTypeFixed {
			t.Fatalf("reserved fixed type must not be selectable")
		}
	}
	if len(snap.SelectableAbsenceTypes()) != 4 {
		t.Fatalf("expected 4 selectable types, got %d", len(snap.SelectableAbsenceTypes()))
	}
}
