package models

import (
	"encoding/json"
	"fmt"

	"github.com/labplanner/backend/internal/utils"
)

// CurrentSchemaVersion is the version written by this build. Older
// documents are upgraded by a linear chain of pure migration steps; a
// document without a schemaVersion field is treated as version 0.
const CurrentSchemaVersion = 2

type migration func(doc map[string]any) map[string]any

var migrations = []migration{
	upgradeV1, // 0 -> 1: instrument legacy category name -> categoryId
	upgradeV2, // 1 -> 2: list-shaped templates -> positional maps
}

// DecodeSnapshot parses a persisted snapshot document, running any pending
// schema migrations. It returns an error only for documents that are not
// JSON objects at all; the caller decides whether to degrade to the seed.
func DecodeSnapshot(raw []byte) (Snapshot, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	version := 0
	if v, ok := doc["schemaVersion"].(float64); ok {
		version = int(v)
	}
	if version < 0 || version > CurrentSchemaVersion {
		return Snapshot{}, fmt.Errorf("decode snapshot: unsupported schema version %d", version)
	}
	for ; version < CurrentSchemaVersion; version++ {
		doc = migrations[version](doc)
	}
	doc["schemaVersion"] = CurrentSchemaVersion

	upgraded, err := json.Marshal(doc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("re-encode snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(upgraded, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Instruments == nil {
		snap.Instruments = []Instrument{}
	}
	if snap.Personnel == nil {
		snap.Personnel = []Personnel{}
	}
	if snap.Bookings == nil {
		snap.Bookings = []Booking{}
	}
	return EnsureSeedTypes(snap), nil
}

// upgradeV1 converts instruments carrying a legacy "category" display name
// into categoryId references, synthesizing instrumentCategories as needed.
func upgradeV1(doc map[string]any) map[string]any {
	instruments, _ := doc["instruments"].([]any)
	categories, _ := doc["instrumentCategories"].([]any)

	byName := map[string]string{}
	taken := map[string]bool{}
	for _, c := range categories {
		cat, ok := c.(map[string]any)
		if !ok {
			continue
		}
		name, _ := cat["name"].(string)
		id, _ := cat["id"].(string)
		if id != "" {
			taken[id] = true
		}
		if name != "" && id != "" {
			byName[name] = id
		}
	}

	for _, item := range instruments {
		inst, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := inst["category"].(string)
		if name == "" {
			continue
		}
		id, ok := byName[name]
		if !ok {
			id = synthCategoryID(name, taken)
			taken[id] = true
			byName[name] = id
			categories = append(categories, map[string]any{"id": id, "name": name})
		}
		inst["categoryId"] = id
		delete(inst, "category")
	}

	if len(categories) > 0 {
		doc["instrumentCategories"] = categories
	}
	return doc
}

// synthCategoryID derives a stable id from the legacy display name,
// stepping past any id the document already uses.
func synthCategoryID(name string, taken map[string]bool) string {
	base := fmt.Sprintf("cat_%x", utils.HashStringToUint64(name))
	id := base
	for n := 2; taken[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	return id
}

// upgradeV2 converts templates stored as an explicit booking list with
// absolute dayOfWeek fields into the positional map form. Entries lacking
// a required field are dropped.
func upgradeV2(doc map[string]any) map[string]any {
	templates, _ := doc["templates"].([]any)
	for _, item := range templates {
		tpl, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if _, ok := tpl["positionalBookings"]; ok {
			continue
		}
		legacy, ok := tpl["bookings"].([]any)
		if !ok {
			continue
		}
		positional := map[string]any{}
		for _, b := range legacy {
			entry, ok := b.(map[string]any)
			if !ok {
				continue
			}
			instrumentID, _ := entry["instrumentId"].(string)
			personnelID, _ := entry["personnelId"].(string)
			slot, _ := entry["slot"].(string)
			day, dayOK := entry["dayOfWeek"].(float64)
			if instrumentID == "" || personnelID == "" || !ValidSlot(Slot(slot)) || !dayOK {
				continue
			}
			d := int(day)
			if d < 0 || d > 4 {
				continue
			}
			key := PositionKey{InstrumentID: instrumentID, Day: d, Slot: Slot(slot)}
			value := map[string]any{"personnelId": personnelID}
			if note, _ := entry["note"].(string); note != "" {
				value["note"] = note
			}
			positional[key.String()] = value
		}
		tpl["positionalBookings"] = positional
		delete(tpl, "bookings")
	}
	return doc
}
