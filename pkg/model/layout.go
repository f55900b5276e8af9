package model

import "strings"

// blockedMarker tags layout positions that ship pre-blocked, e.g. seats
// flanking the wheel arches.
const blockedMarker = "-BLOCKED"

// DefaultBlockedReason is applied to layout-declared blocks at seed time.
const DefaultBlockedReason = "Initial layout blocked"

// DeckLayout is the fixed physical arrangement of one deck: rows of seat
// identifiers, outer slice ordered by row starting at 1.
type DeckLayout [][]string

// BusLayout maps each deck to its arrangement.
type BusLayout map[Deck]DeckLayout

// DefaultBusLayout mirrors the operator's two-deck sleeper coach.
var DefaultBusLayout = BusLayout{
	DeckUpper: {
		{"U-A1", "U-B1", "U-C1"},
		{"U-A2-BLOCKED", "U-B2", "U-C2"},
		{"U-A3", "U-B3", "U-C3"},
		{"U-A4", "U-B4-BLOCKED", "U-C4-BLOCKED"},
		{"U-A5-BLOCKED", "U-B5", "U-C5"},
		{"U-A6"},
	},
	DeckLower: {
		{"L-A1", "L-B1", "L-C1"},
		{"L-A2-BLOCKED", "L-B2", "L-C2"},
		{"L-A3-BLOCKED", "L-B3", "L-C3"},
		{"L-A4", "L-B4-BLOCKED", "L-C4-BLOCKED"},
		{"L-A5-BLOCKED", "L-B5", "L-C5"},
		{"L-A6"},
	},
}

// LayoutPosition is one parsed layout entry.
type LayoutPosition struct {
	SeatID  string
	Deck    Deck
	Row     int
	Column  string
	Blocked bool
}

// Positions flattens the layout into parsed seat positions. Column letters
// are assigned left to right starting at "A" per row.
func (l BusLayout) Positions() []LayoutPosition {
	var positions []LayoutPosition
	for deck, rows := range l {
		for rowIdx, rowSeats := range rows {
			for colIdx, raw := range rowSeats {
				if raw == "" {
					continue
				}
				positions = append(positions, LayoutPosition{
					SeatID:  strings.TrimSuffix(raw, blockedMarker),
					Deck:    deck,
					Row:     rowIdx + 1,
					Column:  string(rune('A' + colIdx)),
					Blocked: strings.HasSuffix(raw, blockedMarker),
				})
			}
		}
	}
	return positions
}
