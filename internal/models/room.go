package models

import "time"

// Stay is a committed half-open interval [CheckIn, CheckOut) on a room.
type Stay struct {
	CheckIn     time.Time
	CheckOut    time.Time
	Reservation *Reservation
}

// Covers reports whether the night of date falls inside the stay.
func (s Stay) Covers(date time.Time) bool {
	return !date.Before(s.CheckIn) && date.Before(s.CheckOut)
}

// Overlaps reports whether [in, out) intersects the stay.
func (s Stay) Overlaps(in, out time.Time) bool {
	return in.Before(s.CheckOut) && s.CheckIn.Before(out)
}

// Nights returns the number of nights in the stay.
func (s Stay) Nights() int {
	return DaysBetween(s.CheckIn, s.CheckOut)
}

type Room struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
	// Stays is kept sorted by CheckIn and never holds overlapping intervals.
	Stays []Stay `json:"-"`
}

type RoomTypeStats struct {
	Type     string `json:"type"`
	Count    int    `json:"count"`
	Capacity int    `json:"capacity"`
}
