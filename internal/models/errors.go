package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrUnknownRoomType    = errors.New("unknown room type")
	ErrReservationClosed  = errors.New("reservation is no longer confirmed")
	ErrReservationUnknown = errors.New("reservation not found")
)

// ValidationError reports an invalid reservation request. The request is dropped, never retried.
type ValidationError struct {
	fields map[string][]string
}

func newValidationError() *ValidationError {
	return &ValidationError{fields: make(map[string][]string)}
}

func (e *ValidationError) addError(field, msg string) {
	e.fields[field] = append(e.fields[field], msg)
}

func (e *ValidationError) fieldsCount() int {
	return len(e.fields)
}

func (e *ValidationError) Fields() map[string][]string {
	return e.fields
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.fields[k], ", ")))
	}
	return "invalid reservation request: " + strings.Join(parts, "; ")
}

// CapacityError is returned when a party is larger than the room it is committed to.
type CapacityError struct {
	RoomID   int
	Capacity int
	Guests   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("room %d holds at most %d guests, got %d", e.RoomID, e.Capacity, e.Guests)
}

// OverlapError is returned when the requested interval collides with a committed stay.
type OverlapError struct {
	RoomID   int
	CheckIn  time.Time
	CheckOut time.Time
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("room %d is not available from %s to %s",
		e.RoomID, FormatDate(e.CheckIn), FormatDate(e.CheckOut))
}

// ConfigError reports malformed or missing configuration. It is fatal before the first simulated day.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

func IsValidationError(err error) *ValidationError {
	var target *ValidationError
	if errors.As(err, &target) {
		return target
	}
	return nil
}

func IsCapacityError(err error) *CapacityError {
	var target *CapacityError
	if errors.As(err, &target) {
		return target
	}
	return nil
}

func IsOverlapError(err error) *OverlapError {
	var target *OverlapError
	if errors.As(err, &target) {
		return target
	}
	return nil
}

func IsConfigError(err error) *ConfigError {
	var target *ConfigError
	if errors.As(err, &target) {
		return target
	}
	return nil
}
