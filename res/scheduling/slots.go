package scheduling

import (
	"context"
	"fmt"
	"time"
)

// TimeSlot is a candidate appointment window within business hours. Generated
// fresh per request; bookings themselves are persisted elsewhere.
type TimeSlot struct {
	ID                string `json:"id"`
	Date              string `json:"date"` // YYYY-MM-DD
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	IsAvailable       bool   `json:"isAvailable"`
	EstimatedDuration int    `json:"estimatedDuration"` // minutes
}

// DayAvailability groups the slots of one calendar day
type DayAvailability struct {
	Date            string     `json:"date"`
	Slots           []TimeSlot `json:"slots"`
	HasAvailability bool       `json:"hasAvailability"`
}

// BusinessHours describes when slots may be offered
type BusinessHours struct {
	OpenHour       int // inclusive, e.g. 8 for 08:00
	CloseHour      int // exclusive end of the last slot, e.g. 18 for 18:00
	ClosedWeekdays map[time.Weekday]bool
}

// DefaultBusinessHours returns the standard operating schedule: 08:00-18:00,
// closed on Sundays.
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		OpenHour:  8,
		CloseHour: 18,
		ClosedWeekdays: map[time.Weekday]bool{
			time.Sunday: true,
		},
	}
}

// ConflictChecker answers whether a candidate window collides with an
// existing booking. Backed by the order store in production; two concurrent
// booking attempts for the same window are additionally rejected by a
// uniqueness constraint at the persistence layer.
type ConflictChecker interface {
	HasConflict(ctx context.Context, date time.Time, startTime, endTime string) (bool, error)
}

// Generator enumerates bookable time slots for a date range
type Generator struct {
	Hours   BusinessHours
	Checker ConflictChecker
}

func NewGenerator(hours BusinessHours, checker ConflictChecker) *Generator {
	return &Generator{Hours: hours, Checker: checker}
}

// GenerateSlots enumerates hourly candidate slots for each calendar day in
// [start, end] inclusive. Closed weekdays produce a day with no slots.
// Candidates whose end time would exceed closing are discarded. Each surviving
// slot is marked available unless the conflict checker reports a collision.
func (g *Generator) GenerateSlots(ctx context.Context, start, end time.Time, durationMinutes int) ([]DayAvailability, error) {
	days := []DayAvailability{}

	current := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())

	for !current.After(last) {
		slots, err := g.daySlots(ctx, current, durationMinutes)
		if err != nil {
			return nil, err
		}

		hasAvailability := false
		for _, slot := range slots {
			if slot.IsAvailable {
				hasAvailability = true
				break
			}
		}

		days = append(days, DayAvailability{
			Date:            current.Format("2006-01-02"),
			Slots:           slots,
			HasAvailability: hasAvailability,
		})

		current = current.AddDate(0, 0, 1)
	}

	return days, nil
}

func (g *Generator) daySlots(ctx context.Context, day time.Time, durationMinutes int) ([]TimeSlot, error) {
	slots := []TimeSlot{}

	if g.Hours.ClosedWeekdays[day.Weekday()] {
		return slots, nil
	}

	date := day.Format("2006-01-02")
	closingMinute := g.Hours.CloseHour * 60

	for hour := g.Hours.OpenHour; hour < g.Hours.CloseHour; hour++ {
		startMinute := hour * 60
		endMinute := startMinute + durationMinutes
		if endMinute > closingMinute {
			continue
		}

		startTime := formatMinute(startMinute)
		endTime := formatMinute(endMinute)

		available := true
		if g.Checker != nil {
			conflict, err := g.Checker.HasConflict(ctx, day, startTime, endTime)
			if err != nil {
				return nil, err
			}
			available = !conflict
		}

		slots = append(slots, TimeSlot{
			ID:                fmt.Sprintf("%s-%s", date, startTime),
			Date:              date,
			StartTime:         startTime,
			EndTime:           endTime,
			IsAvailable:       available,
			EstimatedDuration: durationMinutes,
		})
	}

	return slots, nil
}

func formatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
