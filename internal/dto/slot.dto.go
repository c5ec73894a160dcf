package dto

import (
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/domain/availability"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

type SlotDTO struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	LocalTime string    `json:"local_time"`
	Available bool      `json:"available"`
}

// NewSlots keeps every slot, booked ones included, so clients can render
// a full grid.
func NewSlots(slots []availability.TimeSlot, tz string) []SlotDTO {
	loc := timezone.Location(tz)
	out := make([]SlotDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotDTO{
			Start:     s.Start,
			End:       s.End,
			LocalTime: s.Start.In(loc).Format("15:04"),
			Available: s.Available,
		})
	}
	return out
}
