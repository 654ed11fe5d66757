package kafka

import (
	"time"

	"allocator/internal/core/domain/model/allocation"
	"allocator/internal/core/domain/model/shipment"
)

// AllocationRecordedEventType is written to the ce-type header.
const AllocationRecordedEventType = "allocation.recorded"

// AllocationRecordedEvent is the message body of an allocation.recorded event.
//
//	{"allocationId":"...","outcome":"MultiWarehouse","fulfilled":true,
//	 "plan":[{"owd":{"apple":5}},{"dm":{"apple":4}}],"occurredAt":"..."}
type AllocationRecordedEvent struct {
	AllocationID string        `json:"allocationId"`
	Outcome      string        `json:"outcome"`
	Fulfilled    bool          `json:"fulfilled"`
	Plan         shipment.Plan `json:"plan"`
	OccurredAt   time.Time     `json:"occurredAt"`
}

func newAllocationRecordedEvent(a *allocation.Allocation) AllocationRecordedEvent {
	return AllocationRecordedEvent{
		AllocationID: a.ID().String(),
		Outcome:      a.Outcome().String(),
		Fulfilled:    a.IsFulfilled(),
		Plan:         a.Plan(),
		OccurredAt:   a.CreatedAt(),
	}
}
