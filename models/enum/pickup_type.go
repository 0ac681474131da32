package enum

type PickupType string

const (
	PickupTypeScheduled PickupType = "pickup"
	PickupTypeDropOff   PickupType = "dropoff"
)

func (t PickupType) Valid() bool {
	return t == PickupTypeScheduled || t == PickupTypeDropOff
}
