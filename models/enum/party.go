package enum

// Party names one side of a shipment.
type Party string

const (
	PartySender   Party = "sender"
	PartyReceiver Party = "receiver"
)
