package enum

// Step is a state of the checkout wizard.
type Step string

const (
	StepRouteAndPackage Step = "route_and_package"
	StepSelectQuote     Step = "select_quote"
	StepDetails         Step = "details"
	StepReview          Step = "review"
	StepPayment         Step = "payment"
	StepSuccess         Step = "success"
)

// DetailsMode distinguishes a first pass through the details step from a
// re-entry that edits an already created shipment.
type DetailsMode string

const (
	DetailsModeNormal DetailsMode = "normal"
	DetailsModeReview DetailsMode = "review"
)
