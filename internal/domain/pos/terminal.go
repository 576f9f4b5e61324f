package pos

// TerminalStatus is the state of one integrated-tender attempt on the
// card terminal
type TerminalStatus string

const (
	TerminalWaiting    TerminalStatus = "WAITING"
	TerminalProcessing TerminalStatus = "PROCESSING"
	TerminalSuccess    TerminalStatus = "SUCCESS"
	TerminalFailed     TerminalStatus = "FAILED"
	TerminalCancelled  TerminalStatus = "CANCELLED"
)

// IsTerminal returns true for states that end the attempt
func (s TerminalStatus) IsTerminal() bool {
	return s == TerminalSuccess || s == TerminalFailed || s == TerminalCancelled
}

// Operator-facing terminal messages
const (
	TerminalMsgInitializing = "Initializing terminal..."
	TerminalMsgPresentCard  = "Please tap/swipe/insert card."
	TerminalMsgProcessing   = "Processing payment..."
	TerminalMsgApproved     = "Payment Approved"
	TerminalMsgDeclined     = "Payment Declined"
	TerminalMsgCancelled    = "Payment Cancelled"
)

// TerminalSession is the ephemeral state of one attempt; it exists only
// for the attempt's duration and is never persisted
type TerminalSession struct {
	Status  TerminalStatus
	Message string
}

// TerminalObserver receives every state transition of an attempt
// The observer renders the status; it must not block
type TerminalObserver func(status TerminalStatus, message string)
