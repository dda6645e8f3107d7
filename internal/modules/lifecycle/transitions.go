package lifecycle

import "txunajob/internal/domain"

type Op string

const (
	OpRequest  Op = "request"
	OpAccept   Op = "accept"
	OpReject   Op = "reject"
	OpStart    Op = "start"
	OpComplete Op = "complete"
	OpCancel   Op = "cancel"
)

// rule describes one edge of the service state machine. stamp is the
// timestamp column written when the edge is taken.
type rule struct {
	from  []domain.ServiceStatus
	to    domain.ServiceStatus
	stamp string
}

var rules = map[Op]rule{
	OpRequest:  {from: []domain.ServiceStatus{domain.ServiceAvailable}, to: domain.ServicePending, stamp: "requested_at"},
	OpAccept:   {from: []domain.ServiceStatus{domain.ServicePending}, to: domain.ServiceAccepted, stamp: "accepted_at"},
	OpReject:   {from: []domain.ServiceStatus{domain.ServicePending}, to: domain.ServiceRejected, stamp: "rejected_at"},
	OpStart:    {from: []domain.ServiceStatus{domain.ServiceAccepted}, to: domain.ServiceInProgress, stamp: "started_at"},
	OpComplete: {from: []domain.ServiceStatus{domain.ServiceAccepted, domain.ServiceInProgress}, to: domain.ServiceCompleted, stamp: "completed_at"},
	OpCancel:   {from: domain.NonTerminalStatuses(), to: domain.ServiceCancelled, stamp: "cancelled_at"},
}

// CanTransition reports whether op is legal from the given status. It is a
// pre-check on a loaded row; the conditional update still decides.
func CanTransition(op Op, from domain.ServiceStatus) bool {
	r, ok := rules[op]
	if !ok {
		return false
	}
	for _, s := range r.from {
		if s == from {
			return true
		}
	}
	return false
}
