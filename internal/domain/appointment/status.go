package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusHeld        Status = "held"
	StatusConfirmed   Status = "confirmed"
	StatusRescheduled Status = "rescheduled"
	StatusCanceled    Status = "canceled"
	StatusNoShow      Status = "no_show"
)

// Kind distinguishes client bookings from time the staff blocked off.
type Kind string

const (
	KindAppointment Kind = "appt"
	KindBlock       Kind = "block"
	KindTimeOff     Kind = "timeoff"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case "":
		return KindAppointment, true
	case KindAppointment, KindBlock, KindTimeOff:
		return Kind(s), true
	}
	return "", false
}

// ===============================
// Validations
// ===============================

// IsTerminal: nenhuma transição sai de Canceled ou NoShow
func (s Status) IsTerminal() bool {
	return s == StatusCanceled || s == StatusNoShow
}

// BlocksTime reports whether an appointment in this status occupies its
// interval. Only canceled appointments are transparent.
func (s Status) BlocksTime() bool {
	return s != StatusCanceled
}

// CanReschedule define se um agendamento pode ser remarcado
func CanReschedule(current Status) error {
	if current.IsTerminal() {
		return ErrInvalidState
	}
	return nil
}

// CanCancel define se um agendamento pode ser cancelado
func CanCancel(current Status) error {
	if current.IsTerminal() {
		return ErrInvalidState
	}
	return nil
}

func CanMarkNoShow(current Status) error {
	if current.IsTerminal() {
		return ErrInvalidState
	}
	return nil
}

// InitialStatus is used for both direct creation and hold consumption.
func InitialStatus() Status {
	return StatusConfirmed
}
