package notify

import "fmt"

type Severity int

const (
	Success Severity = iota
	Error
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

func (s Severity) Icon() string {
	switch s {
	case Success:
		return "✅"
	case Error:
		return "❌"
	case Warning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

// Notification is a message for the toast layer.
type Notification struct {
	Message  string
	Severity Severity
}

func New(sev Severity, format string, args ...any) Notification {
	return Notification{Message: fmt.Sprintf(format, args...), Severity: sev}
}

func (n Notification) String() string {
	return n.Severity.Icon() + " " + n.Message
}
