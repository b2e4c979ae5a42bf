package htmlform

import "fmt"

// Mode is the way a form is being used in a request.
type Mode int

const (
	ModeEnter Mode = iota
	ModeEdit
	ModeView
)

func (m Mode) String() string {
	switch m {
	case ModeEnter:
		return "ENTER"
	case ModeEdit:
		return "EDIT"
	case ModeView:
		return "VIEW"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}
