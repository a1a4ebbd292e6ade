package groupchat

import "fmt"

// Tapback type codes as stored in associated_message_type. The store
// uses a private taxonomy; these six are the documented core set and
// anything else is preserved under a synthesized Unknown(code) label
// rather than dropped.
const (
	tapbackHeart      = 2000
	tapbackThumbsUp   = 2001
	tapbackThumbsDown = 2002
	tapbackLaugh      = 2003
	tapbackExclaim    = 2004
	tapbackQuestion   = 2005
)

// TapbackLabel maps a reaction type code to its display label.
func TapbackLabel(code int64) string {
	switch code {
	case tapbackHeart:
		return "Heart"
	case tapbackThumbsUp:
		return "Thumbs Up"
	case tapbackThumbsDown:
		return "Thumbs Down"
	case tapbackLaugh:
		return "Laugh"
	case tapbackExclaim:
		return "Exclamation"
	case tapbackQuestion:
		return "Question"
	default:
		return fmt.Sprintf("Unknown(%d)", code)
	}
}
