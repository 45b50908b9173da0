package conversation

import "github.com/go-go-golems/convopanel/pkg/config"

// AuthorRole says which lane a message belongs to.
type AuthorRole int

const (
	RoleNone AuthorRole = iota
	RoleUser
	RoleAgent
)

// CSS-like classes used on transcript nodes.
const (
	ClassSegments     = "segments"
	ClassFromUser     = "from-user"
	ClassFromAgent    = "from-agent"
	ClassTop          = "top"
	ClassLatest       = "latest"
	ClassLoad         = "load"
	ClassTextMuted    = "text-muted"
	ClassMessageInner = "message-inner"
	ClassUnderline    = "underline"
)

func (r AuthorRole) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAgent:
		return "agent"
	default:
		return "none"
	}
}

// LaneClass returns the class tagging nodes of the role's lane, or "" for RoleNone.
func (r AuthorRole) LaneClass() string {
	switch r {
	case RoleUser:
		return ClassFromUser
	case RoleAgent:
		return ClassFromAgent
	default:
		return ""
	}
}

// RoleFromLabel maps a payload source label to a role. Unknown labels map to RoleNone.
func RoleFromLabel(roles config.RoleLabels, label string) AuthorRole {
	switch label {
	case roles.User:
		return RoleUser
	case roles.Agent:
		return RoleAgent
	default:
		return RoleNone
	}
}
