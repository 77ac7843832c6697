package league

import "fmt"

// League is a basketball league hosting games.
type League struct {
	ID     string
	Name   string
	Season string
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}

// Role is the authorization verdict the access service returns for a caller
// within one league.
type Role string

const (
	RoleOwner       Role = "owner"
	RoleAdmin       Role = "admin"
	RoleCoach       Role = "coach"
	RoleScorekeeper Role = "scorekeeper"
	RoleMember      Role = "member"
	RoleViewer      Role = "viewer"
	RoleNone        Role = "none"
)

// CanScore reports whether the role may invoke mutating game operations.
func (r Role) CanScore() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleCoach, RoleScorekeeper:
		return true
	}
	return false
}

// CanView reports whether the role may read game state at all.
func (r Role) CanView() bool {
	return r != RoleNone && r != ""
}
