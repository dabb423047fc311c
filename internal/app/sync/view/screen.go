// internal/app/sync/view/screen.go
package view

import "fmt"

// Screen is the tab a live role view is showing. It gates which
// subscriptions the view holds: the admin screen is the only one that
// watches open submissions and pending-request profiles.
type Screen int

const (
	ScreenLeaderboard Screen = iota
	ScreenRewards
	ScreenTasks
	ScreenAdmin
)

var screenNames = map[Screen]string{
	ScreenLeaderboard: "leaderboard",
	ScreenRewards:     "rewards",
	ScreenTasks:       "tasks",
	ScreenAdmin:       "admin",
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

// ParseScreen maps the wire name to a Screen. Empty input means the
// default leaderboard screen.
func ParseScreen(name string) (Screen, error) {
	if name == "" {
		return ScreenLeaderboard, nil
	}
	for s, n := range screenNames {
		if n == name {
			return s, nil
		}
	}
	return ScreenLeaderboard, fmt.Errorf("unknown screen %q", name)
}
