package game

// Action is a player action as carried on the wire. The numeric values
// appear in table snapshots and must stay stable.
type Action int

const (
	ActionNone Action = iota
	ActionReset
	ActionCheck
	ActionFold
	ActionCall
	ActionBet
	ActionRaise
	ActionAllin
	ActionShow
	ActionMuck
	ActionSitout
	ActionBack
)

var actionNames = map[string]Action{
	"reset":  ActionReset,
	"check":  ActionCheck,
	"fold":   ActionFold,
	"call":   ActionCall,
	"bet":    ActionBet,
	"raise":  ActionRaise,
	"allin":  ActionAllin,
	"show":   ActionShow,
	"muck":   ActionMuck,
	"sitout": ActionSitout,
	"back":   ActionBack,
}

// ParseAction maps an ACTION command verb onto an Action.
func ParseAction(s string) (Action, bool) {
	a, ok := actionNames[s]
	return a, ok
}

// String returns the command verb for the action.
func (a Action) String() string {
	names := [...]string{"none", "reset", "check", "fold", "call", "bet",
		"raise", "allin", "show", "muck", "sitout", "back"}
	if a < 0 || int(a) >= len(names) {
		return "none"
	}
	return names[a]
}
