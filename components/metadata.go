package components

// String returns the display name for a GoalKind.
func (k GoalKind) String() string {
	names := GoalKindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// GoalKindNames returns the display names for all goal kinds.
// The order matches the GoalKind constants.
func GoalKindNames() []string {
	return []string{"None", "SearchForFight", "SearchForFood", "GoTo", "GoToAgent", "Bully", "Flee", "Food"}
}

// String returns the display name for a Race.
func (r Race) String() string {
	names := [...]string{"Amoeba", "Stratolopus", "Piko", "Seahorse", "Squid", "Whale"}
	if int(r) < len(names) {
		return names[r]
	}
	return "Unknown"
}

// String returns the display name for a Stage.
func (s Stage) String() string {
	switch s {
	case StageBottom:
		return "bottom"
	case StageMid:
		return "mid"
	case StageTop:
		return "top"
	}
	return "unknown"
}
