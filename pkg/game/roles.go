package game

// ResolveRole derives the local player's part in the current turn. It is a
// pure function and is safe to recompute on every render.
//
// In team mode guesserID carries the 1-based team number rather than a
// player id, so membership is checked against the confirmed rosters.
func ResolveRole(activePlayerID, guesserID *int, localPlayerID int, mode Mode, rosters [2][]int) Role {
	if activePlayerID != nil && *activePlayerID == localPlayerID {
		return RoleExplainer
	}
	if guesserID == nil {
		return RoleSpectator
	}

	if mode == ModeTeam {
		idx := *guesserID - 1
		if idx < 0 || idx >= len(rosters) {
			return RoleSpectator
		}
		for _, id := range rosters[idx] {
			if id == localPlayerID {
				return RoleGuesser
			}
		}
		return RoleSpectator
	}

	if *guesserID == localPlayerID {
		return RoleGuesser
	}
	return RoleSpectator
}
