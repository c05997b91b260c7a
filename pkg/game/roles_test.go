package game

import "testing"

func intPtr(v int) *int { return &v }

func TestResolveRoleSolo(t *testing.T) {
	tests := []struct {
		name     string
		active   *int
		guesser  *int
		localID  int
		expected Role
	}{
		{"explainer", intPtr(1), intPtr(2), 1, RoleExplainer},
		{"guesser", intPtr(1), intPtr(2), 2, RoleGuesser},
		{"spectator", intPtr(1), intPtr(2), 3, RoleSpectator},
		{"no assignment yet", nil, nil, 1, RoleSpectator},
		{"active without guesser", intPtr(1), nil, 1, RoleExplainer},
		{"only guesser missing", intPtr(1), nil, 2, RoleSpectator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRole(tt.active, tt.guesser, tt.localID, ModeSolo, [2][]int{})
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestResolveRoleTeam(t *testing.T) {
	rosters := [2][]int{{1, 3}, {2, 4}}

	tests := []struct {
		name     string
		active   *int
		guesser  *int
		localID  int
		expected Role
	}{
		{"explainer beats team lookup", intPtr(1), intPtr(1), 1, RoleExplainer},
		{"teammate of guessing team 1", intPtr(2), intPtr(1), 3, RoleGuesser},
		{"teammate of guessing team 2", intPtr(1), intPtr(2), 4, RoleGuesser},
		{"other team spectates", intPtr(1), intPtr(2), 3, RoleSpectator},
		{"team number out of range", intPtr(1), intPtr(3), 2, RoleSpectator},
		{"team number zero", intPtr(1), intPtr(0), 2, RoleSpectator},
		{"unknown player", intPtr(1), intPtr(2), 9, RoleSpectator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRole(tt.active, tt.guesser, tt.localID, ModeTeam, rosters)
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestResolveRoleTeamWithoutRosters(t *testing.T) {
	// Before set_teams is confirmed there is nothing to look up.
	got := ResolveRole(intPtr(1), intPtr(1), 2, ModeTeam, [2][]int{})
	if got != RoleSpectator {
		t.Errorf("expected spectator, got %s", got)
	}
}
