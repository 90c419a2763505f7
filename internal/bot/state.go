package bot

// State is one step of a conversation. Every menu context has its own tag.
type State int

const (
	MainMenu State = iota
	AddDate
	AddCity
	AddPlayersCount
	AddWinner
	AddSecondPlace
	CollectParticipant
	AddRebuys
	AddBuyin
	AddBigBlind
	AddDescription
	SearchGame
	PlayerStatsPrompt
	SeasonsMenu
	SeasonPoints
	DeletePrompt
	DeleteDisambiguate
)

var stateNames = [...]string{
	MainMenu:           "main_menu",
	AddDate:            "add_date",
	AddCity:            "add_city",
	AddPlayersCount:    "add_players_count",
	AddWinner:          "add_winner",
	AddSecondPlace:     "add_second_place",
	CollectParticipant: "collect_participant",
	AddRebuys:          "add_rebuys",
	AddBuyin:           "add_buyin",
	AddBigBlind:        "add_big_blind",
	AddDescription:     "add_description",
	SearchGame:         "search_game",
	PlayerStatsPrompt:  "player_stats_prompt",
	SeasonsMenu:        "seasons_menu",
	SeasonPoints:       "season_points",
	DeletePrompt:       "delete_prompt",
	DeleteDisambiguate: "delete_disambiguate",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return stateNames[MainMenu]
	}
	return stateNames[s]
}

// ParseState maps a stored state name back to its tag. Unknown or empty
// names resolve to MainMenu.
func ParseState(name string) State {
	for i, n := range stateNames {
		if n == name {
			return State(i)
		}
	}
	return MainMenu
}
