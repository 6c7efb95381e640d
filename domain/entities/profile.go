package entities

// PlayerProfile is the assembled view behind the profile command.
type PlayerProfile struct {
	Player   *Player
	Level    *PlayerLevel
	Progress LevelProgress
	Badges   []string
	Weekly   *SeasonRanking
	Monthly  *SeasonRanking
}
