package model

// Difficulty buckets problems
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Problem is a coding problem a duel can be played on
type Problem struct {
	Slug        string     `json:"slug" bson:"slug"`
	Title       string     `json:"title" bson:"title"`
	Difficulty  Difficulty `json:"difficulty" bson:"difficulty"`
	Description string     `json:"description" bson:"description"`
}
