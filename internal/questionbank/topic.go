package questionbank

import "fmt"

// Topic is the solid a question is about.
type Topic string

const (
	TopicCube     Topic = "cube"
	TopicCuboid   Topic = "cuboid"
	TopicCylinder Topic = "cylinder"
	TopicCone     Topic = "cone"
	TopicSphere   Topic = "sphere"
	TopicPrism    Topic = "prism"
	TopicPyramid  Topic = "pyramid"
)

// All is the filter value that matches every topic or difficulty.
const All = "all"

// AllTopics returns all topics in display order.
func AllTopics() []Topic {
	return []Topic{
		TopicCube,
		TopicCuboid,
		TopicCylinder,
		TopicCone,
		TopicSphere,
		TopicPrism,
		TopicPyramid,
	}
}

// DisplayName returns the label shown to learners.
func (t Topic) DisplayName() string {
	switch t {
	case TopicCube:
		return "Kubus"
	case TopicCuboid:
		return "Balok"
	case TopicCylinder:
		return "Tabung"
	case TopicCone:
		return "Kerucut"
	case TopicSphere:
		return "Bola"
	case TopicPrism:
		return "Prisma"
	case TopicPyramid:
		return "Limas"
	}
	return string(t)
}

// Valid reports whether t is one of the known topics.
func (t Topic) Valid() bool {
	for _, known := range AllTopics() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseTopic converts a string into a Topic.
func ParseTopic(s string) (Topic, error) {
	t := Topic(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown topic %q", s)
	}
	return t, nil
}

// Difficulty grades how hard a question is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties returns the difficulties from easiest to hardest.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// DisplayName returns the label shown to learners.
func (d Difficulty) DisplayName() string {
	switch d {
	case DifficultyEasy:
		return "Mudah"
	case DifficultyMedium:
		return "Sedang"
	case DifficultyHard:
		return "Sulit"
	}
	return string(d)
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty converts a string into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}
