package session

import (
	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/ui/components"
)

// Filter choices in display order. Index 0 is always "all".
var (
	topicChoices      = append([]questionbank.Topic{""}, questionbank.AllTopics()...)
	difficultyChoices = append([]questionbank.Difficulty{""}, questionbank.AllDifficulties()...)
)

func newTopicSelector() components.Selector {
	labels := make([]string, len(topicChoices))
	for i, t := range topicChoices {
		if t == "" {
			labels[i] = "Semua Bangun"
			continue
		}
		labels[i] = t.DisplayName()
	}
	return components.Selector{Label: "Materi Ruang", Choices: labels}
}

func newDifficultySelector() components.Selector {
	labels := make([]string, len(difficultyChoices))
	for i, d := range difficultyChoices {
		if d == "" {
			labels[i] = "Semua Tingkat"
			continue
		}
		labels[i] = d.DisplayName()
	}
	return components.Selector{Label: "Tingkat Kesulitan", Choices: labels}
}

// filterFor maps the selector positions to a bank filter.
func filterFor(topic, difficulty components.Selector) questionbank.Filter {
	return questionbank.Filter{
		Topic:      topicChoices[topic.Selected],
		Difficulty: difficultyChoices[difficulty.Selected],
	}
}
