// internal/quiz/questions.go
package quiz

import (
	"strings"

	"country-match-workers/internal/models"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Question struct {
	ID        int              `json:"id"`
	Prompt    string           `json:"prompt"`
	Dimension models.Dimension `json:"dimension"`
	Options   []Option         `json:"options"`
}

// Catalog is the fixed question sequence. Ids match recommender.QuestionDimensions.
var Catalog = []Question{
	{
		ID:        1,
		Prompt:    "What is your priority for education quality?",
		Dimension: models.DimensionEducation,
		Options: []Option{
			{Value: "high", Label: "High - World-class education system"},
			{Value: "medium", Label: "Medium - Good education quality"},
			{Value: "low", Label: "Low - Basic education quality"},
		},
	},
	{
		ID:        2,
		Prompt:    "What is your preferred living cost level?",
		Dimension: models.DimensionCost,
		Options: []Option{
			{Value: "low", Label: "Low - Budget-friendly living"},
			{Value: "medium", Label: "Medium - Comfortable living"},
			{Value: "high", Label: "High - Luxury living"},
		},
	},
	{
		ID:        3,
		Prompt:    "How important are job opportunities for you?",
		Dimension: models.DimensionJobs,
		Options: []Option{
			{Value: "high", Label: "Very important - Strong job market"},
			{Value: "medium", Label: "Somewhat important - Decent opportunities"},
			{Value: "low", Label: "Not important - Retiring or self-employed"},
		},
	},
	{
		ID:        4,
		Prompt:    "How important is personal safety to you?",
		Dimension: models.DimensionSafety,
		Options: []Option{
			{Value: "high", Label: "Very important - Low crime is a must"},
			{Value: "medium", Label: "Somewhat important - Average safety is fine"},
			{Value: "low", Label: "Not important - I can adapt"},
		},
	},
	{
		ID:        5,
		Prompt:    "What level of healthcare do you expect?",
		Dimension: models.DimensionHealthcare,
		Options: []Option{
			{Value: "high", Label: "High - Excellent public and private care"},
			{Value: "medium", Label: "Medium - Reliable basic care"},
			{Value: "low", Label: "Low - Minimal requirements"},
		},
	},
	{
		ID:        6,
		Prompt:    "What type of climate do you prefer?",
		Dimension: models.DimensionClimate,
		Options: []Option{
			{Value: "tropical", Label: "Tropical - Warm and humid"},
			{Value: "temperate", Label: "Temperate - Mild seasons"},
			{Value: "cold", Label: "Cold - Cold winters"},
		},
	},
}

// QuestionByID returns the catalog question with the given id.
func QuestionByID(id int) (Question, bool) {
	for _, q := range Catalog {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// ValidAnswer reports whether value is one of the options of question id.
func ValidAnswer(id int, value string) bool {
	q, ok := QuestionByID(id)
	if !ok {
		return false
	}
	value = strings.ToLower(strings.TrimSpace(value))
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}
