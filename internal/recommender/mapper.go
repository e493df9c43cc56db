// internal/recommender/mapper.go
package recommender

import (
	"strconv"
	"strings"

	"country-match-workers/internal/models"
)

// QuestionTableVersion changes whenever QuestionDimensions changes.
const QuestionTableVersion = "2"

// QuestionDimensions binds quiz question ids to the dimension they set.
var QuestionDimensions = map[int]models.Dimension{
	1: models.DimensionEducation,
	2: models.DimensionCost,
	3: models.DimensionJobs,
	4: models.DimensionSafety,
	5: models.DimensionHealthcare,
	6: models.DimensionClimate,
}

// MapAnswers turns raw quiz answers into a preference record. Unknown question
// ids are dropped and unanswered questions leave their dimension absent.
func MapAnswers(answers map[int]string) models.Preferences {
	var prefs models.Preferences
	for id, raw := range answers {
		dim, ok := QuestionDimensions[id]
		if !ok {
			continue
		}
		value := strings.ToLower(strings.TrimSpace(raw))
		if value == "" {
			continue
		}
		prefs = prefs.With(dim, value)
	}
	return prefs
}

// MapStringAnswers accepts answers keyed by the decimal question id, as they
// arrive in JSON job variables. Only canonical keys ("1", not "01" or " 1")
// are read, so no two keys can land on the same question.
func MapStringAnswers(answers map[string]string) models.Preferences {
	byID := make(map[int]string, len(answers))
	for key, value := range answers {
		id, ok := ParseQuestionID(key)
		if !ok {
			continue
		}
		byID[id] = value
	}
	return MapAnswers(byID)
}

// ParseQuestionID reads a canonical decimal question id.
func ParseQuestionID(key string) (int, bool) {
	id, err := strconv.Atoi(key)
	if err != nil || id <= 0 || strconv.Itoa(id) != key {
		return 0, false
	}
	return id, true
}
