package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidyamithra/backend/internal/domain/roadmap"
)

func answersWithScore(total, correct int) []Answer {
	answers := make([]Answer, total)
	for i := range answers {
		answers[i] = Answer{QuestionID: i + 1, Correct: 0}
		if i < correct {
			answers[i].Selected = 0
		} else {
			answers[i].Selected = 1
		}
	}
	return answers
}

func TestGrade_PassIsInclusiveAtThreshold(t *testing.T) {
	// 8/10 = exactly the Intermediate bar.
	score, correct, passed, err := Grade(answersWithScore(10, 8), nil, roadmap.LevelIntermediate)
	require.NoError(t, err)

	assert.Equal(t, 80.0, score)
	assert.Equal(t, 8, correct)
	assert.True(t, passed)
}

func TestGrade_FailBelowThreshold(t *testing.T) {
	score, _, passed, err := Grade(answersWithScore(10, 6), nil, roadmap.LevelBeginner)
	require.NoError(t, err)

	assert.Equal(t, 60.0, score)
	assert.False(t, passed)
}

func TestGrade_ThresholdVariesByLevel(t *testing.T) {
	answers := answersWithScore(10, 8)

	_, _, passed, err := Grade(answers, nil, roadmap.LevelIntermediate)
	require.NoError(t, err)
	assert.True(t, passed)

	_, _, passed, err = Grade(answers, nil, roadmap.LevelAdvanced)
	require.NoError(t, err)
	assert.False(t, passed, "80% misses the Advanced bar of 85")
}

func TestGrade_ServerKeyOverridesClientMarker(t *testing.T) {
	// The client claims its selections are all correct; the server key says
	// otherwise for every question.
	answers := []Answer{
		{QuestionID: 1, Selected: 2, Correct: 2},
		{QuestionID: 2, Selected: 3, Correct: 3},
	}
	key := map[int]int{1: 0, 2: 1}

	score, correct, passed, err := Grade(answers, key, roadmap.LevelBeginner)
	require.NoError(t, err)

	assert.Equal(t, 0.0, score)
	assert.Equal(t, 0, correct)
	assert.False(t, passed)
}

func TestGrade_ClientMarkerUsedForQuestionsAbsentFromKey(t *testing.T) {
	answers := []Answer{
		{QuestionID: 1, Selected: 0, Correct: 0}, // graded from key: wrong
		{QuestionID: 2, Selected: 1, Correct: 1}, // absent from key: client marker counts
	}
	key := map[int]int{1: 3}

	_, correct, _, err := Grade(answers, key, roadmap.LevelBeginner)
	require.NoError(t, err)
	assert.Equal(t, 1, correct)
}

func TestGrade_NoAnswers(t *testing.T) {
	_, _, _, err := Grade(nil, nil, roadmap.LevelBeginner)
	assert.ErrorIs(t, err, ErrNoAnswers)
}
