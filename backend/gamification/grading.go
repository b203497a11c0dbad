package gamification

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"sagrapp/backend/models"
)

// GradeAnswer checks one answer against its question. graded is false for
// reflection questions and for questions without a stored correct answer.
func GradeAnswer(q models.Question, answer models.AnswerValue) (correct, graded bool) {
	if q.Type == models.QuestionReflection || len(q.CorrectAnswer) == 0 {
		return false, false
	}
	return sameAnswerSet(q.CorrectAnswer, answer), true
}

// GradeAnswers marks each answer as correct or not and returns the XP earned:
// the xp_value of every correctly answered question, counted once.
// Answers for questions outside the lesson stay ungraded.
func GradeAnswers(questions []models.Question, answers []models.UserAnswer) ([]models.UserAnswer, int) {
	byID := make(map[uuid.UUID]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	rewarded := make(map[uuid.UUID]bool)
	graded := make([]models.UserAnswer, len(answers))
	xp := 0
	for i, a := range answers {
		a.IsCorrect = nil
		if q, ok := byID[a.QuestionID]; ok {
			if correct, ok := GradeAnswer(*q, a.UserAnswer); ok {
				c := correct
				a.IsCorrect = &c
				if correct && !rewarded[q.ID] {
					rewarded[q.ID] = true
					xp += q.XPValue
				}
			}
		}
		graded[i] = a
	}
	return graded, xp
}

func sameAnswerSet(want, got models.AnswerValue) bool {
	w, g := normalizeAnswer(want), normalizeAnswer(got)
	if len(w) != len(g) {
		return false
	}
	for i := range w {
		if w[i] != g[i] {
			return false
		}
	}
	return true
}

func normalizeAnswer(v models.AnswerValue) []string {
	out := make([]string, 0, len(v))
	for _, s := range v {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
