package domain

import "fmt"

// SecurityQuestion is the closed set of secondary-authentication prompts.
// Answers are stored hashed; the tag is what gets persisted.
type SecurityQuestion string

const (
	QuestionChildhoodCity     SecurityQuestion = "CHILDHOOD_CITY"
	QuestionFirstPet          SecurityQuestion = "FIRST_PET"
	QuestionMothersMaidenName SecurityQuestion = "MOTHERS_MAIDEN_NAME"
	QuestionFavoriteTeacher   SecurityQuestion = "FAVORITE_TEACHER"
	QuestionFirstCar          SecurityQuestion = "FIRST_CAR"
)

var questionTexts = map[SecurityQuestion]string{
	QuestionChildhoodCity:     "In which city did you grow up?",
	QuestionFirstPet:          "What was the name of your first pet?",
	QuestionMothersMaidenName: "What is your mother's maiden name?",
	QuestionFavoriteTeacher:   "What was the name of your favorite teacher?",
	QuestionFirstCar:          "What was the make of your first car?",
}

// Text returns the display prompt for the question tag.
func (q SecurityQuestion) Text() string {
	return questionTexts[q]
}

// Valid reports whether the tag belongs to the known set.
func (q SecurityQuestion) Valid() bool {
	_, ok := questionTexts[q]
	return ok
}

// ParseSecurityQuestion converts a stored tag back into the enum.
func ParseSecurityQuestion(tag string) (SecurityQuestion, error) {
	q := SecurityQuestion(tag)
	if !q.Valid() {
		return "", fmt.Errorf("unknown security question %q", tag)
	}
	return q, nil
}
