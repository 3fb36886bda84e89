package service

import (
	"errors"
	"math"
	"time"

	"aral_lms_backend/internal/model"
	"aral_lms_backend/internal/repository"
	"aral_lms_backend/internal/util"

	"gorm.io/gorm"
)

type QuizService struct {
	DB       *gorm.DB
	QuizRepo *repository.QuizRepository
	Gate     *ModuleGateService
}

func NewQuizService(db *gorm.DB, quizRepo *repository.QuizRepository, gate *ModuleGateService) *QuizService {
	return &QuizService{DB: db, QuizRepo: quizRepo, Gate: gate}
}

type AnswerSubmission struct {
	QuestionID       uint  `json:"questionId" binding:"required"`
	SelectedOptionID *uint `json:"selectedOptionId"`
}

type QuizSubmissionResult struct {
	Attempt           *model.QuizAttempt `json:"attempt"`
	Passed            bool               `json:"passed"`
	AttemptsRemaining int                `json:"attemptsRemaining"`
}

// GetQuizForTaking returns the published quiz with questions and options but
// with the IsCorrect flags zeroed, plus an attempt guard: once the user has
// exhausted MaxAttempts the quiz is no longer served.
func (s *QuizService) GetQuizForTaking(userID, quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotFound
	}

	if quiz.MaxAttempts > 0 {
		attempts, err := s.QuizRepo.CountAttempts(userID, quizID)
		if err != nil {
			return nil, err
		}
		if attempts >= int64(quiz.MaxAttempts) {
			return nil, util.ErrMaxAttemptsReached
		}
	}

	for qi := range quiz.Questions {
		for oi := range quiz.Questions[qi].Options {
			quiz.Questions[qi].Options[oi].IsCorrect = false
		}
	}
	return quiz, nil
}

// SubmitQuiz grades the submission, persists the attempt with its answers,
// and for PRE_TEST/POST_TEST quizzes feeds the outcome to the module gate in
// the same transaction. The unlock notification, if the cascade reached a
// next module, is emitted after commit.
func (s *QuizService) SubmitQuiz(userID, quizID uint, answers []AnswerSubmission) (*QuizSubmissionResult, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotFound
	}

	selected := make(map[uint]*uint, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = a.SelectedOptionID
	}

	score, maxScore := 0, 0
	answerRows := make([]model.QuizAnswer, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		maxScore += q.Points
		optionID := selected[q.ID]
		correct := false
		if optionID != nil {
			for _, opt := range q.Options {
				if opt.ID == *optionID && opt.IsCorrect {
					correct = true
					break
				}
			}
		}
		if correct {
			score += q.Points
		}
		answerRows = append(answerRows, model.QuizAnswer{
			QuestionID:       q.ID,
			SelectedOptionID: optionID,
			IsCorrect:        correct,
		})
	}

	percentage := 0
	if maxScore > 0 {
		percentage = int(math.Round(100 * float64(score) / float64(maxScore)))
	}
	passed := percentage >= quiz.PassingScore

	var attempt *model.QuizAttempt
	var unlockedNext *model.Module
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var attemptCount int64
		err := tx.Model(&model.QuizAttempt{}).
			Where("user_id = ? AND quiz_id = ?", userID, quizID).
			Count(&attemptCount).Error
		if err != nil {
			return err
		}
		if quiz.MaxAttempts > 0 && attemptCount >= int64(quiz.MaxAttempts) {
			return util.ErrMaxAttemptsReached
		}

		attempt = &model.QuizAttempt{
			UserID:      userID,
			QuizID:      quizID,
			AttemptNum:  int(attemptCount) + 1,
			Score:       score,
			MaxScore:    maxScore,
			Percentage:  percentage,
			IsPassed:    passed,
			SubmittedAt: time.Now(),
		}
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		for i := range answerRows {
			answerRows[i].AttemptID = attempt.ID
		}
		if len(answerRows) > 0 {
			if err := tx.Create(&answerRows).Error; err != nil {
				return err
			}
		}

		if quiz.Type != model.QuizPreTest && quiz.Type != model.QuizPostTest {
			return nil
		}
		var mod model.Module
		if err := tx.First(&mod, quiz.ModuleID).Error; err != nil {
			return err
		}
		next, err := s.Gate.ApplyQuizResultTx(tx, userID, &mod, quiz.Type, passed)
		if err != nil {
			return err
		}
		unlockedNext = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if unlockedNext != nil {
		s.Gate.NotifyModuleUnlocked(userID, unlockedNext)
	}

	remaining := -1
	if quiz.MaxAttempts > 0 {
		remaining = quiz.MaxAttempts - attempt.AttemptNum
		if remaining < 0 {
			remaining = 0
		}
	}
	return &QuizSubmissionResult{
		Attempt:           attempt,
		Passed:            passed,
		AttemptsRemaining: remaining,
	}, nil
}

func (s *QuizService) AttemptHistory(userID, quizID uint) ([]model.QuizAttempt, error) {
	return s.QuizRepo.AttemptHistory(userID, quizID)
}

// Admin CRUD below; published quizzes keep their attempts when questions
// change, grading always runs against the questions at submission time.

func (s *QuizService) CreateQuiz(quiz *model.Quiz) error {
	return s.QuizRepo.Create(quiz)
}

func (s *QuizService) GetQuizAdmin(quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(quiz *model.Quiz) error {
	return s.QuizRepo.Update(quiz)
}

func (s *QuizService) DeleteQuiz(quizID uint) error {
	return s.QuizRepo.Delete(quizID)
}

func (s *QuizService) AddQuestion(question *model.Question) error {
	return s.QuizRepo.AddQuestion(question)
}

func (s *QuizService) UpdateQuestion(question *model.Question) error {
	return s.QuizRepo.UpdateQuestion(question)
}

func (s *QuizService) DeleteQuestion(questionID uint) error {
	return s.QuizRepo.DeleteQuestion(questionID)
}
