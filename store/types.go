package store

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// DateLayout is how calendar dates are stored
const DateLayout = "2006-01-02"

const (
	TypeScore = "score"
	TypeOpen  = "open"

	CategoryDaily  = "daily"
	CategoryWeekly = "weekly"

	GoalYearly    = "yearly"
	GoalQuarterly = "quarterly"

	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"

	TrackerNumber  = "number"
	TrackerBoolean = "boolean"

	ContextGeneral = "general"
)

type Question struct {
	Id       int64
	Text     string
	Type     string
	Category string
	IsCore   bool
	Active   bool
}

// Answer is one submitted check-in answer. Score is used for score questions, Text otherwise.
type Answer struct {
	QuestionId int64
	Text       string
	Score      *int64
}

type CheckIn struct {
	Id        int64
	Date      string
	Completed bool
	CreatedAt string
}

type AnsweredQuestion struct {
	Date        string
	Text        string
	Type        string
	IsCore      bool
	AnswerText  string
	AnswerScore *int64
}

// Display is the score for score questions and the text otherwise
func (a AnsweredQuestion) Display() string {
	if a.Type == TypeScore {
		if a.AnswerScore == nil {
			return "None"
		}
		return strconv.FormatInt(*a.AnswerScore, 10)
	}
	return a.AnswerText
}

type HistoryDay struct {
	Date      string
	Completed bool
	Answers   []AnsweredQuestion
}

type WeekReview struct {
	Id                 int64
	Year               int
	WeekNumber         int
	Score              *int64
	WentWell           string
	Improve            string
	OnTrackGoals       *int64
	PrioritiesNextWeek string
	CreatedAt          string
}

type Goal struct {
	Id          int64
	Title       string
	Description string
	Type        string
	Quarter     string
	Year        int
	Status      string
	CreatedAt   string
	UpdatedAt   string
}

// GoalChanges holds the fields to update; nil means unchanged
type GoalChanges struct {
	Title       *string
	Description *string
	Status      *string
}

type GoalUpdate struct {
	Id        int64
	GoalId    int64
	Note      string
	CreatedAt string
}

type GoalTask struct {
	Id        int64  `json:"id"`
	GoalId    int64  `json:"goal_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	SortOrder int    `json:"sort_order"`
	CreatedAt string `json:"created_at"`
}

type DailyTask struct {
	Id        int64  `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	CheckInId *int64 `json:"check_in_id"`
	CreatedAt string `json:"created_at"`
}

type Tracker struct {
	Id        int64  `json:"id"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Type      string `json:"type"`
	Active    bool   `json:"active"`
	SortOrder int    `json:"sort_order"`
	CreatedAt string `json:"created_at"`
}

type TrackerEntry struct {
	Id        int64           `json:"id"`
	TrackerId int64           `json:"tracker_id"`
	Date      string          `json:"date"`
	Value     decimal.Decimal `json:"value"`
	CreatedAt string          `json:"created_at"`
}

// TrackerPoint is an entry joined with its tracker
type TrackerPoint struct {
	Name  string
	Unit  string
	Date  string
	Value decimal.Decimal
}

type Insight struct {
	Id          int64
	Prompt      string
	Response    string
	ContextType string
	CreatedAt   string
}
