package api

import (
	"fmt"
	"net/http"

	"github.com/mitchellh/mapstructure"
)

type goalForm struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	Type        string `mapstructure:"type"`
	Quarter     string `mapstructure:"quarter"`
	Year        int    `mapstructure:"year"`
}

type weekReviewForm struct {
	Score              *int64 `mapstructure:"score"`
	WentWell           string `mapstructure:"went_well"`
	Improve            string `mapstructure:"improve"`
	OnTrackGoals       *int64 `mapstructure:"on_track_goals"`
	PrioritiesNextWeek string `mapstructure:"priorities_next_week"`
}

type noteForm struct {
	Note string `mapstructure:"note"`
}

type titleForm struct {
	Title string `mapstructure:"title"`
	Date  string `mapstructure:"date"`
}

type trackerForm struct {
	Name string `mapstructure:"name"`
	Unit string `mapstructure:"unit"`
	Type string `mapstructure:"type"`
}

type trackerEntryForm struct {
	Value string `mapstructure:"value"`
	Date  string `mapstructure:"date"`
}

// decodeForm maps the non-empty posted fields onto target, converting strings to numbers where
// the target field needs it. Empty fields are left at their zero value.
func decodeForm(r *http.Request, target any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}

	values := make(map[string]any, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 && v[0] != "" {
			values[k] = v[0]
		}
	}

	if err := mapstructure.WeakDecode(values, target); err != nil {
		return fmt.Errorf("invalid form: %w", err)
	}
	return nil
}
