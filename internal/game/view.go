// internal/game/view.go
//
// Pure projection of a Session onto what the page shows.

package game

// Title is the page heading.
const Title = "Guess the City Game 🌍"

// View lists the visible elements for a session.
type View struct {
	Title     string `json:"title"`
	ShowStart bool   `json:"showStart"` // only while idle
	ShowScore bool   `json:"showScore"` // once started
	Score     int    `json:"score"`
	ShowHint  bool   `json:"showHint"` // hint, input, submit and message area
	Hint      string `json:"hint,omitempty"`
	Guess     string `json:"guess"`
	Message   string `json:"message"`
	ShowRetry bool   `json:"showRetry"` // started, no hint, and no fetch in flight
}

// ViewOf renders s at phase p. It depends on nothing but its arguments.
func ViewOf(s Session, p Phase) View {
	return View{
		Title:     Title,
		ShowStart: !s.Started,
		ShowScore: s.Started,
		Score:     s.Score,
		ShowHint:  s.Started && s.Hint != "",
		Hint:      s.Hint,
		Guess:     s.Guess,
		Message:   s.Message,
		ShowRetry: s.Started && s.Hint == "" && p != PhaseAwaitingHint,
	}
}
