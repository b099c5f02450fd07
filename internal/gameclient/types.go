// internal/gameclient/types.go
//
// Wire types for the external game service.
//   - Hint:         GET  /random-city response.
//   - GuessOutcome: POST /guess response.
//
// Both are produced by the service; this package only decodes them.

package gameclient

// DefaultBaseURL is the game service endpoint used when Options.BaseURL is empty.
const DefaultBaseURL = "http://localhost:3000/game"

// Hint is a textual clue about the city the player should guess.
type Hint struct {
	Text     string `json:"hint"`
	CityName string `json:"cityName,omitempty"` // reserved; never inspected by the client
}

// GuessOutcome is the service's verdict on a single guess.
// Message is shown to the player verbatim.
type GuessOutcome struct {
	Correct bool   `json:"correct"`
	Message string `json:"message"`
}

// guessReq is the POST /guess request body.
type guessReq struct {
	Guess string `json:"guess"`
}

// hintWire and outcomeWire use pointers so missing required fields
// can be told apart from zero values.
type hintWire struct {
	Hint     *string `json:"hint"`
	CityName string  `json:"cityName"`
}

type outcomeWire struct {
	Correct *bool  `json:"correct"`
	Message string `json:"message"`
}
