// Package transformer converts Raw Records from the source into typed
// schema.Game rows.
//
// Transform is pure and deterministic: the same record always produces the
// same row and nothing outside the returned value is touched. Unparseable
// numbers never fail a row; each field falls back to its documented default
// (0, 0.0 or NULL depending on the column).
//
// Column names are matched after NormalizeKey. When two source columns
// normalize to the same key, the value appearing later in the record wins.
package transformer

import (
	"steamload/internal/schema"
)

// setter assigns one normalized column's raw text into a row.
type setter func(g *schema.Game, s string)

// setters is keyed by normalized column key. Aliases cover the header
// spellings seen in marketplace exports ("AppID", "DiscountDLC count").
var setters = map[string]setter{
	"appid":                      func(g *schema.Game, s string) { g.AppID = ParseNullableInt(s) },
	"app_id":                     func(g *schema.Game, s string) { g.AppID = ParseNullableInt(s) },
	"name":                       func(g *schema.Game, s string) { g.Name = NullableText(s) },
	"release_date":               func(g *schema.Game, s string) { g.ReleaseDate = NullableText(s) },
	"estimated_owners":           func(g *schema.Game, s string) { g.EstimatedOwners = NullableText(s) },
	"peak_ccu":                   func(g *schema.Game, s string) { g.PeakCCU = ParseCount(s) },
	"required_age":               func(g *schema.Game, s string) { g.RequiredAge = ParseCount(s) },
	"price":                      func(g *schema.Game, s string) { g.Price = ParsePrice(s) },
	"discountdlc_count":          func(g *schema.Game, s string) { g.DLCCount = ParseCount(s) },
	"dlc_count":                  func(g *schema.Game, s string) { g.DLCCount = ParseCount(s) },
	"about_the_game":             func(g *schema.Game, s string) { g.AboutTheGame = NullableText(s) },
	"supported_languages":        func(g *schema.Game, s string) { g.SupportedLanguages = NullableText(s) },
	"full_audio_languages":       func(g *schema.Game, s string) { g.FullAudioLanguages = NullableText(s) },
	"reviews":                    func(g *schema.Game, s string) { g.Reviews = NullableText(s) },
	"header_image":               func(g *schema.Game, s string) { g.HeaderImage = NullableText(s) },
	"website":                    func(g *schema.Game, s string) { g.Website = NullableText(s) },
	"support_url":                func(g *schema.Game, s string) { g.SupportURL = NullableText(s) },
	"support_email":              func(g *schema.Game, s string) { g.SupportEmail = NullableText(s) },
	"windows":                    func(g *schema.Game, s string) { g.Windows = NormalizePlatformFlag(s) },
	"mac":                        func(g *schema.Game, s string) { g.Mac = NormalizePlatformFlag(s) },
	"linux":                      func(g *schema.Game, s string) { g.Linux = NormalizePlatformFlag(s) },
	"metacritic_score":           func(g *schema.Game, s string) { g.MetacriticScore = NullableText(s) },
	"metacritic_url":             func(g *schema.Game, s string) { g.MetacriticURL = NullableText(s) },
	"user_score":                 func(g *schema.Game, s string) { g.UserScore = NullableText(s) },
	"positive":                   func(g *schema.Game, s string) { g.Positive = ParseCount(s) },
	"negative":                   func(g *schema.Game, s string) { g.Negative = ParseCount(s) },
	"score_rank":                 func(g *schema.Game, s string) { g.ScoreRank = ParseCount(s) },
	"achievements":               func(g *schema.Game, s string) { g.Achievements = ParseAchievements(s) },
	"recommendations":            func(g *schema.Game, s string) { g.Recommendations = ParseCount(s) },
	"notes":                      func(g *schema.Game, s string) { g.Notes = NullableText(s) },
	"average_playtime_forever":   func(g *schema.Game, s string) { g.AveragePlaytimeForever = NullableText(s) },
	"average_playtime_two_weeks": func(g *schema.Game, s string) { g.AveragePlaytimeTwoWeeks = ParseCount(s) },
	"median_playtime_forever":    func(g *schema.Game, s string) { g.MedianPlaytimeForever = ParseCount(s) },
	"median_playtime_two_weeks":  func(g *schema.Game, s string) { g.MedianPlaytimeTwoWeeks = ParseCount(s) },
	"developers":                 func(g *schema.Game, s string) { g.Developers = NullableText(s) },
	"publishers":                 func(g *schema.Game, s string) { g.Publishers = NullableText(s) },
	"categories":                 func(g *schema.Game, s string) { g.Categories = NullableText(s) },
	"genres":                     func(g *schema.Game, s string) { g.Genres = NullableText(s) },
	"tags":                       func(g *schema.Game, s string) { g.Tags = NullableText(s) },
	"screenshots":                func(g *schema.Game, s string) { g.Screenshots = NullableText(s) },
	"movies":                     func(g *schema.Game, s string) { g.Movies = NullableText(s) },
}

// Known reports whether a raw header name maps onto a destination column.
func Known(name string) bool {
	_, ok := setters[NormalizeKey(name)]
	return ok
}

// IsKey reports whether a raw header name maps onto the app_id column.
func IsKey(name string) bool {
	switch NormalizeKey(name) {
	case "appid", "app_id":
		return true
	}
	return false
}

// Transform maps one Raw Record to a typed row. Unknown columns are ignored.
func Transform(raw schema.RawRecord) schema.Game {
	var g schema.Game
	for _, f := range raw.Fields {
		if set, ok := setters[NormalizeKey(f.Name)]; ok {
			set(&g, f.Value)
		}
	}
	return g
}

// Transformer is a Transform with a per-header plan cache, for hot loops over
// records that share one header. Results are identical to Transform. A
// Transformer is not safe for concurrent use.
type Transformer struct {
	plan map[string]setter
}

// New returns a Transformer with an empty plan cache.
func New() *Transformer {
	return &Transformer{plan: make(map[string]setter)}
}

// Transform maps raw to a typed row, normalizing each distinct header name at
// most once.
func (t *Transformer) Transform(raw schema.RawRecord) schema.Game {
	var g schema.Game
	for _, f := range raw.Fields {
		set, seen := t.plan[f.Name]
		if !seen {
			set = setters[NormalizeKey(f.Name)]
			t.plan[f.Name] = set
		}
		if set != nil {
			set(&g, f.Value)
		}
	}
	return g
}
