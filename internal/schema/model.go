// Package schema holds the record types that flow through the importer: the
// Raw Record produced by the source and the closed Game row produced by the
// transformer and persisted by the storage writer.
package schema

import "strconv"

// Field is one (column name, value) cell of a source line. Name is the header
// text exactly as it appeared in the file.
type Field struct {
	Name  string
	Value string
}

// RawRecord is one data line of the source, in header order. An empty Value
// is the absent marker.
type RawRecord struct {
	Line   int
	Fields []Field
}

// Game is the typed, schema-conformant row for the games table. Pointer
// fields are nullable; value fields carry documented defaults.
type Game struct {
	AppID                   *int64  `db:"app_id"`
	Name                    *string `db:"name"`
	ReleaseDate             *string `db:"release_date"`
	EstimatedOwners         *string `db:"estimated_owners"`
	PeakCCU                 int64   `db:"peak_ccu"`
	RequiredAge             int64   `db:"required_age"`
	Price                   float64 `db:"price"`
	DLCCount                int64   `db:"dlc_count"`
	AboutTheGame            *string `db:"about_the_game"`
	SupportedLanguages      *string `db:"supported_languages"`
	FullAudioLanguages      *string `db:"full_audio_languages"`
	Reviews                 *string `db:"reviews"`
	HeaderImage             *string `db:"header_image"`
	Website                 *string `db:"website"`
	SupportURL              *string `db:"support_url"`
	SupportEmail            *string `db:"support_email"`
	Windows                 *string `db:"windows"`
	Mac                     *string `db:"mac"`
	Linux                   *string `db:"linux"`
	MetacriticScore         *string `db:"metacritic_score"`
	MetacriticURL           *string `db:"metacritic_url"`
	UserScore               *string `db:"user_score"`
	Positive                int64   `db:"positive"`
	Negative                int64   `db:"negative"`
	ScoreRank               int64   `db:"score_rank"`
	Achievements            *int64  `db:"achievements"`
	Recommendations         int64   `db:"recommendations"`
	Notes                   *string `db:"notes"`
	AveragePlaytimeForever  *string `db:"average_playtime_forever"`
	AveragePlaytimeTwoWeeks int64   `db:"average_playtime_two_weeks"`
	MedianPlaytimeForever   int64   `db:"median_playtime_forever"`
	MedianPlaytimeTwoWeeks  int64   `db:"median_playtime_two_weeks"`
	Developers              *string `db:"developers"`
	Publishers              *string `db:"publishers"`
	Categories              *string `db:"categories"`
	Genres                  *string `db:"genres"`
	Tags                    *string `db:"tags"`
	Screenshots             *string `db:"screenshots"`
	Movies                  *string `db:"movies"`
}

// Values returns the row's values aligned with Columns(), with nil for NULL.
func (g *Game) Values() []any {
	return []any{
		i64(g.AppID),
		str(g.Name),
		str(g.ReleaseDate),
		str(g.EstimatedOwners),
		g.PeakCCU,
		g.RequiredAge,
		g.Price,
		g.DLCCount,
		str(g.AboutTheGame),
		str(g.SupportedLanguages),
		str(g.FullAudioLanguages),
		str(g.Reviews),
		str(g.HeaderImage),
		str(g.Website),
		str(g.SupportURL),
		str(g.SupportEmail),
		str(g.Windows),
		str(g.Mac),
		str(g.Linux),
		str(g.MetacriticScore),
		str(g.MetacriticURL),
		str(g.UserScore),
		g.Positive,
		g.Negative,
		g.ScoreRank,
		i64(g.Achievements),
		g.Recommendations,
		str(g.Notes),
		str(g.AveragePlaytimeForever),
		g.AveragePlaytimeTwoWeeks,
		g.MedianPlaytimeForever,
		g.MedianPlaytimeTwoWeeks,
		str(g.Developers),
		str(g.Publishers),
		str(g.Categories),
		str(g.Genres),
		str(g.Tags),
		str(g.Screenshots),
		str(g.Movies),
	}
}

// Ident returns a short identifier for log lines: "app_id=<n>" or
// "app_id=<null>".
func (g *Game) Ident() string {
	if g.AppID == nil {
		return "app_id=<null>"
	}
	return "app_id=" + strconv.FormatInt(*g.AppID, 10)
}

func i64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
