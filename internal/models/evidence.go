package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Truth is a tri-state verdict value. The zero value is unknown.
type Truth int

const (
	TruthUnknown Truth = iota
	TruthTrue
	TruthFalse
)

// String returns "true", "false" or "unknown".
func (t Truth) String() string {
	switch t {
	case TruthTrue:
		return "true"
	case TruthFalse:
		return "false"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes unknown as null.
func (t Truth) MarshalJSON() ([]byte, error) {
	switch t {
	case TruthTrue:
		return []byte("true"), nil
	case TruthFalse:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts true, false or null.
func (t *Truth) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*t = TruthTrue
	case "false":
		*t = TruthFalse
	default:
		*t = TruthUnknown
	}
	return nil
}

// CastMember is one billed performer. Character may be empty.
type CastMember struct {
	Actor     string `json:"actor"`
	Character string `json:"character,omitempty"`
}

// UnmarshalJSON accepts either a bare actor name or an {actor, character} object.
func (c *CastMember) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = CastMember{Actor: name}
		return nil
	}
	var obj struct {
		Actor     string `json:"actor"`
		Name      string `json:"name"`
		Character string `json:"character"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// Unusable entries are dropped rather than failing the whole record.
		*c = CastMember{}
		return nil
	}
	actor := obj.Actor
	if actor == "" {
		actor = obj.Name
	}
	*c = CastMember{Actor: actor, Character: obj.Character}
	return nil
}

// EvidenceRecord holds the structured facts scraped for a title.
// Empty fields mean the value is absent. Error, when set, marks the whole
// record as unusable.
type EvidenceRecord struct {
	Source   string       `json:"source,omitempty"`
	URL      string       `json:"url,omitempty"`
	Title    string       `json:"title,omitempty"`
	Year     string       `json:"year,omitempty"`
	Director string       `json:"director,omitempty"`
	Creator  string       `json:"creator,omitempty"`
	Genres   []string     `json:"genres,omitempty"`
	Cast     []CastMember `json:"cast,omitempty"`
	Score    string       `json:"score,omitempty"`
	Rating   string       `json:"rating,omitempty"`
	Overview string       `json:"overview,omitempty"`
	Summary  string       `json:"summary,omitempty"`
	Awards   string       `json:"awards,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// UnmarshalJSON tolerates loosely typed provider output: numeric years and
// scores, null names, bare-string cast entries, list-valued text fields and a
// null error field. A field of the wrong shape is dropped, not fatal.
func (e *EvidenceRecord) UnmarshalJSON(data []byte) error {
	type plain EvidenceRecord
	var raw struct {
		plain
		Source   json.RawMessage `json:"source"`
		URL      json.RawMessage `json:"url"`
		Overview json.RawMessage `json:"overview"`
		Summary  json.RawMessage `json:"summary"`
		Awards   json.RawMessage `json:"awards"`
		Title    json.RawMessage `json:"title"`
		Year     json.RawMessage `json:"year"`
		Director json.RawMessage `json:"director"`
		Creator  json.RawMessage `json:"creator"`
		Score    json.RawMessage `json:"score"`
		Rating   json.RawMessage `json:"rating"`
		Genres   json.RawMessage `json:"genres"`
		Cast     json.RawMessage `json:"cast"`
		Error    json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = EvidenceRecord(raw.plain)
	e.Source = looseString(raw.Source)
	e.URL = looseString(raw.URL)
	e.Overview = looseText(raw.Overview)
	e.Summary = looseText(raw.Summary)
	e.Awards = looseText(raw.Awards)
	e.Title = looseString(raw.Title)
	e.Year = looseString(raw.Year)
	e.Director = looseString(raw.Director)
	e.Creator = looseString(raw.Creator)
	e.Score = looseString(raw.Score)
	e.Rating = looseString(raw.Rating)
	e.Genres = looseStrings(raw.Genres)
	e.Cast = looseCast(raw.Cast)

	if len(raw.Error) > 0 && string(raw.Error) != "null" {
		e.Error = looseString(raw.Error)
		if e.Error == "" {
			e.Error = "error"
		}
	}
	return nil
}

// HasError reports whether the provider flagged the record as unusable.
func (e *EvidenceRecord) HasError() bool {
	return e != nil && e.Error != ""
}

// DirectorOrCreator returns the director, or the series creator when no
// director is on record.
func (e *EvidenceRecord) DirectorOrCreator() string {
	if e.Director != "" {
		return e.Director
	}
	return e.Creator
}

// Description returns the overview, falling back to the summary.
func (e *EvidenceRecord) Description() string {
	if e.Overview != "" {
		return e.Overview
	}
	return e.Summary
}

// ActorNames returns the non-empty actor names in billing order.
func (e *EvidenceRecord) ActorNames() []string {
	names := make([]string, 0, len(e.Cast))
	for _, c := range e.Cast {
		if c.Actor != "" {
			names = append(names, c.Actor)
		}
	}
	return names
}

// Flatten renders every field into one lower-cased text blob for keyword matching.
func (e *EvidenceRecord) Flatten() string {
	var b strings.Builder
	write := func(s string) {
		if s == "" {
			return
		}
		b.WriteString(strings.ToLower(s))
		b.WriteByte(' ')
	}
	write(e.Title)
	write(e.Year)
	write(e.Director)
	write(e.Creator)
	for _, g := range e.Genres {
		write(g)
	}
	for _, c := range e.Cast {
		write(c.Actor)
		write(c.Character)
	}
	write(e.Score)
	write(e.Rating)
	write(e.Overview)
	write(e.Summary)
	write(e.Awards)
	return strings.TrimSpace(b.String())
}

func looseString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

func looseCast(raw json.RawMessage) []CastMember {
	var items []CastMember
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	cast := make([]CastMember, 0, len(items))
	for _, c := range items {
		if strings.TrimSpace(c.Actor) != "" {
			cast = append(cast, c)
		}
	}
	return cast
}

func looseStrings(raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := looseString(raw); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := looseString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// looseText decodes a prose field, joining list values with ", ".
func looseText(raw json.RawMessage) string {
	return strings.Join(looseStrings(raw), ", ")
}
