package store

import (
	"encoding/json"
	"strings"
)

// FlexID accepts a JSON string or number and keeps it as a string key.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// Thumbnail accepts either a bare URL string or a {"url": ...} object.
type Thumbnail struct {
	URL string `json:"url"`
}

func (t *Thumbnail) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		t.URL = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		return json.Unmarshal(data, &t.URL)
	}
	type alias Thumbnail
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	t.URL = a.URL
	return nil
}

// Topic accepts either a bare label string or a {"name": ...} object.
type Topic struct {
	Name string `json:"name"`
}

func (t *Topic) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		t.Name = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		return json.Unmarshal(data, &t.Name)
	}
	type alias Topic
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	t.Name = a.Name
	return nil
}

type UpstreamMedia struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type UpstreamComment struct {
	ID   FlexID `json:"id"`
	Body string `json:"body"`
}

type UpstreamFeature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpstreamRecord is a raw product document as received from the
// catalog provider. Every field except the identifier and name is
// optional and the shapes are deliberately loose; normalization into
// the display schema happens in core.
type UpstreamRecord struct {
	ID          FlexID            `json:"id"`
	Name        string            `json:"name"`
	Tagline     string            `json:"tagline"`
	Description string            `json:"description"`
	Slug        string            `json:"slug"`
	URL         string            `json:"url"`
	Website     string            `json:"website"`
	Thumbnail   *Thumbnail        `json:"thumbnail"`
	Media       []UpstreamMedia   `json:"media"`
	Topics      []Topic           `json:"topics"`
	Features    []UpstreamFeature `json:"features"`
	UseCases    []string          `json:"use_cases"`
	Comments    []UpstreamComment `json:"comments"`
	Rank        int               `json:"rank"`
	FetchedAt   string            `json:"fetchedAt"`
}

// RankOrDefault keeps malformed negative ranks from reordering the feed.
func (r UpstreamRecord) RankOrDefault() int {
	if r.Rank < 0 {
		return 0
	}
	return r.Rank
}
