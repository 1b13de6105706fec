package core

import (
	"context"

	"techtoday.app/daily-digest/internal/store"
	"techtoday.app/daily-digest/internal/utils"
)

const (
	defaultProductName = "Untitled Product"
	nullLink           = "#"

	compactTopicLimit       = 3
	derivedTestimonialLimit = 3
	testimonialQuoteLimit   = 150
	defaultTestimonialQuote = "Great product!"
	testimonialAuthor       = "Product Hunt User"
)

type Media struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Comment struct {
	ID   string `json:"id"`
	Body string `json:"body"` // raw upstream body, may contain markup
}

type Testimonial struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// DisplayProduct is the canonical product shape every downstream
// component consumes. It is produced once per feed load by
// NormalizeProduct and never mutated afterwards.
type DisplayProduct struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Tagline      string        `json:"tagline"`
	Description  string        `json:"description"`
	Slug         string        `json:"slug"`
	Summary      string        `json:"summary"`
	URL          string        `json:"url"`
	Website      string        `json:"website"`
	Thumbnail    string        `json:"thumbnail"`
	Topics       []string      `json:"topics"`
	Features     []Feature     `json:"features"`
	UseCases     []string      `json:"useCases"`
	Testimonials []Testimonial `json:"testimonials"`
	Comments     []Comment     `json:"comments"`
	Media        []Media       `json:"media"`
	Rank         int           `json:"rank"`
	FetchedAt    string        `json:"fetchedAt"`
}

// CompactTopics returns the topic labels surfaced in compact views.
// The stored list is complete; only display is capped.
func (p DisplayProduct) CompactTopics() []string {
	if len(p.Topics) <= compactTopicLimit {
		return p.Topics
	}
	return p.Topics[:compactTopicLimit]
}

// CatalogProvider is the feed data provider abstraction. The SQLite
// catalog implements it in production; tests substitute fakes.
type CatalogProvider interface {
	ListProducts(ctx context.Context) ([]store.UpstreamRecord, error)
	GetProductByID(ctx context.Context, id string) (*store.UpstreamRecord, error)
}

// NormalizeProduct maps a raw upstream record into the display schema.
// It is total: every missing or malformed field degrades to a defined
// default, so one bad record can never break the feed.
func NormalizeProduct(raw store.UpstreamRecord) DisplayProduct {
	name := raw.Name
	if name == "" {
		name = defaultProductName
	}

	summary := raw.Description
	if summary == "" {
		summary = raw.Tagline
	}

	url := firstNonEmpty(raw.URL, raw.Website, nullLink)
	website := firstNonEmpty(raw.Website, raw.URL, nullLink)

	thumbnail := ""
	if raw.Thumbnail != nil {
		thumbnail = raw.Thumbnail.URL
	}
	if thumbnail == "" && len(raw.Media) > 0 {
		thumbnail = raw.Media[0].URL
	}

	slug := raw.Slug
	if slug == "" {
		slug = raw.ID.String()
	}

	topics := make([]string, 0, len(raw.Topics))
	for _, t := range raw.Topics {
		if t.Name != "" {
			topics = append(topics, t.Name)
		}
	}

	features := make([]Feature, 0, len(raw.Features))
	for _, f := range raw.Features {
		features = append(features, Feature{Title: f.Title, Description: f.Description})
	}

	useCases := make([]string, 0, len(raw.UseCases))
	useCases = append(useCases, raw.UseCases...)

	comments := make([]Comment, 0, len(raw.Comments))
	for _, c := range raw.Comments {
		comments = append(comments, Comment{ID: c.ID.String(), Body: c.Body})
	}

	media := make([]Media, 0, len(raw.Media))
	for _, m := range raw.Media {
		if m.URL == "" || m.URL == thumbnail {
			continue
		}
		mediaType := m.Type
		if mediaType == "" {
			mediaType = "image"
		}
		media = append(media, Media{Type: mediaType, URL: m.URL})
	}

	return DisplayProduct{
		ID:           raw.ID.String(),
		Name:         name,
		Tagline:      raw.Tagline,
		Description:  raw.Description,
		Slug:         slug,
		Summary:      summary,
		URL:          url,
		Website:      website,
		Thumbnail:    thumbnail,
		Topics:       topics,
		Features:     features,
		UseCases:     useCases,
		Testimonials: deriveTestimonials(raw.Comments),
		Comments:     comments,
		Media:        media,
		Rank:         raw.RankOrDefault(),
		FetchedAt:    raw.FetchedAt,
	}
}

// deriveTestimonials builds the fallback social-proof view from the
// first few comments. Quotes are sanitized before truncation so markup
// never counts against the quote length.
func deriveTestimonials(comments []store.UpstreamComment) []Testimonial {
	limit := len(comments)
	if limit > derivedTestimonialLimit {
		limit = derivedTestimonialLimit
	}

	testimonials := make([]Testimonial, 0, limit)
	for _, c := range comments[:limit] {
		quote := utils.SanitizeHTML(c.Body)
		if quote == "" {
			quote = defaultTestimonialQuote
		} else {
			quote = utils.TruncateText(quote, testimonialQuoteLimit)
		}
		testimonials = append(testimonials, Testimonial{Quote: quote, Author: testimonialAuthor})
	}
	return testimonials
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
