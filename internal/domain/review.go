package domain

import "strings"

type Publisher string

const (
	PublisherGoogleMyBusiness Publisher = "GOOGLE_MY_BUSINESS"
	PublisherFirstParty       Publisher = "FIRST_PARTY"
	PublisherFacebook         Publisher = "FACEBOOK"
	PublisherUnknown          Publisher = "UNKNOWN"
)

// ParsePublisher maps the publisher tokens seen in review feeds onto the known
// set. Separators and case are ignored; anything unmapped is PublisherUnknown.
func ParsePublisher(s string) Publisher {
	k := strings.ToUpper(strings.TrimSpace(s))
	k = strings.NewReplacer("_", "", "-", "", " ", "").Replace(k)
	switch k {
	case "GOOGLEMYBUSINESS", "GOOGLE", "GMB", "GOOGLEBUSINESSPROFILE":
		return PublisherGoogleMyBusiness
	case "FIRSTPARTY":
		return PublisherFirstParty
	case "FACEBOOK":
		return PublisherFacebook
	default:
		return PublisherUnknown
	}
}

type Comment struct {
	AuthorName string `json:"authorName"`
	Content    string `json:"content"`
	Date       string `json:"date,omitempty"`
}

type ReviewRecord struct {
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content,omitempty"`
	Publisher  Publisher `json:"publisher"`
	Rating     *float64  `json:"rating,omitempty"`     // nil when the feed omitted it
	ReviewDate string    `json:"reviewDate,omitempty"` // raw feed value; parsed at render time
	Comments   []Comment `json:"comments,omitempty"`
}

// RatingValue returns the rating, treating an absent one as 0.
func (r ReviewRecord) RatingValue() float64 {
	if r.Rating == nil {
		return 0
	}
	return *r.Rating
}
