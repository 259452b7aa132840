package domain

type EntityDetails struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	ReviewGenerationURL string `json:"reviewGenerationUrl"` // passed through, unused by the widget
}
