package content

import "encoding/json"

// Variant is a typed view of a Card, one type per CardType:
// ServiceCard, ProjectCard, TestimonialCard, TeamCard, PartnerCard or ServiceSectionCard.
type Variant interface {
	card() Card
}

type (
	ServiceCard struct{ Card }

	ProjectCard struct {
		Card
		// Details is decoded from the metadata; nil when the metadata is absent or not an object.
		Details *ProjectDetails `json:"details"`
	}

	TestimonialCard    struct{ Card }
	TeamCard           struct{ Card }
	PartnerCard        struct{ Card }
	ServiceSectionCard struct{ Card }
)

func (c ServiceCard) card() Card        { return c.Card }
func (c ProjectCard) card() Card        { return c.Card }
func (c TestimonialCard) card() Card    { return c.Card }
func (c TeamCard) card() Card           { return c.Card }
func (c PartnerCard) card() Card        { return c.Card }
func (c ServiceSectionCard) card() Card { return c.Card }

// ProjectDetails are the presentation fields project cards carry in their metadata.
type ProjectDetails struct {
	ModalImageURL     string   `json:"modalImageUrl,omitempty"`
	DetailDescription string   `json:"detailDescription,omitempty"`
	Technologies      []string `json:"technologies,omitempty"`
	Client            string   `json:"client,omitempty"`
	Date              string   `json:"date,omitempty"`
	Duration          string   `json:"duration,omitempty"`
	Features          []string `json:"features,omitempty"`
}

// Variant returns the typed view of the card, or nil for an unknown type.
func (c Card) Variant() Variant {
	switch c.Type {
	case CardService:
		return ServiceCard{c}
	case CardProject:
		pc := ProjectCard{Card: c}
		if len(c.Metadata) > 0 {
			var details ProjectDetails
			if err := json.Unmarshal(c.Metadata, &details); err == nil {
				pc.Details = &details
			}
		}
		return pc
	case CardTestimonial:
		return TestimonialCard{c}
	case CardTeam:
		return TeamCard{c}
	case CardPartner:
		return PartnerCard{c}
	case CardServiceSection:
		return ServiceSectionCard{c}
	}
	return nil
}

// CardOf returns the card behind a Variant.
func CardOf(v Variant) Card { return v.card() }
