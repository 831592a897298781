package content

type Hero struct {
	Heading         string         `json:"heading"`
	Subheading      string         `json:"subheading"`
	CTAText         string         `json:"ctaText"`
	CTALink         string         `json:"ctaLink"`
	BackgroundImage string         `json:"backgroundImage"`
	OverlayOpacity  float64        `json:"overlayOpacity"`
	Extra           map[string]any `json:"-"`
}

func (*Hero) Type() BlockType { return BlockTypeHero }

type Feature struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Features struct {
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Items    []Feature      `json:"items"`
	Extra    map[string]any `json:"-"`
}

func (*Features) Type() BlockType { return BlockTypeFeatures }

type Testimonial struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Quote  string `json:"quote"`
	Avatar string `json:"avatar"`
	Rating int    `json:"rating"`
}

type Testimonials struct {
	Title string         `json:"title"`
	Items []Testimonial  `json:"items"`
	Extra map[string]any `json:"-"`
}

func (*Testimonials) Type() BlockType { return BlockTypeTestimonials }

type CTA struct {
	Heading         string         `json:"heading"`
	Description     string         `json:"description"`
	ButtonText      string         `json:"buttonText"`
	ButtonLink      string         `json:"buttonLink"`
	BackgroundColor string         `json:"backgroundColor"`
	Extra           map[string]any `json:"-"`
}

func (*CTA) Type() BlockType { return BlockTypeCTA }

type Image struct {
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

type Gallery struct {
	Title   string         `json:"title"`
	Images  []Image        `json:"images"`
	Columns int            `json:"columns"`
	Extra   map[string]any `json:"-"`
}

func (*Gallery) Type() BlockType { return BlockTypeGallery }

type Text struct {
	Heading   string         `json:"heading"`
	Body      string         `json:"body"`
	Alignment string         `json:"alignment"`
	Extra     map[string]any `json:"-"`
}

func (*Text) Type() BlockType { return BlockTypeText }

type Plan struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period"`
	Features    []string `json:"features"`
	Highlighted bool     `json:"highlighted"`
	CTAText     string   `json:"ctaText"`
}

type Pricing struct {
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Plans    []Plan         `json:"plans"`
	Extra    map[string]any `json:"-"`
}

func (*Pricing) Type() BlockType { return BlockTypePricing }

type Workouts struct {
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Category string         `json:"category"`
	Limit    int            `json:"limit"`
	Extra    map[string]any `json:"-"`
}

func (*Workouts) Type() BlockType { return BlockTypeWorkouts }

// Custom is the open variant used for the custom type and for unrecognized types.
type Custom struct {
	Fields map[string]any
}

func (*Custom) Type() BlockType { return BlockTypeCustom }

// Default returns the fixed initial payload for a new block of type t.
func Default(t BlockType) Content {
	switch t {
	case BlockTypeHero:
		return &Hero{
			Heading:         "Transform Your Body",
			Subheading:      "Personal training built around your goals",
			CTAText:         "Get Started",
			CTALink:         "/contact",
			BackgroundImage: "",
			OverlayOpacity:  0.4,
		}
	case BlockTypeFeatures:
		return &Features{
			Title:    "Why Train With Us",
			Subtitle: "Everything you need to reach your goals",
			Items: []Feature{
				{Icon: "dumbbell", Title: "Personal Plans", Description: "Programs designed for you"},
				{Icon: "calendar", Title: "Flexible Schedule", Description: "Book sessions that fit your week"},
				{Icon: "chart", Title: "Progress Tracking", Description: "See every improvement"},
			},
		}
	case BlockTypeTestimonials:
		return &Testimonials{
			Title: "What Our Clients Say",
			Items: []Testimonial{
				{Name: "Client Name", Role: "Member", Quote: "Training here changed my routine.", Rating: 5},
			},
		}
	case BlockTypeCTA:
		return &CTA{
			Heading:     "Ready To Start?",
			Description: "Book your first session today",
			ButtonText:  "Book Now",
			ButtonLink:  "/booking",
		}
	case BlockTypeGallery:
		return &Gallery{
			Title:   "Gallery",
			Images:  []Image{},
			Columns: 3,
		}
	case BlockTypeText:
		return &Text{
			Heading:   "",
			Body:      "",
			Alignment: "left",
		}
	case BlockTypePricing:
		return &Pricing{
			Title:    "Membership Plans",
			Subtitle: "Choose the plan that fits you",
			Plans: []Plan{
				{Name: "Basic", Price: "49", Period: "month", Features: []string{"2 sessions per month"}, CTAText: "Choose Basic"},
				{Name: "Pro", Price: "99", Period: "month", Features: []string{"8 sessions per month", "Nutrition plan"}, Highlighted: true, CTAText: "Choose Pro"},
			},
		}
	case BlockTypeWorkouts:
		return &Workouts{
			Title:    "Featured Workouts",
			Subtitle: "",
			Category: "all",
			Limit:    6,
		}
	}

	return &Custom{Fields: make(map[string]any)}
}
