package render

import "review_ai/internal/domain"

type listBlock struct {
	Title string
	Items []string
}

// section is one categorised feedback block: optional lead paragraphs, a two
// column grid, then full width lists.
type section struct {
	Title      string
	Paragraphs []string
	Columns    []listBlock
	Below      []listBlock
}

const suggestionsTitle = "Suggestions for Improvement"

func sections(h domain.HotelAnalysis) []section {
	return []section{
		{
			Title: "Accommodation",
			Columns: []listBlock{
				{"Room Quality", h.Accommodation.RoomQuality},
				{"Common Praises", h.Accommodation.CommonPraises},
			},
			Below: []listBlock{
				{"Common Criticisms", h.Accommodation.CommonCriticisms},
				{suggestionsTitle, h.Accommodation.Suggestions},
			},
		},
		{
			Title: "Service",
			Columns: []listBlock{
				{"Strengths", h.Service.Strengths},
				{"Weaknesses", h.Service.Weaknesses},
			},
			Below: []listBlock{{suggestionsTitle, h.Service.Suggestions}},
		},
		{
			Title: "Amenities",
			Columns: []listBlock{
				{"Praised Features", h.Amenities.PraisedFeatures},
				{"Criticized Features", h.Amenities.CriticizedFeatures},
			},
			Below: []listBlock{{suggestionsTitle, h.Amenities.Suggestions}},
		},
		{
			Title:      "Food and Dining",
			Paragraphs: nonEmpty(h.FoodAndDining.RestaurantQuality, h.FoodAndDining.BreakfastFeedback),
			Columns: []listBlock{
				{"Praised Items", h.FoodAndDining.PraisedItems},
				{"Criticized Items", h.FoodAndDining.CriticizedItems},
			},
			Below: []listBlock{{suggestionsTitle, h.FoodAndDining.Suggestions}},
		},
		{
			Title: "Location and Accessibility",
			Columns: []listBlock{
				{"Positive Aspects", h.LocationAndAccessibility.PositiveAspects},
				{"Negative Aspects", h.LocationAndAccessibility.NegativeAspects},
			},
			Below: []listBlock{{suggestionsTitle, h.LocationAndAccessibility.Suggestions}},
		},
		{
			Title:      "Value for Money",
			Paragraphs: nonEmpty(h.ValueForMoney.PerceivedValue),
			Columns: []listBlock{
				{"Positive Factors", h.ValueForMoney.PositiveFactors},
				{"Negative Factors", h.ValueForMoney.NegativeFactors},
			},
			Below: []listBlock{{suggestionsTitle, h.ValueForMoney.Suggestions}},
		},
		{
			Title: "Online Presence",
			Below: []listBlock{
				{"Website Feedback", h.OnlinePresence.WebsiteFeedback},
				{"Social Media Feedback", h.OnlinePresence.SocialMediaFeedback},
				{suggestionsTitle, h.OnlinePresence.Suggestions},
			},
		},
	}
}

func nonEmpty(ss ...string) []string {
	var out []string
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
