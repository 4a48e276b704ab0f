package domain

// Analysis is the document returned by GET /api/analysis/{id|token}.
// The backend owns the schema; the client only reads it.
type Analysis struct {
	Type          string         `json:"type,omitempty"` // instant|full
	Status        string         `json:"status,omitempty"`
	DataID        string         `json:"data_id,omitempty"`
	CreatedAt     string         `json:"created_at,omitempty"`
	Title         string         `json:"title"`
	Address       string         `json:"address"`
	Rating        float64        `json:"rating"`
	TotalReviews  int            `json:"total_reviews"`
	Reviews       []Review       `json:"reviews"`
	HotelAnalysis *HotelAnalysis `json:"hotel_analysis,omitempty"`
}

// StatusInProgress marks a job the backend has not finished yet.
const StatusInProgress = "in_progress"

type Review struct {
	User       string  `json:"user"`
	Date       string  `json:"date"`
	Rating     float64 `json:"rating"`
	ReviewText string  `json:"review_text"`
}

type HotelAnalysis struct {
	HotelName                string                   `json:"hotel_name,omitempty"`
	Summary                  string                   `json:"summary"`
	OverallSentiment         OverallSentiment         `json:"overall_sentiment"`
	Accommodation            Accommodation            `json:"accommodation"`
	Service                  Service                  `json:"service"`
	Amenities                Amenities                `json:"amenities"`
	FoodAndDining            FoodAndDining            `json:"food_and_dining"`
	LocationAndAccessibility LocationAndAccessibility `json:"location_and_accessibility"`
	ValueForMoney            ValueForMoney            `json:"value_for_money"`
	OnlinePresence           OnlinePresence           `json:"online_presence"`
	TopImprovementPriorities []ImprovementPriority    `json:"top_improvement_priorities"`
}

type OverallSentiment struct {
	AverageScore       float64 `json:"average_score"`
	PositivePercentage float64 `json:"positive_percentage"`
	NeutralPercentage  float64 `json:"neutral_percentage"`
	NegativePercentage float64 `json:"negative_percentage"`
}

type Accommodation struct {
	RoomQuality      []string `json:"room_quality"`
	CommonPraises    []string `json:"common_praises"`
	CommonCriticisms []string `json:"common_criticisms"`
	Suggestions      []string `json:"suggestions"`
}

type Service struct {
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

type Amenities struct {
	PraisedFeatures    []string `json:"praised_features"`
	CriticizedFeatures []string `json:"criticized_features"`
	Suggestions        []string `json:"suggestions"`
}

type FoodAndDining struct {
	RestaurantQuality string   `json:"restaurant_quality"`
	BreakfastFeedback string   `json:"breakfast_feedback"`
	PraisedItems      []string `json:"praised_items"`
	CriticizedItems   []string `json:"criticized_items"`
	Suggestions       []string `json:"suggestions"`
}

type LocationAndAccessibility struct {
	PositiveAspects []string `json:"positive_aspects"`
	NegativeAspects []string `json:"negative_aspects"`
	Suggestions     []string `json:"suggestions"`
}

type ValueForMoney struct {
	PerceivedValue  string   `json:"perceived_value"`
	PositiveFactors []string `json:"positive_factors"`
	NegativeFactors []string `json:"negative_factors"`
	Suggestions     []string `json:"suggestions"`
}

type OnlinePresence struct {
	WebsiteFeedback     []string `json:"website_feedback"`
	SocialMediaFeedback []string `json:"social_media_feedback"`
	Suggestions         []string `json:"suggestions"`
}

type ImprovementPriority struct {
	Category        string `json:"category"`
	Issue           string `json:"issue"`
	Suggestion      string `json:"suggestion"`
	PotentialImpact string `json:"potential_impact"`
}

// Empty reports whether the backend found nothing to analyse.
func (a *Analysis) Empty() bool {
	return a == nil || (len(a.Reviews) == 0 && a.HotelAnalysis == nil)
}
