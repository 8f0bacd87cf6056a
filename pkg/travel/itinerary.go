package travel

import (
	"encoding/json"
	"fmt"
	"strings"

	apperr "github.com/draddo11/Holiday/pkg/errors"
)

// Itinerary request defaults and limits.
const (
	DefaultBudget = 2000
	DefaultDays   = 3
	MaxDays       = 21
)

// ItineraryRequest describes the trip to plan.
type ItineraryRequest struct {
	Destination string   `json:"destination"`
	Origin      string   `json:"origin"`
	Budget      int      `json:"budget"`
	Days        int      `json:"days"`
	Interests   []string `json:"interests"`
}

// Normalize validates the request and fills defaults in place.
func (r *ItineraryRequest) Normalize() error {
	if err := apperr.ValidateDestination(r.Destination); err != nil {
		return err
	}
	r.Destination = strings.TrimSpace(r.Destination)
	r.Origin = strings.TrimSpace(r.Origin)
	if r.Origin == "" {
		r.Origin = DefaultOrigin
	}
	switch {
	case r.Budget == 0:
		r.Budget = DefaultBudget
	case r.Budget < 0:
		return apperr.New(apperr.ErrCodeInvalidInput, "budget must be positive, got %d", r.Budget)
	}
	switch {
	case r.Days == 0:
		r.Days = DefaultDays
	case r.Days < 0 || r.Days > MaxDays:
		return apperr.New(apperr.ErrCodeInvalidInput, "days must be between 1 and %d, got %d", MaxDays, r.Days)
	}
	return nil
}

// CostBreakdown splits the budget by spending category.
type CostBreakdown struct {
	Flights        int `json:"flights"`
	Accommodation  int `json:"accommodation"`
	Food           int `json:"food"`
	Activities     int `json:"activities"`
	Transportation int `json:"transportation"`
}

// Total sums every category.
func (c CostBreakdown) Total() int {
	return c.Flights + c.Accommodation + c.Food + c.Activities + c.Transportation
}

// Activity is one entry in a day plan.
type Activity struct {
	Time        string `json:"time"`
	Activity    string `json:"activity"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Cost        int    `json:"cost"`
	Tips        string `json:"tips,omitempty"`
}

// Day is one day of the plan.
type Day struct {
	Day                int               `json:"day"`
	Title              string            `json:"title"`
	Activities         []Activity        `json:"activities"`
	Meals              map[string]string `json:"meals"`
	EstimatedDailyCost int               `json:"estimatedDailyCost"`
}

// BudgetSummary reports the estimated spend.
type BudgetSummary struct {
	TotalEstimated int `json:"totalEstimated"`
}

// Itinerary is a full trip plan. The JSON shape is what the web client
// renders.
type Itinerary struct {
	Destination    string        `json:"destination"`
	Duration       int           `json:"duration"`
	TotalBudget    int           `json:"totalBudget"`
	CostBreakdown  CostBreakdown `json:"costBreakdown"`
	DailyItinerary []Day         `json:"dailyItinerary"`
	TravelTips     []string      `json:"travelTips"`
	PackingList    []string      `json:"packingList"`
	BudgetSummary  BudgetSummary `json:"budgetSummary"`
	Source         string        `json:"source,omitempty"`
}

// ItineraryPrompt builds the language-model prompt for req. guide seeds the
// model with known highlights; prices ground the flight and hotel numbers.
func ItineraryPrompt(req ItineraryRequest, guide Guide, flights *FlightPrices, hotels *HotelPrices) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed %d-day travel itinerary for a trip from %s to %s with a total budget of $%d USD.\n",
		req.Days, req.Origin, req.Destination, req.Budget)
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "Traveler interests: %s.\n", strings.Join(req.Interests, ", "))
	}
	if len(guide.Attractions) > 0 {
		fmt.Fprintf(&b, "Known highlights: %s.\n", strings.Join(guide.Attractions, ", "))
	}
	if flights != nil {
		fmt.Fprintf(&b, "Round-trip economy flights cost about $%.0f.\n", flights.Economy)
	}
	if hotels != nil {
		fmt.Fprintf(&b, "Hotels cost about $%.0f per night (budget) to $%.0f (standard).\n", hotels.Budget, hotels.Standard)
	}
	b.WriteString(`
Respond with JSON only, no prose, matching exactly this structure:
{
  "destination": string,
  "duration": number of days,
  "totalBudget": number,
  "costBreakdown": {"flights": number, "accommodation": number, "food": number, "activities": number, "transportation": number},
  "dailyItinerary": [
    {
      "day": number,
      "title": string,
      "activities": [{"time": "09:00", "activity": string, "location": string, "description": string, "duration": string, "cost": number, "tips": string}],
      "meals": {"breakfast": string, "lunch": string, "dinner": string},
      "estimatedDailyCost": number
    }
  ],
  "travelTips": [string],
  "packingList": [string],
  "budgetSummary": {"totalEstimated": number}
}
All costs are whole US dollars. The cost breakdown must not exceed the total budget.`)
	return b.String()
}

// ParseItinerary decodes a model response. The response must contain at
// least one day; missing totals are filled from req.
func ParseItinerary(raw string, req ItineraryRequest) (*Itinerary, error) {
	var it Itinerary
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeGeneration, err, "itinerary is not valid JSON")
	}
	if len(it.DailyItinerary) == 0 {
		return nil, apperr.New(apperr.ErrCodeGeneration, "itinerary has no days")
	}
	if it.Destination == "" {
		it.Destination = req.Destination
	}
	if it.Duration == 0 {
		it.Duration = len(it.DailyItinerary)
	}
	if it.TotalBudget == 0 {
		it.TotalBudget = req.Budget
	}
	if it.BudgetSummary.TotalEstimated == 0 {
		it.BudgetSummary.TotalEstimated = it.CostBreakdown.Total()
	}
	it.Source = SourceAI
	return &it, nil
}

// Budget shares in percent. Transportation takes the remainder.
var budgetShares = struct{ flights, accommodation, food, activities int }{35, 30, 15, 12}

// SplitBudget divides budget into categories that sum to exactly budget.
func SplitBudget(budget int) CostBreakdown {
	c := CostBreakdown{
		Flights:       budget * budgetShares.flights / 100,
		Accommodation: budget * budgetShares.accommodation / 100,
		Food:          budget * budgetShares.food / 100,
		Activities:    budget * budgetShares.activities / 100,
	}
	c.Transportation = budget - c.Flights - c.Accommodation - c.Food - c.Activities
	return c
}

// ItineraryFallback builds a template plan from the destination guide.
// The cost breakdown sums to the requested budget.
func (d *Data) ItineraryFallback(req ItineraryRequest) *Itinerary {
	guide, _ := d.Guide(req.Destination)
	weather, _ := d.WeatherFor(req.Destination)
	costs := SplitBudget(req.Budget)

	daily := (costs.Food + costs.Activities + costs.Transportation) / req.Days
	perActivity := costs.Activities / req.Days / 3

	days := make([]Day, 0, req.Days)
	for i := 0; i < req.Days; i++ {
		sight := pick(guide.Attractions, i)
		activity := pick(guide.Activities, i)
		hood := pick(guide.Neighborhoods, i)
		days = append(days, Day{
			Day:   i + 1,
			Title: fmt.Sprintf("Day %d: %s", i+1, sight),
			Activities: []Activity{
				{Time: "09:00", Activity: "Visit " + sight, Location: sight, Description: "Arrive early to beat the crowds.", Duration: "3 hours", Cost: perActivity, Tips: pick(guide.Tips, i)},
				{Time: "14:00", Activity: activity, Location: guide.Name, Description: "An afternoon with the locals.", Duration: "3 hours", Cost: perActivity},
				{Time: "19:00", Activity: "Evening in " + hood, Location: hood, Description: "Wander the streets and find dinner.", Duration: "2 hours", Cost: perActivity},
			},
			Meals: map[string]string{
				"breakfast": pick(guide.Food, i+2),
				"lunch":     pick(guide.Food, i),
				"dinner":    pick(guide.Food, i+1),
			},
			EstimatedDailyCost: daily,
		})
	}

	return &Itinerary{
		Destination:    guide.Name,
		Duration:       req.Days,
		TotalBudget:    req.Budget,
		CostBreakdown:  costs,
		DailyItinerary: days,
		TravelTips:     append([]string(nil), guide.Tips...),
		PackingList:    packingList(weather),
		BudgetSummary:  BudgetSummary{TotalEstimated: costs.Total()},
		Source:         SourceFallback,
	}
}

func pick(list []string, i int) string {
	if len(list) == 0 {
		return ""
	}
	return list[i%len(list)]
}

func packingList(w Weather) []string {
	items := []string{"Passport and travel documents", "Phone charger and adapter", "Comfortable walking shoes"}
	switch {
	case w.Temperature >= 24:
		items = append(items, "Sunscreen", "Sunglasses", "Light breathable clothing")
	case w.Temperature <= 10:
		items = append(items, "Warm coat", "Gloves and scarf", "Thermal layers")
	default:
		items = append(items, "Light jacket", "Layers for cool evenings")
	}
	switch w.Condition {
	case "Rainy", "Drizzle", "Stormy":
		items = append(items, "Compact umbrella", "Waterproof jacket")
	case "Snowy":
		items = append(items, "Waterproof boots")
	}
	return items
}
