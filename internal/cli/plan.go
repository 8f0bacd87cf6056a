package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/draddo11/Holiday/pkg/integrations/gemini"
	"github.com/draddo11/Holiday/pkg/travel"
)

// planCommand creates the plan command, which prints a trip itinerary.
func (c *CLI) planCommand() *cobra.Command {
	var (
		req    travel.ItineraryRequest
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "plan DESTINATION",
		Short: "Plan a trip itinerary",
		Long: `Plan a day-by-day trip itinerary.

With GEMINI_API_KEY set the plan is written by the language model; otherwise,
or when the model fails, a template plan is built from the destination guide.`,
		Example: `  travelsnap plan Tokyo --days 5 --budget 3500 --interest food --interest temples`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Destination = args[0]
			if err := req.Normalize(); err != nil {
				return err
			}
			it, err := c.runPlan(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(it)
			}
			printItinerary(it)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Origin, "origin", travel.DefaultOrigin, "departure city")
	cmd.Flags().IntVar(&req.Budget, "budget", travel.DefaultBudget, "total budget in USD")
	cmd.Flags().IntVar(&req.Days, "days", travel.DefaultDays, fmt.Sprintf("trip length in days (max %d)", travel.MaxDays))
	cmd.Flags().StringArrayVar(&req.Interests, "interest", nil, "interest to plan around (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the itinerary as JSON")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, req travel.ItineraryRequest) (*travel.Itinerary, error) {
	data := travel.Default()

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Gemini.APIKey == "" {
		c.Logger.Debug("no gemini key, using template plan")
		return data.ItineraryFallback(req), nil
	}
	g, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.TextModel, cfg.Gemini.ImageModels)
	if err != nil {
		return nil, err
	}
	g.Logger = c.Logger
	return planWith(ctx, g, data, req, time.Now()), nil
}

// planWith asks g for a plan and falls back to the template plan.
func planWith(ctx context.Context, g *gemini.Client, data *travel.Data, req travel.ItineraryRequest, now time.Time) *travel.Itinerary {
	logger := loggerFromContext(ctx)
	guide, _ := data.Guide(req.Destination)
	prompt := travel.ItineraryPrompt(req, guide,
		data.FlightFallback(req.Origin, req.Destination, now),
		data.HotelFallback(req.Destination))

	spin := newSpinnerWithContext(ctx, "Planning "+travel.DisplayName(req.Destination)+"...")
	spin.Start()
	raw, err := g.GenerateJSON(ctx, prompt)
	spin.Stop()
	if err == nil {
		var it *travel.Itinerary
		if it, err = travel.ParseItinerary(raw, req); err == nil {
			return it
		}
	}
	logger.Warn("itinerary generation failed, using template", "err", err)
	return data.ItineraryFallback(req)
}

func printItinerary(it *travel.Itinerary) {
	fmt.Println(StyleTitle.Render(fmt.Sprintf("%s · %d days · $%d", it.Destination, it.Duration, it.TotalBudget)))
	if it.Source == travel.SourceFallback {
		printDetail("template plan")
	}
	fmt.Println()

	for _, d := range it.DailyItinerary {
		fmt.Println(StyleHighlight.Render(d.Title))
		for _, a := range d.Activities {
			line := fmt.Sprintf("%s  %s", StyleDim.Render(a.Time), a.Activity)
			if a.Cost > 0 {
				line += " " + StyleNumber.Render(fmt.Sprintf("$%d", a.Cost))
			}
			fmt.Println("  " + line)
		}
		if len(d.Meals) > 0 {
			meals := make([]string, 0, len(d.Meals))
			for _, k := range []string{"breakfast", "lunch", "dinner"} {
				if v, ok := d.Meals[k]; ok && v != "" {
					meals = append(meals, k+": "+v)
				}
			}
			printDetail("%s", strings.Join(meals, " · "))
		}
		fmt.Println()
	}

	cb := it.CostBreakdown
	for _, kv := range []struct {
		name string
		cost int
	}{
		{"flights", cb.Flights},
		{"stay", cb.Accommodation},
		{"food", cb.Food},
		{"activities", cb.Activities},
		{"transport", cb.Transportation},
	} {
		printKeyValue(kv.name, fmt.Sprintf("$%d", kv.cost))
	}
	if len(it.PackingList) > 0 {
		fmt.Println()
		printInfo("Pack: %s", strings.Join(it.PackingList, ", "))
	}
}
