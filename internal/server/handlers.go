package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/app"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/catalog"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/metrics"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/nutrition"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/planner"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/render"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

// planPayload is the JSON body of the plan endpoints.
type planPayload struct {
	Name       string             `json:"name"`
	Days       int                `json:"days"`
	Meals      []string           `json:"meals"`
	Location   string             `json:"location"`
	DietType   string             `json:"dietType"`
	Conditions []string           `json:"conditions"`
	Allergies  []string           `json:"allergies"`
	Calories   int                `json:"calories"`
	Profile    *nutrition.Profile `json:"profile"`
}

// toInput applies the boundary rules: days must be given and is then clamped,
// duplicate meals are dropped and blank allergies ignored.
func (p planPayload) toInput() (app.PlanInput, error) {
	if p.Days == 0 {
		return app.PlanInput{}, fmt.Errorf("%w: days is required", app.ErrInvalidRequest)
	}
	meals, err := shared.ParseMealSlots(p.Meals)
	if err != nil {
		return app.PlanInput{}, fmt.Errorf("%w: %w", app.ErrInvalidRequest, err)
	}

	conditions := make([]catalog.Condition, 0, len(p.Conditions))
	for _, c := range p.Conditions {
		conditions = append(conditions, catalog.Condition(strings.ToLower(strings.TrimSpace(c))))
	}
	allergies := make([]string, 0, len(p.Allergies))
	for _, a := range p.Allergies {
		if a = strings.TrimSpace(a); a != "" {
			allergies = append(allergies, a)
		}
	}

	return app.PlanInput{
		Request: planner.Request{
			Days:       planner.ClampDays(p.Days),
			Meals:      meals,
			Location:   strings.TrimSpace(p.Location),
			DietType:   catalog.DietType(strings.ToLower(strings.TrimSpace(p.DietType))),
			Conditions: conditions,
			Allergies:  allergies,
		},
		Calories: p.Calories,
		Profile:  p.Profile,
	}, nil
}

func (s *Server) generate(c *gin.Context) (*app.PlanOutput, planPayload, bool) {
	var payload planPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return nil, payload, false
	}
	in, err := payload.toInput()
	if err != nil {
		s.writeError(c, err)
		return nil, payload, false
	}
	in.Tips = c.Query("tips") == "true"
	in.Shopping = c.Query("shopping") == "true"

	out, err := s.app.Generate(c.Request.Context(), in)
	if err != nil {
		s.writeError(c, err)
		return nil, payload, false
	}
	return out, payload, true
}

func (s *Server) handlePlan(c *gin.Context) {
	out, _, ok := s.generate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handlePlanHTML(c *gin.Context) {
	out, payload, ok := s.generate(c)
	if !ok {
		return
	}
	meals, _ := shared.ParseMealSlots(payload.Meals)

	var buf bytes.Buffer
	err := render.HTML(&buf, render.View{
		Name:     payload.Name,
		Location: catalog.NormalizeLocation(payload.Location),
		Meals:    meals,
		Result:   out.Result,
		Summary:  out.Calories,
		Tips:     out.Tips,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleLocations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"locations": s.app.Locations()})
}

func (s *Server) handleDistribution(c *gin.Context) {
	calories, err := strconv.Atoi(c.Query("calories"))
	if err != nil || calories <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "calories must be a positive integer"})
		return
	}
	meals, err := shared.ParseMealSlots(strings.Split(c.DefaultQuery("meals", "breakfast,lunch,dinner"), ","))
	if err != nil || len(meals) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meals must list known meal slots"})
		return
	}
	c.JSON(http.StatusOK, nutrition.Summarize(calories, meals))
}

func (s *Server) handleDailyMetrics(c *gin.Context) {
	if s.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics are disabled"})
		return
	}
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
		return
	}

	ctx := c.Request.Context()
	var (
		runs  []metrics.DailyRuns
		usage []metrics.DailyUsage
		top   []metrics.LocationCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { runs, err = s.metrics.GetDailyRuns(gctx, days); return })
	g.Go(func() (err error) { usage, err = s.metrics.GetDailyUsage(gctx, days); return })
	g.Go(func() (err error) { top, err = s.metrics.GetTopLocations(gctx, days, 5); return })
	if err := g.Wait(); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days":          days,
		"runs":          runs,
		"usage":         usage,
		"top_locations": top,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"system": metrics.GetSysHealth(s.opts.DatabasePath),
	})
}

// writeError maps domain errors to status codes. Unexpected errors are logged
// and answered with a generic message.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnknownLocation):
		key := unknownKey(err)
		s.logger.Info("unsupported location", zap.String("location", key))
		c.JSON(http.StatusNotFound, gin.H{"error": "unsupported location: " + key})
	case errors.Is(err, app.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		s.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// unknownKey extracts the location key from an ErrUnknownLocation chain.
func unknownKey(err error) string {
	msg := err.Error()
	marker := catalog.ErrUnknownLocation.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return ""
}
