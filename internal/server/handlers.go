package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sync/errgroup"

	"github.com/nameeraazam/health-wellness-project/internal/planner"
	"github.com/nameeraazam/health-wellness-project/internal/utility"
)

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

// MealPlanResponse carries a generated (or fallback) meal plan plus any
// non-fatal notices raised along the way.
type MealPlanResponse struct {
	Plan        []planner.MealDay `json:"plan"`
	Notices     []planner.Notice  `json:"notices,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// WorkoutPlanResponse mirrors MealPlanResponse for workout plans.
type WorkoutPlanResponse struct {
	Plan        []planner.WorkoutDay `json:"plan"`
	Notices     []planner.Notice     `json:"notices,omitempty"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// AllPlansResponse bundles both plans for the combined endpoint.
type AllPlansResponse struct {
	MealPlan    MealPlanResponse    `json:"meal_plan"`
	WorkoutPlan WorkoutPlanResponse `json:"workout_plan"`
}

// ProgressRequest is the payload for logging a progress update.
type ProgressRequest struct {
	Update string `json:"update"`
}

/* =================================================================================
									HANDLERS
=================================================================================*/

// SaveProfileHandler validates and stores the submitted profile, replacing
// any previous one for this session.
func (s *Server) SaveProfileHandler(c echo.Context) error {
	var profile planner.Profile
	if err := c.Bind(&profile); err != nil {
		log.Error().Err(err).Msg("Failed to bind profile request")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if err := profile.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	sessionState(c).SetProfile(profile)
	log.Info().Str("fitness_level", profile.FitnessLevel).Msg("Profile saved")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Profile saved successfully",
		"profile": profile,
	})
}

// GetProfileHandler returns the stored profile for this session.
func (s *Server) GetProfileHandler(c echo.Context) error {
	profile, ok := sessionState(c).Profile()
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No profile saved yet"})
	}
	return c.JSON(http.StatusOK, profile)
}

// GenerateMealPlanHandler runs the meal-plan generator and replaces the
// stored plan wholesale. Generation failures never fail the request; the
// fallback plan and notices come back with status 200. The requireProfile
// middleware guards the route, so the profile lookup cannot miss.
func (s *Server) GenerateMealPlanHandler(c echo.Context) error {
	profile, _ := sessionState(c).Profile()

	plan, notices := planner.GenerateMealPlan(c.Request().Context(), s.generator, profile)
	sessionState(c).SetMealPlan(plan)

	return c.JSON(http.StatusOK, MealPlanResponse{
		Plan:        plan,
		Notices:     notices,
		GeneratedAt: time.Now(),
	})
}

// GetMealPlanHandler returns the currently stored meal plan.
func (s *Server) GetMealPlanHandler(c echo.Context) error {
	plan := sessionState(c).MealPlan()
	if plan == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No meal plan generated yet"})
	}
	return c.JSON(http.StatusOK, MealPlanResponse{Plan: plan})
}

// GenerateWorkoutPlanHandler runs the workout-plan generator and replaces the
// stored plan wholesale.
func (s *Server) GenerateWorkoutPlanHandler(c echo.Context) error {
	profile, _ := sessionState(c).Profile()

	plan, notices := planner.GenerateWorkoutPlan(c.Request().Context(), s.generator, profile)
	sessionState(c).SetWorkoutPlan(plan)

	return c.JSON(http.StatusOK, WorkoutPlanResponse{
		Plan:        plan,
		Notices:     notices,
		GeneratedAt: time.Now(),
	})
}

// GetWorkoutPlanHandler returns the currently stored workout plan.
func (s *Server) GetWorkoutPlanHandler(c echo.Context) error {
	plan := sessionState(c).WorkoutPlan()
	if plan == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No workout plan generated yet"})
	}
	return c.JSON(http.StatusOK, WorkoutPlanResponse{Plan: plan})
}

// GenerateAllPlansHandler generates both plans in parallel. Each generator is
// independent and pure, so the two calls share nothing but the profile.
func (s *Server) GenerateAllPlansHandler(c echo.Context) error {
	profile, _ := sessionState(c).Profile()

	var (
		mealPlan       []planner.MealDay
		mealNotices    []planner.Notice
		workoutPlan    []planner.WorkoutDay
		workoutNotices []planner.Notice
	)

	g, ctx := errgroup.WithContext(c.Request().Context())

	g.Go(func() error {
		mealPlan, mealNotices = planner.GenerateMealPlan(ctx, s.generator, profile)
		return nil
	})
	g.Go(func() error {
		workoutPlan, workoutNotices = planner.GenerateWorkoutPlan(ctx, s.generator, profile)
		return nil
	})

	// Generators report problems through notices, never through errors.
	_ = g.Wait()

	state := sessionState(c)
	state.SetMealPlan(mealPlan)
	state.SetWorkoutPlan(workoutPlan)

	now := time.Now()
	return c.JSON(http.StatusOK, AllPlansResponse{
		MealPlan:    MealPlanResponse{Plan: mealPlan, Notices: mealNotices, GeneratedAt: now},
		WorkoutPlan: WorkoutPlanResponse{Plan: workoutPlan, Notices: workoutNotices, GeneratedAt: now},
	})
}

// AddProgressHandler appends one entry to the session's progress log.
func (s *Server) AddProgressHandler(c echo.Context) error {
	var req ProgressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	entry, err := sessionState(c).AddProgress(req.Update)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Progress logged successfully",
		"entry":   entry,
	})
}

// GetProgressHandler returns the session's progress history in insertion
// order. An optional ?limit=N query parameter trims the result to the N most
// recent entries.
func (s *Server) GetProgressHandler(c echo.Context) error {
	entries := sessionState(c).Progress()
	total := len(entries)
	if limit := utility.ParseIntParam(c.QueryParam("limit"), 0); limit > 0 && limit < total {
		entries = entries[total-limit:]
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   total,
	})
}

// healthHandler collects and returns system-level metrics. Each probe can fail
// on exotic platforms, so missing readings degrade to "n/a" instead of
// failing the endpoint.
func (s *Server) healthHandler(c echo.Context) error {
	// 1. Memory Stats
	memUsage := "n/a"
	if v, err := mem.VirtualMemory(); err == nil {
		memUsage = fmt.Sprintf("%.2f%%", v.UsedPercent)
	}

	// 2. CPU Usage (instantaneous)
	cpuUsage := "n/a"
	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		cpuUsage = fmt.Sprintf("%.2f%%", cpuPercent[0])
	}

	// 3. Host/Runtime Info
	osName, platform, hostname := "n/a", "n/a", "n/a"
	if hInfo, err := host.Info(); err == nil {
		osName, platform, hostname = hInfo.OS, hInfo.Platform, hInfo.Hostname
	}
	uptime := time.Since(s.startTime).String()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "online",
		"runtime": map[string]interface{}{
			"uptime":     uptime,
			"start_time": s.startTime.Format(time.RFC3339),
			"os":         osName,
			"platform":   platform,
			"hostname":   hostname,
		},
		"cpu": map[string]interface{}{
			"usage_percent": cpuUsage,
		},
		"memory": map[string]interface{}{
			"used_percent": memUsage,
		},
		"sessions": map[string]interface{}{
			"active": s.store.Len(),
		},
	})
}
