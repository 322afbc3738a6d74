package server

import (
	"context"
	"time"

	"recordhub/internal/database"
	redispkg "recordhub/pkg/redis"

	"github.com/gofiber/fiber/v2"
)

const (
	statusHealthy     = "healthy"
	statusUnhealthy   = "unhealthy"
	statusUnavailable = "unavailable"
)

// LivenessCheck reports that the process is serving requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck pings the database and, when configured, Redis. Redis being
// down degrades events only, so it does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := statusHealthy
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = statusUnhealthy
	}

	redisStatus := statusUnavailable
	if s.redis != nil {
		redisStatus = statusHealthy
		if err := redispkg.Ping(ctx, s.redis); err != nil {
			redisStatus = statusUnhealthy
		}
	}

	status := fiber.StatusOK
	overall := statusHealthy
	if dbStatus != statusHealthy {
		status = fiber.StatusServiceUnavailable
		overall = statusUnhealthy
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overall,
		"version": appVersion,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// HealthCheck godoc
// @Summary Service health
// @Description Reports database status and the number of registered users
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if err := database.Ping(ctx, s.db); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   statusUnhealthy,
			"database": statusUnhealthy,
		})
	}

	count, err := s.userService.Count(ctx)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   statusUnhealthy,
			"database": statusUnhealthy,
		})
	}

	return c.JSON(fiber.Map{
		"status":   statusHealthy,
		"database": statusHealthy,
		"users":    count,
		"version":  appVersion,
	})
}
