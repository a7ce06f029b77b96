// Package server exposes networks, schedules, costs and stored runs over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/olealberto/msds-460-assignment-two/internal/loader"
	"github.com/olealberto/msds-460-assignment-two/internal/network"
	"github.com/olealberto/msds-460-assignment-two/internal/runner"
	"github.com/olealberto/msds-460-assignment-two/internal/solver"
	"github.com/olealberto/msds-460-assignment-two/internal/store"
)

// Config holds server configuration.
type Config struct {
	Network     *network.Network // served by /network and /scenarios
	Store       store.Store      // optional; enables /runs and ?save=true
	Parallel    bool
	MaxParallel int
	Logger      *slog.Logger
}

type server struct {
	cfg Config
	log *slog.Logger
}

// New builds the fiber app.
func New(cfg Config) *fiber.App {
	if cfg.Network == nil {
		cfg.Network = network.Builtin()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	s := &server{cfg: cfg, log: cfg.Logger}

	app := fiber.New()
	app.Use(s.logRequests)

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ── Network ───────────────────────────────────────────────────────
	app.Get("/network", s.getNetwork)

	// ── Scenarios ─────────────────────────────────────────────────────
	app.Get("/scenarios", s.getScenarios)
	app.Get("/scenarios/:scenario", s.getScenario)
	app.Post("/solve", s.solve)

	// ── Runs ──────────────────────────────────────────────────────────
	if cfg.Store != nil {
		app.Get("/runs", s.listRuns)
		app.Get("/runs/:id", s.getRun)
		app.Delete("/runs/:id", s.deleteRun)
	}

	return app
}

// Serve listens on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, cfg Config) error {
	app := New(cfg)
	errc := make(chan error, 1)
	go func() {
		errc <- app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return app.ShutdownWithTimeout(5 * time.Second)
	}
}

func (s *server) logRequests(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Debug("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"elapsed", time.Since(start))
	return err
}

type networkView struct {
	Name       string              `json:"name"`
	Activities []*network.Activity `json:"activities"`
	Roles      []network.Role      `json:"roles"`
	Edges      []network.Edge      `json:"edges"`
	TopoOrder  []string            `json:"topo_order"`
}

func (s *server) getNetwork(c fiber.Ctx) error {
	n := s.cfg.Network
	return c.JSON(networkView{
		Name:       n.Name(),
		Activities: n.Activities(),
		Roles:      n.RoleList(),
		Edges:      n.Edges(),
		TopoOrder:  n.TopoOrder(),
	})
}

type runView struct {
	ID        string          `json:"id,omitempty"`
	Network   string          `json:"network"`
	Scenarios []runner.Result `json:"scenarios"`
}

func (s *server) getScenarios(c fiber.Ctx) error {
	return s.runAll(c, s.cfg.Network)
}

func (s *server) getScenario(c fiber.Ctx) error {
	sc, err := network.ParseScenario(c.Params("scenario"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	r := runner.New(s.cfg.Network, runner.Config{Logger: s.log})
	results, err := r.Run(c.Context(), sc)
	if err != nil {
		body := fiber.Map{"error": err.Error()}
		if len(results) == 1 {
			body["result"] = results[0]
		}
		return c.Status(statusFor(err)).JSON(body)
	}
	return c.JSON(results[0])
}

// solve runs every scenario on a network posted in the JSON input format.
func (s *server) solve(c fiber.Ctx) error {
	def, err := loader.ParseJSON(c.Body())
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	n, err := network.New(def)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return s.runAll(c, n)
}

// runAll always answers 200; per-scenario failures are reported in the body.
func (s *server) runAll(c fiber.Ctx, n *network.Network) error {
	r := runner.New(n, runner.Config{
		Parallel:    s.cfg.Parallel,
		MaxParallel: s.cfg.MaxParallel,
		Logger:      s.log,
	})
	results, err := r.Run(c.Context())
	if results == nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	view := runView{Network: n.Name(), Scenarios: results}
	if c.Query("save") == "true" && s.cfg.Store != nil {
		run := store.NewRun(n.Name(), results)
		if err := s.cfg.Store.Save(c.Context(), run); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		view.ID = run.ID
		return c.Status(fiber.StatusCreated).JSON(view)
	}
	return c.JSON(view)
}

func (s *server) listRuns(c fiber.Ctx) error {
	runs, err := s.cfg.Store.List(c.Context())
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if runs == nil {
		runs = []store.Summary{}
	}
	return c.JSON(runs)
}

func (s *server) getRun(c fiber.Ctx) error {
	run, err := s.cfg.Store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(run)
}

func (s *server) deleteRun(c fiber.Ctx) error {
	if err := s.cfg.Store.Delete(c.Context(), c.Params("id")); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, network.ErrConfig), errors.Is(err, solver.ErrInfeasible):
		return fiber.StatusUnprocessableEntity
	default: // solver.ErrSolver and anything unexpected
		return fiber.StatusInternalServerError
	}
}
