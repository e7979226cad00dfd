// Package game implements the authoritative game logic for a Jeopardy-style
// trivia match: board progression, buzz arbitration, scoring and the
// top-level phase machine.
//
// The main type is Game, which owns all mutable match state. Every external
// input (a network message, a bot decision, a timer firing) is applied
// through Game.HandleAction, which serializes processing so that racing
// inputs are linearized into a strict order. Buzz fairness depends on this:
// the first buzz *processed* wins, never the one with the smallest
// client-reported timestamp.
//
// # Deterministic Testing
//
// All timing goes through an injected quartz.Clock. Production code passes
// quartz.NewReal(); tests pass quartz.NewMock(t) and advance time explicitly:
//
//	clock := quartz.NewMock(t)
//	g := game.New(cfg, pack, game.WithClock(clock))
//	clock.Advance(300 * time.Millisecond)
//
// RNG is injected the same way via randutil.New(seed) for reproducible
// picker selection and daily double placement.
package game
