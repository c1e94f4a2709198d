package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/walkbounds/internal/logger"
	"github.com/Faultbox/walkbounds/internal/world"
	"github.com/Faultbox/walkbounds/pkg/math"
)

// Simulated walks update at about 60 Hz for at most two minutes.
const (
	walkTickMs   = 16
	maxWalkTicks = 60 * 120
)

func (a *app) cmdBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	n := fs.Int("n", 1000, "Number of random path queries")
	workers := fs.Int("workers", runtime.NumCPU(), "Concurrent planners")
	seed := fs.Uint64("seed", 1, "Random seed for endpoint selection")
	walk := fs.Bool("walk", false, "Follow each path with a movement controller")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return usageError("navtool bench [-n N] [-workers W] [-seed S] [-walk] <scene>")
	}
	s, err := a.loadScene(fs.Arg(0))
	if err != nil {
		return err
	}

	pairs, err := randomPairs(s.WalkMap, *n, rand.New(rand.NewPCG(*seed, *seed)))
	if err != nil {
		return err
	}

	var found, unreachable, waypoints, arrived, stuck atomic.Int64
	var g errgroup.Group
	g.SetLimit(max(*workers, 1))

	start := time.Now()
	for _, pair := range pairs {
		g.Go(func() error {
			path, err := s.PathFinder.FindPath(pair[0], pair[1])
			if errors.Is(err, world.ErrUnreachable) {
				unreachable.Add(1)
				return nil
			}
			if err != nil {
				return err
			}
			found.Add(1)
			waypoints.Add(int64(len(path)))

			if !*walk {
				return nil
			}
			mc, err := a.newController(s)
			if err != nil {
				return err
			}
			mc.SetPosition(pair[0])
			if _, err := mc.MoveTo(pair[1]); err != nil {
				return err
			}
			for tick := 0; tick < maxWalkTicks && mc.IsFollowingPath; tick++ {
				mc.Update(walkTickMs)
			}
			if mc.IsFollowingPath {
				stuck.Add(1)
			} else {
				arrived.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	perQuery := elapsed / time.Duration(max(len(pairs), 1))
	fmt.Printf("Queries:      %d (%d workers)\n", len(pairs), *workers)
	fmt.Printf("Found:        %d\n", found.Load())
	fmt.Printf("Unreachable:  %d\n", unreachable.Load())
	if f := found.Load(); f > 0 {
		fmt.Printf("Waypoints:    %.1f avg\n", float64(waypoints.Load())/float64(f))
	}
	if *walk {
		fmt.Printf("Walked:       %d arrived, %d stuck\n", arrived.Load(), stuck.Load())
	}
	fmt.Printf("Elapsed:      %v (%v per query)\n", elapsed, perQuery)

	logger.Named("bench").Info("bench complete",
		zap.String("scene", s.Name),
		zap.Int("queries", len(pairs)),
		zap.Int64("found", found.Load()),
		zap.Duration("elapsed", elapsed))
	return nil
}

// randomPairs picks count start/goal pairs at walkable cell centers.
func randomPairs(m *world.WalkMap, count int, r *rand.Rand) ([][2]math.Vec3, error) {
	if m.WalkableCount() == 0 {
		return nil, fmt.Errorf("walk map has no walkable cells")
	}

	pick := func() math.Vec3 {
		for {
			x, y := r.IntN(m.Width()), r.IntN(m.Height())
			if m.WalkableCell(x, y) {
				return m.CellCenter(x, y, 0)
			}
		}
	}

	pairs := make([][2]math.Vec3, count)
	for i := range pairs {
		pairs[i] = [2]math.Vec3{pick(), pick()}
	}
	return pairs, nil
}
