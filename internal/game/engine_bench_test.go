package game

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

func BenchmarkEngineStep(b *testing.B) {
	testCases := []struct {
		name       string
		size       int
		numPlayers int
	}{
		{"Small_40x30", 40, 4},
		{"Medium_100x80", 100, 8},
		{"Large_200x150", 200, 16},
	}

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			cfg := DefaultGameConfig(tc.size, tc.size*3/4, tc.numPlayers, 12345)
			cfg.Spawn = SpawnParams{Ticks: 1, Radius: 2}
			engine, err := NewEngine(context.Background(), cfg)
			if err != nil {
				b.Fatal(err)
			}
			rng := rand.New(rand.NewSource(1))
			if err := engine.Step(context.Background(), GenerateRandomActions(engine, rng)); err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			for i := 0; i < b.N && !engine.IsGameOver(); i++ {
				if err := engine.Step(context.Background(), GenerateRandomActions(engine, rng)); err != nil {
					b.Fatal(err)
				}
			}
			b.ReportMetric(float64(engine.Scheduler().Len()), "executors")
		})
	}
}

func BenchmarkNewEngine(b *testing.B) {
	for _, size := range []int{50, 150} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := NewEngine(context.Background(), DefaultGameConfig(size, size, 8, int64(i+1))); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSnapshot(b *testing.B) {
	engine, err := NewEngine(context.Background(), DefaultGameConfig(200, 150, 8, 7))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := core.DecodeOwners(engine.Snapshot()); err != nil {
			b.Fatal(err)
		}
	}
}
