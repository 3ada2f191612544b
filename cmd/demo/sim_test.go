package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HoldemServer/internal/game/engine"
	"HoldemServer/internal/game/table"
)

// 🧪 机器人桌面跑完之后筹码总数不变
func TestSimulationConservesChips(t *testing.T) {
	sim := newSimulation(4, 200, 5, 10, 42)

	var settled []engine.HandResult
	hands := sim.run(30, func(r engine.HandResult) { settled = append(settled, r) })

	assert.Positive(t, hands)
	assert.NotEmpty(t, settled)

	var total int64
	for _, p := range sim.eng.Seats() {
		total += p.Chips
	}
	assert.Equal(t, int64(800), total+sim.eng.Pot())
}

// 🧪 两个短码机器人一定能打到只剩一人，全下不会让循环提前退出
func TestSimulationStopsAtOneStack(t *testing.T) {
	sim := newSimulation(2, 20, 5, 10, 3)
	hands := sim.run(1000, nil)

	require.Less(t, hands, 1000, "twenty-chip stacks at 5/10 cannot last a thousand hands")
	require.Equal(t, table.Showdown, sim.eng.Phase())
	require.Equal(t, 1, sim.eng.Playable())
	assert.Zero(t, sim.eng.Pot())

	w, ok := sim.winner()
	require.True(t, ok)
	assert.Equal(t, int64(40), w.Chips)
}

func TestShowcaseRenders(t *testing.T) {
	assert.NoError(t, showcase())
}
