// Copyright 2026 groupwise Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package group

import (
	"testing"

	"github.com/groupwise-io/groupwise/cf"
	"github.com/groupwise-io/groupwise/config"
	"github.com/groupwise-io/groupwise/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEpsilon = 1e-6

type ratingRow struct {
	userId, itemId int
	rating         float64
}

func newTestAggregator(t *testing.T, rows []ratingRow, members []int) (*Aggregator, *cf.Engine) {
	matrix := dataset.NewMatrix()
	for _, row := range rows {
		require.NoError(t, matrix.Add(row.userId, row.itemId, row.rating))
	}
	engine, err := cf.NewEngine(matrix, config.CFConfig{
		Metric:     "cosine",
		TopK:       10,
		MinOverlap: 2,
	})
	require.NoError(t, err)
	aggregator, err := NewAggregator(engine, matrix, members)
	require.NoError(t, err)
	return aggregator, engine
}

// fixture: user 2's rating for item 21 is real, their rating for item 22
// is a fresh prediction through neighbor 3
var aggregateRows = []ratingRow{
	{1, 10, 5}, {1, 11, 4},
	{2, 10, 4}, {2, 11, 4}, {2, 21, 2},
	{3, 10, 4}, {3, 11, 4}, {3, 22, 5},
}

var aggregateRecs = map[int][]cf.Score{
	1: {{ItemId: 20, Score: 5}, {ItemId: 21, Score: 3}, {ItemId: 22, Score: 4.5}},
	2: {{ItemId: 20, Score: 1}},
}

func TestAverageAggregate(t *testing.T) {
	aggregator, _ := newTestAggregator(t, aggregateRows, []int{1, 2})
	aggregation, err := aggregator.Aggregate(aggregateRecs)
	require.NoError(t, err)
	average := aggregation.Average()
	require.Len(t, average, 3)
	// item 22: user 1 predicted 4.5, user 2 predicted via neighbor 3:
	// mean(2) + (5 - mean(3)) = 10/3 + 2/3 = 4
	assert.Equal(t, 22, average[0].ItemId)
	assert.InDelta(t, 4.25, average[0].Score, testEpsilon)
	// item 20: both predicted, (5+1)/2
	assert.Equal(t, 20, average[1].ItemId)
	assert.InDelta(t, 3.0, average[1].Score, testEpsilon)
	// item 21: user 2's real rating substitutes, (3+2)/2
	assert.Equal(t, 21, average[2].ItemId)
	assert.InDelta(t, 2.5, average[2].Score, testEpsilon)
}

func TestLeastMiseryAggregate(t *testing.T) {
	aggregator, _ := newTestAggregator(t, aggregateRows, []int{1, 2})
	aggregation, err := aggregator.Aggregate(aggregateRecs)
	require.NoError(t, err)
	leastMisery := aggregation.LeastMisery()
	require.Len(t, leastMisery, 3)
	assert.Equal(t, cf.Score{ItemId: 22, Score: 4.0}, leastMisery[0])
	assert.Equal(t, cf.Score{ItemId: 21, Score: 2.0}, leastMisery[1])
	assert.Equal(t, cf.Score{ItemId: 20, Score: 1.0}, leastMisery[2])
}

func TestStrategiesDiverge(t *testing.T) {
	// an item with high variance across members must rank differently
	// under the two strategies
	aggregator, _ := newTestAggregator(t, aggregateRows, []int{1, 2})
	aggregation, err := aggregator.Aggregate(aggregateRecs)
	require.NoError(t, err)
	average := aggregation.Average()
	leastMisery := aggregation.LeastMisery()
	avg20, _ := aggregation.AverageScore(20)
	assert.InDelta(t, 3.0, avg20, testEpsilon)
	assert.NotEqual(t, cf.Items(average), cf.Items(leastMisery))
}

func TestHybridBlending(t *testing.T) {
	aggregator, _ := newTestAggregator(t, aggregateRows, []int{1, 2})
	aggregation, err := aggregator.Aggregate(aggregateRecs)
	require.NoError(t, err)
	// alpha 0 reduces to pure average, alpha 1 to pure least misery
	assert.Equal(t, aggregation.Average(), aggregation.Hybrid(0))
	assert.Equal(t, aggregation.LeastMisery(), aggregation.Hybrid(1))
	blended := aggregation.Hybrid(0.5)
	require.Len(t, blended, 3)
	assert.Equal(t, 22, blended[0].ItemId)
	assert.InDelta(t, (4.25+4.0)/2, blended[0].Score, testEpsilon)
	assert.Equal(t, 21, blended[1].ItemId)
	assert.InDelta(t, 2.25, blended[1].Score, testEpsilon)
	assert.Equal(t, 20, blended[2].ItemId)
	assert.InDelta(t, 2.0, blended[2].Score, testEpsilon)
}

func TestAggregateDeduplicatesCandidates(t *testing.T) {
	aggregator, _ := newTestAggregator(t, aggregateRows, []int{1, 2})
	aggregation, err := aggregator.Aggregate(map[int][]cf.Score{
		1: {{ItemId: 20, Score: 5}},
		2: {{ItemId: 20, Score: 1}},
	})
	require.NoError(t, err)
	assert.Len(t, aggregation.Average(), 1)
}

func TestAggregateMissingMember(t *testing.T) {
	aggregator, _ := newTestAggregator(t, aggregateRows, []int{1, 2})
	_, err := aggregator.Aggregate(map[int][]cf.Score{
		1: {{ItemId: 20, Score: 5}},
	})
	assert.Error(t, err)
}

func TestNewAggregatorPreconditions(t *testing.T) {
	matrix := dataset.NewMatrix()
	require.NoError(t, matrix.Add(1, 1, 4))
	require.NoError(t, matrix.Add(2, 1, 4))
	engine, err := cf.NewEngine(matrix, config.CFConfig{Metric: "pearson", TopK: 10, MinOverlap: 3})
	require.NoError(t, err)
	_, err = NewAggregator(engine, matrix, []int{1})
	assert.Error(t, err)
	_, err = NewAggregator(engine, matrix, []int{1, 99})
	assert.Error(t, err)
	_, err = NewAggregator(engine, matrix, []int{1, 2})
	assert.NoError(t, err)
}
