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

package cf

import (
	"testing"

	"github.com/groupwise-io/groupwise/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredict(t *testing.T) {
	matrix := newTestMatrix(t, []ratingRow{
		{1, 1, 4}, {1, 2, 2},
		{2, 1, 4}, {2, 3, 5},
		{3, 2, 2}, {3, 3, 1},
	})
	engine := newTestEngine(t, matrix, "pearson")
	// mean(1) = 3, mean(2) = 4.5, mean(3) = 1.5
	predicted, ok := engine.Predict(1, 3, []Neighbor{
		{UserId: 2, Similarity: 0.8},
		{UserId: 3, Similarity: 0.4},
	})
	require.True(t, ok)
	// 3 + (0.8*(5-4.5) + 0.4*(1-1.5)) / 1.2
	assert.InDelta(t, 3+0.2/1.2, predicted, testEpsilon)
}

func TestPredictNegativeWeight(t *testing.T) {
	matrix := newTestMatrix(t, []ratingRow{
		{1, 1, 4}, {1, 2, 2},
		{2, 1, 4}, {2, 3, 5},
	})
	engine := newTestEngine(t, matrix, "pearson")
	// a negatively correlated neighbor above their own mean pulls the
	// prediction below the target's mean
	predicted, ok := engine.Predict(1, 3, []Neighbor{{UserId: 2, Similarity: -0.5}})
	require.True(t, ok)
	assert.InDelta(t, 3-(5-4.5), predicted, testEpsilon)
}

func TestPredictNoEffectiveNeighbors(t *testing.T) {
	matrix := newTestMatrix(t, []ratingRow{
		{1, 1, 4},
		{2, 1, 4},
	})
	engine := newTestEngine(t, matrix, "pearson")
	// empty neighborhood
	predicted, ok := engine.Predict(1, 2, nil)
	assert.False(t, ok)
	assert.Zero(t, predicted)
	// neighbor did not rate the item
	predicted, ok = engine.Predict(1, 2, []Neighbor{{UserId: 2, Similarity: 1}})
	assert.False(t, ok)
	assert.Zero(t, predicted)
}

func TestPredictZeroNetWeight(t *testing.T) {
	matrix := newTestMatrix(t, []ratingRow{
		{1, 1, 4},
		{2, 3, 5},
		{3, 3, 1},
	})
	engine := newTestEngine(t, matrix, "pearson")
	predicted, ok := engine.Predict(1, 3, []Neighbor{
		{UserId: 2, Similarity: 0.5},
		{UserId: 3, Similarity: -0.5},
	})
	assert.False(t, ok)
	assert.Zero(t, predicted)
}

func TestTopMovies(t *testing.T) {
	matrix := newTestMatrix(t, []ratingRow{
		{1, 1, 5}, {1, 2, 3},
		{2, 1, 5}, {2, 2, 3}, {2, 3, 4}, {2, 4, 1},
		{3, 1, 5}, {3, 2, 3}, {3, 3, 2},
	})
	engine, err := NewEngine(matrix, config.CFConfig{Metric: "cosine", TopK: 10, MinOverlap: 2})
	require.NoError(t, err)
	scores, err := engine.TopMovies(1)
	require.NoError(t, err)
	// one entry per unrated item, sorted descending
	require.Len(t, scores, 2)
	assert.Equal(t, 3, scores[0].ItemId)
	assert.Equal(t, 4, scores[1].ItemId)
	assert.Greater(t, scores[0].Score, scores[1].Score)
	// cosine similarity to both neighbors is 1, so the predictions are
	// plain mean-centered averages
	assert.InDelta(t, 4+((4-3.25)+(2-10.0/3))/2, scores[0].Score, testEpsilon)
	assert.InDelta(t, 4+(1-3.25), scores[1].Score, testEpsilon)
}

func TestTopMoviesSentinelScore(t *testing.T) {
	// nobody rated item 3 except the target's non-overlapping peer, so
	// the item keeps the sentinel score 0 but stays in the list
	matrix := newTestMatrix(t, []ratingRow{
		{1, 1, 5}, {1, 2, 3},
		{2, 1, 5}, {2, 2, 3},
		{3, 3, 4},
	})
	engine, err := NewEngine(matrix, config.CFConfig{Metric: "cosine", TopK: 1, MinOverlap: 2})
	require.NoError(t, err)
	scores, err := engine.TopMovies(1)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 3, scores[0].ItemId)
	assert.Zero(t, scores[0].Score)
}

func TestTopMoviesUnknownUser(t *testing.T) {
	matrix := newTestMatrix(t, []ratingRow{{1, 1, 4}})
	engine := newTestEngine(t, matrix, "pearson")
	_, err := engine.TopMovies(42)
	assert.Error(t, err)
}
