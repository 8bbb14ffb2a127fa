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

// Package cf implements user-based collaborative filtering: pairwise user
// similarity, neighborhood selection and mean-centered weighted-neighbor
// rating prediction.
package cf

import (
	"sort"
	"time"

	"github.com/groupwise-io/groupwise/config"
	"github.com/groupwise-io/groupwise/dataset"
	"github.com/jellydator/ttlcache/v3"
	"github.com/juju/errors"
)

// Neighbor is another user ranked by similarity to a target user.
type Neighbor struct {
	UserId     int
	Similarity float64
}

// Score is one entry of a recommendation list.
type Score struct {
	ItemId int
	Score  float64
}

// Engine predicts ratings over a read-only rating matrix. All methods are
// pure functions of the matrix and their arguments; the neighbor cache only
// avoids recomputing the O(users x items) pairwise scan.
type Engine struct {
	matrix     *dataset.Matrix
	metric     Metric
	topK       int
	minOverlap int
	neighbors  *ttlcache.Cache[int, []Neighbor]
}

// NewEngine creates an engine bound to a loaded matrix.
func NewEngine(matrix *dataset.Matrix, cfg config.CFConfig) (*Engine, error) {
	metric, err := ParseMetric(cfg.Metric)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if cfg.TopK <= 0 {
		return nil, errors.Errorf("top_k must be positive: %d", cfg.TopK)
	}
	return &Engine{
		matrix:     matrix,
		metric:     metric,
		topK:       cfg.TopK,
		minOverlap: cfg.MinOverlap,
		neighbors:  ttlcache.New(ttlcache.WithTTL[int, []Neighbor](time.Hour)),
	}, nil
}

// Metric returns the similarity metric of the engine.
func (engine *Engine) Metric() Metric {
	return engine.metric
}

// Neighbors ranks every other user by similarity to the target user,
// descending. The sort is stable with respect to the matrix's user order,
// and the full list is returned; callers truncate to top-K.
func (engine *Engine) Neighbors(userId int) ([]Neighbor, error) {
	if !engine.matrix.HasUser(userId) {
		return nil, errors.NotFoundf("user %d", userId)
	}
	if item := engine.neighbors.Get(userId); item != nil {
		return item.Value(), nil
	}
	neighbors := make([]Neighbor, 0, engine.matrix.CountUsers()-1)
	for _, otherId := range engine.matrix.Users() {
		if otherId == userId {
			continue
		}
		similarity, err := engine.Similarity(userId, otherId)
		if err != nil {
			return nil, errors.Trace(err)
		}
		neighbors = append(neighbors, Neighbor{UserId: otherId, Similarity: similarity})
	}
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Similarity > neighbors[j].Similarity
	})
	engine.neighbors.Set(userId, neighbors, ttlcache.DefaultTTL)
	return neighbors, nil
}

// TopNeighbors returns the top-K truncation of Neighbors.
func (engine *Engine) TopNeighbors(userId int) ([]Neighbor, error) {
	neighbors, err := engine.Neighbors(userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(neighbors) > engine.topK {
		neighbors = neighbors[:engine.topK]
	}
	return neighbors, nil
}

// TopN returns a truncated copy of a ranked list. The input is never
// modified.
func TopN(scores []Score, n int) []Score {
	if n > len(scores) {
		n = len(scores)
	}
	truncated := make([]Score, n)
	copy(truncated, scores[:n])
	return truncated
}

// Items projects a ranked list to its item ids.
func Items(scores []Score) []int {
	items := make([]int, len(scores))
	for i, score := range scores {
		items[i] = score.ItemId
	}
	return items
}
