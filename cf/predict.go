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
	"sort"

	"github.com/groupwise-io/groupwise/base/log"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Predict computes the rating of an item by the target user from a
// precomputed neighbor list:
//
//	predicted = mean(u) + sum(w_v * (r_vi - mean(v))) / sum(w_v)
//
// where v ranges over neighbors who rated the item and w_v is the
// similarity to the target user. Weights may be negative and can pull the
// prediction below the target's own mean; the result is not clamped to the
// rating scale. The second return value is false when no neighbor rated the
// item or the net weight is zero, in which case no prediction exists.
func (engine *Engine) Predict(userId, itemId int, neighbors []Neighbor) (float64, bool) {
	numerator, denominator := .0, .0
	found := false
	for _, neighbor := range neighbors {
		rating, rated := engine.matrix.Rating(neighbor.UserId, itemId)
		if !rated {
			continue
		}
		found = true
		numerator += neighbor.Similarity * (rating - engine.matrix.UserMean(neighbor.UserId))
		denominator += neighbor.Similarity
	}
	if !found || denominator == 0 {
		return 0, false
	}
	return engine.matrix.UserMean(userId) + numerator/denominator, true
}

// TopMovies predicts a rating for every item the user has not rated and
// returns the full ranked list, descending by predicted rating. Items
// without a prediction rank with score 0 so the list always covers every
// unrated item. Callers truncate to top-N.
func (engine *Engine) TopMovies(userId int) ([]Score, error) {
	neighbors, err := engine.TopNeighbors(userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	unrated := engine.matrix.UnratedItems(userId)
	scores := make([]Score, 0, len(unrated))
	missing := 0
	for _, itemId := range unrated {
		predicted, ok := engine.Predict(userId, itemId, neighbors)
		if !ok {
			missing++
		}
		scores = append(scores, Score{ItemId: itemId, Score: predicted})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if missing > 0 {
		log.Logger().Debug("items without prediction",
			zap.Int("user_id", userId),
			zap.Int("count", missing))
	}
	return scores, nil
}
