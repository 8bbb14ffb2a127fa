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

// Package group combines several users' personal recommendation lists into
// one group list and measures ordinal disagreement between rankings.
package group

import (
	"sort"

	"github.com/groupwise-io/groupwise/cf"
	"github.com/groupwise-io/groupwise/dataset"
	"github.com/juju/errors"
)

// Aggregator combines per-member recommendation lists. Members are a small
// fixed set of user ids supplied by configuration.
type Aggregator struct {
	engine  *cf.Engine
	matrix  *dataset.Matrix
	members []int
}

// NewAggregator creates an aggregator for a group of users. Every member
// must exist in the rating matrix.
func NewAggregator(engine *cf.Engine, matrix *dataset.Matrix, members []int) (*Aggregator, error) {
	if len(members) < 2 {
		return nil, errors.Errorf("group needs at least 2 members, got %d", len(members))
	}
	for _, userId := range members {
		if !matrix.HasUser(userId) {
			return nil, errors.NotFoundf("group member %d", userId)
		}
	}
	return &Aggregator{
		engine:  engine,
		matrix:  matrix,
		members: members,
	}, nil
}

// Members returns the group's user ids.
func (a *Aggregator) Members() []int {
	return a.members
}

// MemberRecommendations computes the full personal recommendation list of
// every group member.
func (a *Aggregator) MemberRecommendations() (map[int][]cf.Score, error) {
	recommendations := make(map[int][]cf.Score, len(a.members))
	for _, userId := range a.members {
		scores, err := a.engine.TopMovies(userId)
		if err != nil {
			return nil, errors.Trace(err)
		}
		recommendations[userId] = scores
	}
	return recommendations, nil
}

// Aggregation holds the per-item group scores under the average and least
// misery strategies, over one shared candidate set. Candidates keep their
// first-appearance order across members so that equal scores rank
// deterministically.
type Aggregation struct {
	average     map[int]float64
	leastMisery map[int]float64
	candidates  []int
}

// Aggregate scores every candidate item under both strategies. The
// candidate set is the union of items in any member's list. A member's
// score for an item is taken from their list; members without the item
// contribute their real rating if they rated it, otherwise a fresh
// prediction. The average divides by group size, not by the number of
// contributing ratings.
func (a *Aggregator) Aggregate(recommendations map[int][]cf.Score) (*Aggregation, error) {
	// index member lists and gather candidates in first-appearance order
	indexed := make(map[int]map[int]float64, len(a.members))
	var candidates []int
	seen := make(map[int]struct{})
	for _, userId := range a.members {
		scores, exist := recommendations[userId]
		if !exist {
			return nil, errors.NotFoundf("recommendations for member %d", userId)
		}
		index := make(map[int]float64, len(scores))
		for _, score := range scores {
			index[score.ItemId] = score.Score
			if _, dup := seen[score.ItemId]; !dup {
				seen[score.ItemId] = struct{}{}
				candidates = append(candidates, score.ItemId)
			}
		}
		indexed[userId] = index
	}
	// score candidates
	aggregation := &Aggregation{
		average:     make(map[int]float64, len(candidates)),
		leastMisery: make(map[int]float64, len(candidates)),
		candidates:  candidates,
	}
	for _, itemId := range candidates {
		total := .0
		minimum := .0
		for i, userId := range a.members {
			rating, err := a.memberRating(indexed, userId, itemId)
			if err != nil {
				return nil, errors.Trace(err)
			}
			total += rating
			if i == 0 || rating < minimum {
				minimum = rating
			}
		}
		aggregation.average[itemId] = total / float64(len(a.members))
		aggregation.leastMisery[itemId] = minimum
	}
	return aggregation, nil
}

// memberRating resolves one member's rating for a candidate item: the
// predicted rating from their list, their real rating, or a fresh
// prediction as a last resort.
func (a *Aggregator) memberRating(indexed map[int]map[int]float64, userId, itemId int) (float64, error) {
	if rating, exist := indexed[userId][itemId]; exist {
		return rating, nil
	}
	if rating, rated := a.matrix.Rating(userId, itemId); rated {
		return rating, nil
	}
	neighbors, err := a.engine.TopNeighbors(userId)
	if err != nil {
		return 0, errors.Trace(err)
	}
	// a missing prediction keeps the sentinel score 0
	rating, _ := a.engine.Predict(userId, itemId, neighbors)
	return rating, nil
}

// Average returns the ranked group list under average aggregation.
func (aggregation *Aggregation) Average() []cf.Score {
	return aggregation.ranked(aggregation.average)
}

// LeastMisery returns the ranked group list under least misery
// aggregation.
func (aggregation *Aggregation) LeastMisery() []cf.Score {
	return aggregation.ranked(aggregation.leastMisery)
}

// Hybrid blends the two strategies per item:
//
//	(1-alpha) * average + alpha * least misery
//
// Alpha 0 reduces to pure average, alpha 1 to pure least misery.
func (aggregation *Aggregation) Hybrid(alpha float64) []cf.Score {
	blended := make(map[int]float64, len(aggregation.candidates))
	for _, itemId := range aggregation.candidates {
		blended[itemId] = (1-alpha)*aggregation.average[itemId] + alpha*aggregation.leastMisery[itemId]
	}
	return aggregation.ranked(blended)
}

// AverageScore returns the average aggregation score of one item. The
// second return value reports whether the item is a candidate.
func (aggregation *Aggregation) AverageScore(itemId int) (float64, bool) {
	score, exist := aggregation.average[itemId]
	return score, exist
}

func (aggregation *Aggregation) ranked(scores map[int]float64) []cf.Score {
	list := make([]cf.Score, 0, len(aggregation.candidates))
	for _, itemId := range aggregation.candidates {
		list = append(list, cf.Score{ItemId: itemId, Score: scores[itemId]})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Score > list[j].Score
	})
	return list
}
