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
	"github.com/groupwise-io/groupwise/base/log"
	"github.com/groupwise-io/groupwise/cf"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Iteration is one round of sequential hybrid aggregation.
type Iteration struct {
	// Alpha is the blending weight used this round.
	Alpha float64
	// Recommendations is the full blended group list.
	Recommendations []cf.Score
	// Satisfactions maps each member to their satisfaction with the
	// round's top-N list.
	Satisfactions map[int]float64
}

// SequentialHybrid runs the adaptive hybrid aggregation loop. The first
// round uses alpha 0, pure average, since no satisfaction data exists yet.
// Each later round blends with the satisfaction spread of the previous
// round: diverging member satisfaction shifts weight toward least misery.
// Satisfaction compares the round's top-N group list against each member's
// full personal ranking.
func (a *Aggregator) SequentialHybrid(recommendations map[int][]cf.Score, iterations, topN int) ([]Iteration, error) {
	aggregation, err := a.Aggregate(recommendations)
	if err != nil {
		return nil, errors.Trace(err)
	}
	memberItems := make(map[int][]int, len(a.members))
	for _, userId := range a.members {
		memberItems[userId] = cf.Items(recommendations[userId])
	}
	rounds := make([]Iteration, 0, iterations)
	alpha := .0
	for i := 0; i < iterations; i++ {
		blended := aggregation.Hybrid(alpha)
		topItems := cf.Items(cf.TopN(blended, topN))
		satisfactions := make(map[int]float64, len(a.members))
		for _, userId := range a.members {
			satisfactions[userId] = Satisfaction(topItems, memberItems[userId])
		}
		rounds = append(rounds, Iteration{
			Alpha:           alpha,
			Recommendations: blended,
			Satisfactions:   satisfactions,
		})
		log.Logger().Debug("hybrid aggregation round",
			zap.Int("iteration", i+1),
			zap.Float64("alpha", alpha))
		alpha = NextAlpha(lo.Map(a.members, func(userId int, _ int) float64 {
			return satisfactions[userId]
		}))
	}
	return rounds, nil
}
