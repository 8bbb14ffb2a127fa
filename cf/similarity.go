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
	"math"

	"github.com/juju/errors"
)

// Metric selects the similarity measure between two users.
type Metric string

const (
	// Pearson is the Pearson correlation coefficient over co-rated items,
	// each profile centered by the user's full-profile mean.
	Pearson Metric = "pearson"
	// Cosine is the plain cosine of the angle between the co-rated rating
	// vectors, without centering.
	Cosine Metric = "cosine"
	// AdjustedCosine is cosine over co-rated vectors centered by each
	// user's full-profile mean, which removes per-user rating scale bias.
	AdjustedCosine Metric = "adjusted_cosine"
)

// ParseMetric converts a metric name to a Metric.
func ParseMetric(name string) (Metric, error) {
	switch Metric(name) {
	case Pearson, Cosine, AdjustedCosine:
		return Metric(name), nil
	}
	return "", errors.Errorf("unknown similarity metric: %s", name)
}

// Similarity computes the similarity between two distinct users under the
// engine's metric. Pairs with fewer than MinOverlap co-rated items score 0:
// correlation estimates over tiny samples are unstable. Zero variance on
// either co-rated vector also scores 0.
func (engine *Engine) Similarity(a, b int) (float64, error) {
	if !engine.matrix.HasUser(a) {
		return 0, errors.NotFoundf("user %d", a)
	}
	if !engine.matrix.HasUser(b) {
		return 0, errors.NotFoundf("user %d", b)
	}
	ratingsA := engine.matrix.UserRatings(a)
	ratingsB := engine.matrix.UserRatings(b)
	if countCoRated(ratingsA, ratingsB) < engine.minOverlap {
		return 0, nil
	}
	switch engine.metric {
	case Cosine:
		return centeredCosine(ratingsA, ratingsB, 0, 0), nil
	case Pearson, AdjustedCosine:
		// Full-profile means, not means over the co-rated subset.
		return centeredCosine(ratingsA, ratingsB,
			engine.matrix.UserMean(a), engine.matrix.UserMean(b)), nil
	}
	return 0, errors.Errorf("unknown similarity metric: %s", engine.metric)
}

func countCoRated(ratingsA, ratingsB map[int]float64) int {
	if len(ratingsB) < len(ratingsA) {
		ratingsA, ratingsB = ratingsB, ratingsA
	}
	count := 0
	for itemId := range ratingsA {
		if _, exist := ratingsB[itemId]; exist {
			count++
		}
	}
	return count
}

// centeredCosine computes the cosine over the co-rated vectors after
// subtracting the given means. With full-profile means this is both the
// Pearson correlation and the adjusted cosine; with zero means it is the
// plain cosine.
func centeredCosine(ratingsA, ratingsB map[int]float64, meanA, meanB float64) float64 {
	m, n, l := .0, .0, .0
	for itemId, a := range ratingsA {
		if b, exist := ratingsB[itemId]; exist {
			ratingA := a - meanA
			ratingB := b - meanB
			m += ratingA * ratingA
			n += ratingB * ratingB
			l += ratingA * ratingB
		}
	}
	denominator := math.Sqrt(m) * math.Sqrt(n)
	if denominator == 0 {
		return 0
	}
	return l / denominator
}
