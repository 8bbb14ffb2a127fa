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

// Package explain generates natural language answers for why-not questions
// about a finished group recommendation list. It consumes the core's
// outputs joined against movie metadata and never feeds anything back.
package explain

import (
	"fmt"
	"math"
	"sort"

	"github.com/groupwise-io/groupwise/cf"
	"github.com/groupwise-io/groupwise/dataset"
)

// AnalysisLimit is how deep beyond the shown list the explainer looks when
// reasoning about ranks and extension depths.
const AnalysisLimit = 100

// movieStats joins one movie's metadata with the scores the core computed
// for it.
type movieStats struct {
	movie       *dataset.Movie
	userRatings map[int]float64
	avgRating   float64
}

// Explainer answers why-not questions against one average-aggregated group
// recommendation run.
type Explainer struct {
	movies  map[int]*movieStats
	ranking []int
	members []int
	topN    int
}

// NewExplainer joins the movie metadata with the per-member predicted
// ratings and the full ordered group list.
func NewExplainer(movies map[int]*dataset.Movie, members []int,
	recommendations map[int][]cf.Score, groupList []cf.Score, topN int) *Explainer {
	stats := make(map[int]*movieStats, len(movies))
	for movieId, movie := range movies {
		stats[movieId] = &movieStats{
			movie:       movie,
			userRatings: make(map[int]float64),
		}
	}
	for userId, scores := range recommendations {
		for _, score := range scores {
			if stat, exist := stats[score.ItemId]; exist {
				stat.userRatings[userId] = score.Score
			}
		}
	}
	ranking := make([]int, 0, len(groupList))
	for _, score := range groupList {
		if stat, exist := stats[score.ItemId]; exist {
			stat.avgRating = score.Score
			ranking = append(ranking, score.ItemId)
		}
	}
	return &Explainer{
		movies:  stats,
		ranking: ranking,
		members: members,
		topN:    topN,
	}
}

// FindMovie resolves a movie title to its id.
func (e *Explainer) FindMovie(title string) (int, bool) {
	for movieId, stat := range e.movies {
		if stat.movie.Title == title {
			return movieId, true
		}
	}
	return 0, false
}

// Ranking returns the full ordered group recommendation item ids.
func (e *Explainer) Ranking() []int {
	return e.ranking
}

// Title returns the title of a movie, or its id when unknown.
func (e *Explainer) Title(movieId int) string {
	if stat, exist := e.movies[movieId]; exist {
		return stat.movie.Title
	}
	return fmt.Sprintf("#%d", movieId)
}

// AvgRating returns the average-aggregated group score of a movie.
func (e *Explainer) AvgRating(movieId int) float64 {
	if stat, exist := e.movies[movieId]; exist {
		return stat.avgRating
	}
	return 0
}

func (e *Explainer) rankOf(movieId int) int {
	for i, id := range e.ranking {
		if id == movieId {
			return i
		}
	}
	return -1
}

// memberRatingsAscending returns the member ratings of a movie ordered by
// rating, member id breaking ties, so explanations come out in a stable
// worst-first order.
func (e *Explainer) memberRatingsAscending(stat *movieStats) []cf.Neighbor {
	ratings := make([]cf.Neighbor, 0, len(e.members))
	for _, userId := range e.members {
		ratings = append(ratings, cf.Neighbor{UserId: userId, Similarity: stat.userRatings[userId]})
	}
	sort.SliceStable(ratings, func(i, j int) bool {
		if ratings[i].Similarity != ratings[j].Similarity {
			return ratings[i].Similarity < ratings[j].Similarity
		}
		return ratings[i].UserId < ratings[j].UserId
	})
	return ratings
}

// memberExplanations describes how each member's rating kept a movie below
// a reference score.
func (e *Explainer) memberExplanations(stat *movieStats, reference float64, referencePosition string) []string {
	var explanations []string
	for _, rating := range e.memberRatingsAscending(stat) {
		switch {
		case rating.Similarity == 5.0:
			continue
		case rating.Similarity >= reference:
			explanations = append(explanations, fmt.Sprintf(
				"User %d has given a high rating of %.2f for the movie %s, "+
					"but they could have given an even higher rating to get the "+
					"movie in the recommendations.",
				rating.UserId, rating.Similarity, stat.movie.Title))
		case rating.Similarity == 0:
			explanations = append(explanations, fmt.Sprintf(
				"User %d has not rated the movie %s. This substantially "+
					"decreases the score for %s.",
				rating.UserId, stat.movie.Title, stat.movie.Title))
		default:
			explanations = append(explanations, fmt.Sprintf(
				"User %d hadn't given a high enough rating for the movie %s. "+
					"They gave a rating of %.2f which is lower than the %s movie "+
					"in the recommendations.",
				rating.UserId, stat.movie.Title, rating.Similarity, referencePosition))
		}
	}
	return explanations
}

// WhyNotMovie answers why a movie is absent from the shown top-N list.
func (e *Explainer) WhyNotMovie(movieId int) []string {
	rank := e.rankOf(movieId)
	if rank < 0 {
		return []string{"The movie does not exist in the database."}
	}
	stat := e.movies[movieId]
	if rank < e.topN {
		return []string{"The movie is already in the recommendations."}
	}
	if stat.avgRating == 0 {
		return []string{fmt.Sprintf(
			"None of the group members have rated the movie %s.", stat.movie.Title)}
	}
	lastShown := e.movies[e.ranking[e.topN-1]]
	explanations := e.memberExplanations(stat, lastShown.avgRating, "last")
	if rank < AnalysisLimit {
		// ceiling to the nearest ten
		topK := int(math.Ceil(float64(rank+1)/10)) * 10
		explanations = append(explanations, fmt.Sprintf(
			"The movie rank for %s is %d in the recommendations. You asked "+
				"for only top-%d movies. You could consider asking top-%d to "+
				"get the movie in the recommendations.",
			stat.movie.Title, rank+1, e.topN, topK))
	}
	if isClose(stat.avgRating, lastShown.avgRating) {
		explanations = append(explanations, fmt.Sprintf(
			"The movie %s has the same score as the last movie %s in the "+
				"recommendations, but it was not included in the recommendations "+
				"because it didn't fit in the top-%d recommendations.",
			stat.movie.Title, lastShown.movie.Title, e.topN))
	} else {
		explanations = append(explanations, fmt.Sprintf(
			"It is possible that the movie %s is simply not suitable for the "+
				"group. The movie has received a rating of %.2f on average. The "+
				"other movies could be more suitable for the group.",
			stat.movie.Title, stat.avgRating))
	}
	return explanations
}

// WhyNotFirst answers why a recommended movie is not ranked first.
func (e *Explainer) WhyNotFirst(movieId int) []string {
	rank := e.rankOf(movieId)
	if rank < 0 {
		return []string{"The movie does not exist in the database."}
	}
	stat := e.movies[movieId]
	if rank >= e.topN {
		return []string{fmt.Sprintf(
			"Can't answer why the movie %s isn't higher in the recommendations "+
				"because the movie is not in the recommendations.", stat.movie.Title)}
	}
	if rank == 0 {
		return []string{fmt.Sprintf(
			"The movie %s is already the highest in the recommendations.", stat.movie.Title)}
	}
	if stat.avgRating == 0 {
		return []string{fmt.Sprintf(
			"None of the group members have rated the movie %s.", stat.movie.Title)}
	}
	first := e.movies[e.ranking[0]]
	explanations := e.memberExplanations(stat, first.avgRating, "first")
	// compare the movie's genres with those of the shown list
	shownGenres := make(map[string]int)
	for _, shownId := range e.ranking[:e.topN] {
		for genre := range e.movies[shownId].movie.Genres.Iter() {
			shownGenres[genre]++
		}
	}
	topGenres := topGenreNames(shownGenres, stat.movie.Genres.Cardinality())
	if !stat.movie.Genres.Equal(topGenres) {
		explanations = append(explanations, fmt.Sprintf(
			"Your group prefers the following genres: %s, but the movie %s is "+
				"of the following genres: %s.",
			joinSorted(topGenres), stat.movie.Title, joinSorted(stat.movie.Genres)))
	}
	tied := false
	for _, aboveId := range e.ranking[:rank] {
		above := e.movies[aboveId]
		if isClose(stat.avgRating, above.avgRating) {
			tied = true
			explanations = append(explanations, fmt.Sprintf(
				"The movie %s has the same score as the movie %s in the "+
					"recommendations. The movie was not higher in the "+
					"recommendations because the order is not defined for movies "+
					"with the same score.",
				stat.movie.Title, above.movie.Title))
		}
	}
	if !tied {
		explanations = append(explanations, fmt.Sprintf(
			"It is possible that the movie %s is simply not suitable enough to "+
				"be higher on the recommendations for the group. The movie has "+
				"received a rating of %.2f on average. The other movies could be "+
				"more suitable for the group.",
			stat.movie.Title, stat.avgRating))
	}
	return explanations
}

func isClose(a, b float64) bool {
	// mirrors math.isclose with its default relative tolerance
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}
