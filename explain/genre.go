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

package explain

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
)

// genreStatistics computes, per genre, the mean group score and the sample
// movies among the first limit entries of the ranking.
func (e *Explainer) genreStatistics(limit int) (map[string]float64, map[string][]int) {
	if limit > len(e.ranking) {
		limit = len(e.ranking)
	}
	totals := make(map[string]float64)
	samples := make(map[string][]int)
	for _, movieId := range e.ranking[:limit] {
		stat := e.movies[movieId]
		for genre := range stat.movie.Genres.Iter() {
			totals[genre] += stat.avgRating
			samples[genre] = append(samples[genre], movieId)
		}
	}
	means := make(map[string]float64, len(totals))
	for genre, total := range totals {
		means[genre] = total / float64(len(samples[genre]))
	}
	return means, samples
}

// mostCommonGenre picks the genre with the most samples, name breaking
// ties.
func mostCommonGenre(samples map[string][]int) string {
	best := ""
	for genre, movieIds := range samples {
		if best == "" || len(movieIds) > len(samples[best]) ||
			(len(movieIds) == len(samples[best]) && genre < best) {
			best = genre
		}
	}
	return best
}

func leastCommonGenre(samples map[string][]int) string {
	worst := ""
	for genre, movieIds := range samples {
		if worst == "" || len(movieIds) < len(samples[worst]) ||
			(len(movieIds) == len(samples[worst]) && genre < worst) {
			worst = genre
		}
	}
	return worst
}

// WhyNotGenre answers why a genre is underrepresented in the shown list.
func (e *Explainer) WhyNotGenre(genre string) []string {
	genre = strings.ToLower(genre)
	_, topSamples := e.genreStatistics(e.topN)
	_, analysisSamples := e.genreStatistics(AnalysisLimit)
	allMeans, _ := e.genreStatistics(len(e.ranking))
	if _, exist := allMeans[genre]; !exist {
		return []string{fmt.Sprintf("The genre %s does not exist in the database.", genre)}
	}
	if mostCommonGenre(topSamples) == genre {
		return []string{fmt.Sprintf("%s is already the most common recommendation genre.", genre)}
	}
	if allMeans[genre] == 0 {
		return []string{fmt.Sprintf("None of the group members have rated a %s movie.", genre)}
	}

	var explanations []string
	bestGenre := mostCommonGenre(topSamples)
	explanations = append(explanations, fmt.Sprintf(
		"Your group prefers %s movies. This could be the reason why %s movies "+
			"are not in the recommendations.", bestGenre, genre))
	if leastCommonGenre(topSamples) == genre {
		explanations = append(explanations, fmt.Sprintf(
			"Your group does not like %s movies.", genre))
	}
	explanations = append(explanations, fmt.Sprintf(
		"It is possible that the genre is simply not suitable for the group. "+
			"Only %d of the top-%d recommendations are %s movies. The other "+
			"genres could be more suitable for the group.",
		len(topSamples[genre]), e.topN, genre))

	if _, shown := topSamples[genre]; !shown {
		// find the extension depth at which the genre would dominate
		for k := e.topN; k <= AnalysisLimit; k += 10 {
			_, extendedSamples := e.genreStatistics(k)
			if mostCommonGenre(extendedSamples) == genre {
				explanations = append(explanations, fmt.Sprintf(
					"The genre %s is the most common when the recommendations "+
						"are extended to top-%d. You asked for too few movies (top-%d).",
					genre, k, e.topN))
				break
			}
		}
	} else {
		// count score ties between the dominant genre and this one
		ties := 0
		for _, bestMovieId := range topSamples[bestGenre] {
			bestScore := e.movies[bestMovieId].avgRating
			for _, movieId := range analysisSamples[genre] {
				if isClose(bestScore, e.movies[movieId].avgRating) {
					ties++
				}
			}
		}
		if len(topSamples[bestGenre]) == len(topSamples[genre])+ties {
			explanations = append(explanations, fmt.Sprintf(
				"The genre %s could be the most common in the recommendations, "+
					"but it is not because the order is not defined for movies "+
					"with the same score.", genre))
		}
	}
	return explanations
}

// topGenreNames returns the n most frequent genre names.
func topGenreNames(counts map[string]int, n int) mapset.Set[string] {
	genres := lo.Keys(counts)
	sort.Slice(genres, func(i, j int) bool {
		if counts[genres[i]] != counts[genres[j]] {
			return counts[genres[i]] > counts[genres[j]]
		}
		return genres[i] < genres[j]
	})
	if n > len(genres) {
		n = len(genres)
	}
	return mapset.NewSet(genres[:n]...)
}

func joinSorted(genres mapset.Set[string]) string {
	names := genres.ToSlice()
	sort.Strings(names)
	return strings.Join(names, ", ")
}
