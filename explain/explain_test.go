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
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/groupwise-io/groupwise/cf"
	"github.com/groupwise-io/groupwise/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMovie(movieId int, title string, genres ...string) *dataset.Movie {
	return &dataset.Movie{
		MovieId: movieId,
		Title:   title,
		Genres:  mapset.NewSet(genres...),
	}
}

// fixture: the group sees top-2 of [Alpha, Beta, Gamma, Delta]; Delta has
// no score because neither member could rate or predict it
func newTestExplainer() *Explainer {
	movies := map[int]*dataset.Movie{
		100: newTestMovie(100, "Alpha", "action"),
		101: newTestMovie(101, "Beta", "comedy"),
		102: newTestMovie(102, "Gamma", "action"),
		103: newTestMovie(103, "Delta", "drama"),
	}
	recommendations := map[int][]cf.Score{
		1: {{ItemId: 100, Score: 5}, {ItemId: 101, Score: 4}, {ItemId: 102, Score: 4}},
		2: {{ItemId: 100, Score: 4}, {ItemId: 101, Score: 4}, {ItemId: 102, Score: 3}},
	}
	groupList := []cf.Score{
		{ItemId: 100, Score: 4.5},
		{ItemId: 101, Score: 4.0},
		{ItemId: 102, Score: 3.5},
		{ItemId: 103, Score: 0},
	}
	return NewExplainer(movies, []int{1, 2}, recommendations, groupList, 2)
}

func TestExplainerAccessors(t *testing.T) {
	explainer := newTestExplainer()
	assert.Equal(t, []int{100, 101, 102, 103}, explainer.Ranking())

	movieId, found := explainer.FindMovie("Beta")
	assert.True(t, found)
	assert.Equal(t, 101, movieId)
	_, found = explainer.FindMovie("Zeta")
	assert.False(t, found)

	assert.Equal(t, "Gamma", explainer.Title(102))
	assert.Equal(t, "#999", explainer.Title(999))
	assert.Equal(t, 4.5, explainer.AvgRating(100))
	assert.Zero(t, explainer.AvgRating(999))
}

func TestWhyNotMovieUnknown(t *testing.T) {
	explainer := newTestExplainer()
	assert.Equal(t, []string{"The movie does not exist in the database."},
		explainer.WhyNotMovie(999))
}

func TestWhyNotMovieAlreadyShown(t *testing.T) {
	explainer := newTestExplainer()
	assert.Equal(t, []string{"The movie is already in the recommendations."},
		explainer.WhyNotMovie(100))
}

func TestWhyNotMovieUnrated(t *testing.T) {
	explainer := newTestExplainer()
	assert.Equal(t, []string{"None of the group members have rated the movie Delta."},
		explainer.WhyNotMovie(103))
}

func TestWhyNotMovie(t *testing.T) {
	explainer := newTestExplainer()
	explanations := explainer.WhyNotMovie(102)
	require.Len(t, explanations, 4)
	// member 2's rating 3.00 sits below the last shown movie, member 1's
	// rating 4.00 matches it, worst first
	assert.Contains(t, explanations[0], "User 2 hadn't given a high enough rating for the movie Gamma.")
	assert.Contains(t, explanations[0], "lower than the last movie")
	assert.Contains(t, explanations[1], "User 1 has given a high rating of 4.00 for the movie Gamma")
	assert.Contains(t, explanations[2], "The movie rank for Gamma is 3 in the recommendations.")
	assert.Contains(t, explanations[2], "consider asking top-10")
	assert.Contains(t, explanations[3], "simply not suitable for the group")
}

func TestWhyNotFirstNotShown(t *testing.T) {
	explainer := newTestExplainer()
	explanations := explainer.WhyNotFirst(102)
	require.Len(t, explanations, 1)
	assert.Contains(t, explanations[0], "the movie is not in the recommendations")
}

func TestWhyNotFirstAlreadyFirst(t *testing.T) {
	explainer := newTestExplainer()
	assert.Equal(t, []string{"The movie Alpha is already the highest in the recommendations."},
		explainer.WhyNotFirst(100))
}

func TestWhyNotFirst(t *testing.T) {
	explainer := newTestExplainer()
	explanations := explainer.WhyNotFirst(101)
	require.Len(t, explanations, 4)
	// both members rated 4.00, member id breaks the tie
	assert.Contains(t, explanations[0], "User 1 hadn't given a high enough rating for the movie Beta.")
	assert.Contains(t, explanations[0], "lower than the first movie")
	assert.Contains(t, explanations[1], "User 2 hadn't given a high enough rating for the movie Beta.")
	assert.Contains(t, explanations[2],
		"Your group prefers the following genres: action, but the movie Beta is of the following genres: comedy.")
	assert.Contains(t, explanations[3], "not suitable enough to be higher")
}

func TestWhyNotFirstUnknown(t *testing.T) {
	explainer := newTestExplainer()
	assert.Equal(t, []string{"The movie does not exist in the database."},
		explainer.WhyNotFirst(999))
}
