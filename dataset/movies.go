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

package dataset

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/groupwise-io/groupwise/base"
	"github.com/juju/errors"
)

// Movie is read-only reference metadata joined against recommendation lists
// when explanations are generated. The core never reads it.
type Movie struct {
	MovieId int
	Title   string
	Genres  mapset.Set[string]
}

// LoadMovies loads a MovieLens style movies.csv with a header line and rows
// of (movieId, title, genres). Titles may be quoted and contain commas.
// Genres are separated by `|` and lowercased.
func LoadMovies(path string) (map[int]*Movie, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	movies := make(map[int]*Movie)
	var parseErr error
	scanner := bufio.NewScanner(file)
	err = base.ReadLines(scanner, ",", func(lineNumber int, fields []string) bool {
		if lineNumber == 0 {
			// header
			return true
		}
		if len(fields) < 3 {
			parseErr = errors.Errorf("movies line %d: expect 3 fields", lineNumber+1)
			return false
		}
		movieId, err := strconv.Atoi(fields[0])
		if err != nil {
			parseErr = errors.Annotatef(err, "movies line %d", lineNumber+1)
			return false
		}
		genres := mapset.NewSet[string]()
		for _, genre := range strings.Split(fields[2], "|") {
			if genre != "" && genre != "(no genres listed)" {
				genres.Add(strings.ToLower(genre))
			}
		}
		movies[movieId] = &Movie{
			MovieId: movieId,
			Title:   fields[1],
			Genres:  genres,
		}
		return true
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return movies, nil
}
