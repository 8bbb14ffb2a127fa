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

// Package dataset holds the in-memory rating matrix and the MovieLens
// loaders. The matrix is loaded once and read-only afterwards.
package dataset

import (
	"bufio"
	"os"
	"strconv"
	"time"

	"github.com/groupwise-io/groupwise/base"
	"github.com/groupwise-io/groupwise/base/log"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Matrix is a sparse user-item rating matrix. A cell is absent, never zero,
// when a user has not rated an item. Users and items keep their first-seen
// order so that downstream sorts are reproducible across runs.
type Matrix struct {
	users       []int
	items       []int
	userIndex   map[int]int
	itemIndex   map[int]int
	userRatings []map[int]float64
	userSums    []float64
	count       int
}

func NewMatrix() *Matrix {
	return &Matrix{
		userIndex: make(map[int]int),
		itemIndex: make(map[int]int),
	}
}

// Add inserts one rating. Duplicate (user, item) pairs are malformed
// upstream data and rejected.
func (m *Matrix) Add(userId, itemId int, rating float64) error {
	userIndex, exist := m.userIndex[userId]
	if !exist {
		userIndex = len(m.users)
		m.userIndex[userId] = userIndex
		m.users = append(m.users, userId)
		m.userRatings = append(m.userRatings, make(map[int]float64))
		m.userSums = append(m.userSums, 0)
	}
	if _, exist = m.itemIndex[itemId]; !exist {
		m.itemIndex[itemId] = len(m.items)
		m.items = append(m.items, itemId)
	}
	if _, exist = m.userRatings[userIndex][itemId]; exist {
		return errors.Errorf("duplicate rating for user %d and item %d", userId, itemId)
	}
	m.userRatings[userIndex][itemId] = rating
	m.userSums[userIndex] += rating
	m.count++
	return nil
}

// Users returns user ids in first-seen order.
func (m *Matrix) Users() []int {
	return m.users
}

// Items returns item ids in first-seen order.
func (m *Matrix) Items() []int {
	return m.items
}

func (m *Matrix) CountUsers() int {
	return len(m.users)
}

func (m *Matrix) CountItems() int {
	return len(m.items)
}

// Count returns the number of ratings.
func (m *Matrix) Count() int {
	return m.count
}

func (m *Matrix) HasUser(userId int) bool {
	_, exist := m.userIndex[userId]
	return exist
}

// Rating returns the rating of an item by a user. The second return value
// reports whether the user has rated the item.
func (m *Matrix) Rating(userId, itemId int) (float64, bool) {
	userIndex, exist := m.userIndex[userId]
	if !exist {
		return 0, false
	}
	rating, exist := m.userRatings[userIndex][itemId]
	return rating, exist
}

// UserRatings returns the profile of a user as an item to rating map. The
// returned map is shared with the matrix and must not be modified.
func (m *Matrix) UserRatings(userId int) map[int]float64 {
	userIndex, exist := m.userIndex[userId]
	if !exist {
		return nil
	}
	return m.userRatings[userIndex]
}

// UserMean returns the mean rating over the full profile of a user. Sums
// are accumulated at load time so this is constant time.
func (m *Matrix) UserMean(userId int) float64 {
	userIndex, exist := m.userIndex[userId]
	if !exist || len(m.userRatings[userIndex]) == 0 {
		return 0
	}
	return m.userSums[userIndex] / float64(len(m.userRatings[userIndex]))
}

// UnratedItems returns, in item order, every item the user has not rated.
func (m *Matrix) UnratedItems(userId int) []int {
	userIndex, exist := m.userIndex[userId]
	if !exist {
		return nil
	}
	unrated := make([]int, 0, len(m.items)-len(m.userRatings[userIndex]))
	for _, itemId := range m.items {
		if _, rated := m.userRatings[userIndex][itemId]; !rated {
			unrated = append(unrated, itemId)
		}
	}
	return unrated
}

// LoadRatings loads a MovieLens style ratings.csv with a header line and
// rows of (userId, movieId, rating, timestamp).
func LoadRatings(path string) (*Matrix, error) {
	start := time.Now()
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	matrix := NewMatrix()
	var parseErr error
	scanner := bufio.NewScanner(file)
	err = base.ReadLines(scanner, ",", func(lineNumber int, fields []string) bool {
		if lineNumber == 0 {
			// header
			return true
		}
		if len(fields) < 3 {
			parseErr = errors.Errorf("ratings line %d: expect at least 3 fields", lineNumber+1)
			return false
		}
		userId, err := strconv.Atoi(fields[0])
		if err != nil {
			parseErr = errors.Annotatef(err, "ratings line %d", lineNumber+1)
			return false
		}
		itemId, err := strconv.Atoi(fields[1])
		if err != nil {
			parseErr = errors.Annotatef(err, "ratings line %d", lineNumber+1)
			return false
		}
		rating, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			parseErr = errors.Annotatef(err, "ratings line %d", lineNumber+1)
			return false
		}
		if err = matrix.Add(userId, itemId, rating); err != nil {
			parseErr = errors.Trace(err)
			return false
		}
		return true
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if parseErr != nil {
		return nil, parseErr
	}
	log.Logger().Info("load ratings",
		zap.String("path", path),
		zap.Int("num_users", matrix.CountUsers()),
		zap.Int("num_items", matrix.CountItems()),
		zap.Int("num_ratings", matrix.Count()),
		zap.Duration("duration", time.Since(start)))
	return matrix, nil
}
